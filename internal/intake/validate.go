package intake

import (
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// hostProfile is UTS 46 as browsers apply it to URL hosts: non-transitional,
// STD3 rules off, hyphen placement unchecked.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
	idna.CheckJoiners(true),
	idna.BidiRule(),
	idna.Transitional(false),
)

var stripTabsAndNewlines = strings.NewReplacer("\t", "", "\n", "", "\r", "")

// IsValidURL reports whether candidate parses as an http or https URL with a
// host, the way a browser's URL parser reads it:
//
//	" https://a.com\n"   valid, surrounding controls and spaces are ignored
//	"https://a.com/a\tb" valid, tabs and newlines are dropped
//	"https:example.com"  valid, host example.com
//	`https:\\a.com\x`    valid, backslashes count as slashes
//	"http://a.com:99999" invalid port
//
// Path, query and fragment never make a special URL fail, so only the scheme,
// host and port are checked. Parse failures return false.
func IsValidURL(candidate string) bool {
	s := strings.TrimFunc(candidate, func(r rune) bool { return r <= ' ' })
	s = stripTabsAndNewlines.Replace(s)

	scheme, rest, ok := strings.Cut(s, ":")
	if !ok {
		return false
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
	default:
		return false
	}

	authority := strings.TrimLeft(rest, `/\`)
	if i := strings.IndexAny(authority, `/\?#`); i >= 0 {
		authority = authority[:i]
	}
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}

	host, port, ok := splitHostPort(authority)
	return ok && validPort(port) && validHost(host)
}

func splitHostPort(authority string) (host, port string, ok bool) {
	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return "", "", false
		}
		host, rest := authority[:end+1], authority[end+1:]
		if rest == "" {
			return host, "", true
		}
		if rest[0] != ':' {
			return "", "", false
		}
		return host, rest[1:], true
	}
	host, port, _ = strings.Cut(authority, ":")
	return host, port, true
}

// validPort accepts an empty port or up to 65535, leading zeros allowed.
func validPort(port string) bool {
	if port == "" {
		return true
	}
	if strings.Trim(port, "0123456789") != "" {
		return false
	}
	n, err := strconv.ParseUint(port, 10, 32)
	return err == nil && n <= 65535
}

func validHost(host string) bool {
	if host == "" {
		return false
	}

	if host[0] == '[' {
		if !strings.HasSuffix(host, "]") {
			return false
		}
		addr, err := netip.ParseAddr(host[1 : len(host)-1])
		return err == nil && addr.Is6() && addr.Zone() == ""
	}

	decoded, err := url.PathUnescape(host)
	if err != nil {
		return false
	}
	ascii, err := hostProfile.ToASCII(decoded)
	if err != nil || ascii == "" {
		return false
	}
	for i := 0; i < len(ascii); i++ {
		if c := ascii[i]; c <= ' ' || c == 0x7f || strings.IndexByte(`#%/:<>?@[\]^|`, c) >= 0 {
			return false
		}
	}

	if endsInNumber(ascii) {
		return validIPv4(ascii)
	}
	return true
}

// ipv4Parts splits host on dots, ignoring one trailing dot.
func ipv4Parts(host string) []string {
	parts := strings.Split(host, ".")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// endsInNumber reports whether the last label reads as a number, which makes
// the whole host an IPv4 address ("1.2.3.4", "0x7f.1", "999").
func endsInNumber(host string) bool {
	parts := ipv4Parts(host)
	last := parts[len(parts)-1]
	if last != "" && strings.Trim(last, "0123456789") == "" {
		return true
	}
	_, ok := parseIPv4Number(last)
	return ok
}

// parseIPv4Number reads a decimal, 0x hex or leading-zero octal label.
func parseIPv4Number(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	base := 10
	switch {
	case len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X"):
		base, s = 16, s[2:]
	case len(s) >= 2 && s[0] == '0':
		base, s = 8, s[1:]
	}
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(s, base, 64)
	return n, err == nil
}

// validIPv4 applies the IPv4 shorthand rules: up to four parts, every part
// but the last below 256, the last filling the remaining bytes.
func validIPv4(host string) bool {
	parts := ipv4Parts(host)
	if len(parts) > 4 {
		return false
	}
	for i, p := range parts {
		n, ok := parseIPv4Number(p)
		if !ok {
			return false
		}
		if i < len(parts)-1 {
			if n > 255 {
				return false
			}
			continue
		}
		if n >= 1<<(8*(5-len(parts))) {
			return false
		}
	}
	return true
}
