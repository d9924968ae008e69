package intake

import (
	"regexp"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
)

// textURLPattern matches from the first http(s):// up to the next whitespace.
// Whitespace includes Unicode spaces (share sheets often insert U+00A0).
// Trailing punctuation is kept on purpose: "see https://a.com." yields "https://a.com.".
var textURLPattern = regexp.MustCompile(`https?://[^\s\v\p{Z}\x{FEFF}]+`)

// ExtractURL picks the candidate URL from the three share_target inputs.
//
// Priority: url > first URL found in text > title. Each input is tried on its
// own; an invalid url falls through to text whatever the reason it failed.
func ExtractURL(rawURL, text, title *string) (string, bool) {
	if rawURL != nil && IsValidURL(*rawURL) {
		return *rawURL, true
	}

	if text != nil {
		if match := textURLPattern.FindString(*text); match != "" && IsValidURL(match) {
			return match, true
		}
	}

	if title != nil && IsValidURL(*title) {
		return *title, true
	}

	return "", false
}

// ExtractFromQuery is ExtractURL over a ShareQuery.
func ExtractFromQuery(q domain.ShareQuery) (string, bool) {
	return ExtractURL(q.URL, q.Text, q.Title)
}
