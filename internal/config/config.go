package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWKSURI = "https://keeplater.kinde.com/.well-known/jwks.json"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline (ex: 10s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Database
	DatabaseURL       string        // postgres://..., sqlite://path or memory://
	DBMaxOpenConns    int           // pool size
	DBMaxIdleConns    int           // idle connections kept
	DBConnMaxLifetime time.Duration // recycle connections after this long
	DBSlowQuery       time.Duration // queries slower than this are logged at warn
	DBAutoMigrate     bool          // create/extend the entries table on start

	// Authentication
	JWKSURI     string        // key set used to verify /entries tokens
	JWTIssuer   string        // optional, required iss claim
	JWTAudience string        // optional, required aud claim
	JWTLeeway   time.Duration // clock skew tolerance for exp/nbf

	// Redis (optional, enables the share guard)
	RedisAddr             string        // ex: "localhost:6379", empty = guard disabled
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
	ShareLockTTL          time.Duration // lifetime of a per-URL share lock
	ShareLockWait         time.Duration // how long a share waits for a held lock

	// Seed import
	SeedFile       string        // homepage-style bookmarks.yaml (optional, empty = import disabled)
	ImportInterval time.Duration // interval to re-import the seed file (default: 24h)

	// Share endpoint
	ShareRateBurst  int // requests allowed at once per client IP
	ShareRatePerMin int // sustained requests per minute per client IP

	CORSOrigins  []string // origins allowed to call /entries from a browser
	AllowedHosts []string // optional, restrict ops endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("KEEPLATER_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("KEEPLATER_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("KEEPLATER_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("KEEPLATER_LOG_LEVEL", "info"),
		PrettyLog: mustBool("KEEPLATER_PRETTY_LOG", true),

		// Database
		DatabaseURL:       requireEnv("DATABASE_URL"),
		DBMaxOpenConns:    getenvInt("KEEPLATER_DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getenvInt("KEEPLATER_DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: mustDuration("KEEPLATER_DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DBSlowQuery:       mustDuration("KEEPLATER_DB_SLOW_QUERY", 200*time.Millisecond),
		DBAutoMigrate:     mustBool("KEEPLATER_DB_AUTO_MIGRATE", true),

		// Authentication
		JWKSURI:     getenv("JWKS_URI", defaultJWKSURI),
		JWTIssuer:   getenv("KEEPLATER_JWT_ISSUER", ""),
		JWTAudience: getenv("KEEPLATER_JWT_AUDIENCE", ""),
		JWTLeeway:   mustDuration("KEEPLATER_JWT_LEEWAY", 0),

		// Redis settings
		RedisAddr:             getenv("KEEPLATER_REDIS_ADDR", ""),
		RedisUser:             getenv("KEEPLATER_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("KEEPLATER_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("KEEPLATER_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("KEEPLATER_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),
		ShareLockTTL:          mustDuration("KEEPLATER_SHARE_LOCK_TTL", 5*time.Second),
		ShareLockWait:         mustDuration("KEEPLATER_SHARE_LOCK_WAIT", 2*time.Second),

		// Seed import
		SeedFile:       getenv("KEEPLATER_SEED_FILE", ""),
		ImportInterval: mustDuration("KEEPLATER_IMPORT_INTERVAL", 24*time.Hour),

		// Share endpoint
		ShareRateBurst:  getenvInt("KEEPLATER_SHARE_RATE_BURST", 30),
		ShareRatePerMin: getenvInt("KEEPLATER_SHARE_RATE_PER_MIN", 60),

		// Access restrictions
		CORSOrigins:  splitAndTrim(getenv("KEEPLATER_CORS_ORIGINS", "")),
		AllowedHosts: splitAndTrim(getenv("KEEPLATER_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("KEEPLATER_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("KEEPLATER_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisEnabled() && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: KEEPLATER_REDIS_PASSWORD is required when KEEPLATER_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	cp.DatabaseURL = redactURL(cp.DatabaseURL)
	return cp
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***REDACTED***"
	}
	return u.Redacted()
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
