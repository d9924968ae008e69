package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

// ErrUnauthorized covers every token failure; the cause is only logged.
var ErrUnauthorized = errors.New("unauthorized")

// validMethods lists the accepted signing algorithms; asymmetric only.
var validMethods = []string{"RS256", "RS384", "RS512", "PS256", "PS384", "PS512", "ES256", "ES384", "ES512", "EdDSA"}

// Options holds the optional claim checks.
type Options struct {
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Claims is what downstream handlers can read from the request context.
type Claims struct {
	Subject string
	Issuer  string
}

type ctxKey struct{}

// FromContext returns the verified claims, if the request went through Middleware.
func FromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}

// Middleware rejects requests without a valid bearer token with a 401.
func Middleware(keyfunc jwt.Keyfunc, opts Options, log logger.Logger) func(http.Handler) http.Handler {
	parser := newParser(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verify(parser, keyfunc, r.Header.Get("Authorization"))
			if err != nil {
				log.Debug("authentication failed",
					logger.String("path", r.URL.Path),
					logger.Error(err))
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newParser(opts Options) *jwt.Parser {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(validMethods),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	if opts.Leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(opts.Leeway))
	}
	return jwt.NewParser(parserOpts...)
}

func verify(parser *jwt.Parser, keyfunc jwt.Keyfunc, header string) (Claims, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return Claims{}, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	var registered jwt.RegisteredClaims
	if _, err := parser.ParseWithClaims(raw, &registered, keyfunc); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return Claims{Subject: registered.Subject, Issuer: registered.Issuer}, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="keeplater"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
}
