package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/utils"
)

// AllowOnlyCIDRS restricts the ops endpoints (readyz, infra, reload) to the
// given IPs and CIDRs. An empty or all-invalid list disables the check.
// Set trustProxy only behind a trusted reverse proxy/tunnel (e.g. cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("AllowOnlyCIDRS: empty matcher, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if m.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("client ip rejected",
				logger.String("ip", ip),
				logger.String("remote_addr", r.RemoteAddr),
				logger.String("path", r.URL.Path),
				logger.Bool("trust_proxy", trustProxy))
			forbidden(w)
		})
	}
}
