package api

import (
	"net/http"
	"net/url"

	"otlabs.dev/labgate/internal/config"
	"otlabs.dev/labgate/internal/logging"
	"otlabs.dev/labgate/internal/metrics"
)

// OriginGate rejects state-changing cross-origin requests before any
// business logic runs. Browsers attach Origin (or at least Referer) to
// cross-site POSTs, so a request that names a foreign host, or names no
// host at all, is treated as forged.
//
// Non-browser clients (curl, service calls) send neither header and are
// rejected in enforce mode too; deployments that need them use the log
// or off modes, which exist for controlled environments only.
type OriginGate struct {
	mode         string
	allowedHosts []string
	logger       *logging.Logger
}

// NewOriginGate builds the gate from the API config section.
func NewOriginGate(cfg *config.APIConfig, logger *logging.Logger) *OriginGate {
	mode := config.OriginEnforce
	var hosts []string
	if cfg != nil {
		if cfg.OriginCheck != "" {
			mode = cfg.OriginCheck
		}
		hosts = cfg.AllowedHosts
	}
	if logger == nil {
		logger = logging.WithComponent("origin")
	}
	return &OriginGate{mode: mode, allowedHosts: hosts, logger: logger}
}

// Wrap applies the gate to next.
func (g *OriginGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.mode == config.OriginOff || isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		value, ok := g.check(r)
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		metrics.Get().OriginRejects.WithLabelValues(g.mode).Inc()
		if g.mode == config.OriginLog {
			g.logger.Warn("Cross-origin request allowed in log mode",
				"method", r.Method, "path", r.URL.Path, "origin", value, "ip", getClientIP(r))
			next.ServeHTTP(w, r)
			return
		}

		g.logger.Warn("Cross-origin request rejected",
			"method", r.Method, "path", r.URL.Path, "origin", value, "ip", getClientIP(r))
		WriteError(w, http.StatusForbidden, "Invalid origin",
			"Cross-origin request blocked")
	})
}

// check reports whether the request's Origin (or Referer) names an
// allowed host, returning the offending value for logging when it does
// not. An empty string means neither header was present.
func (g *OriginGate) check(r *http.Request) (string, bool) {
	value := r.Header.Get("Origin")
	if value == "" {
		value = r.Header.Get("Referer")
	}
	if value == "" {
		return "", false
	}

	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return value, false
	}

	if hostMatches(u, r.Host) {
		return value, true
	}
	for _, h := range g.allowedHosts {
		if hostMatches(u, h) {
			return value, true
		}
	}
	return value, false
}

// hostMatches accepts either an exact host:port match or a bare hostname
// match, so "labs.example.com" in the allow list covers any port.
func hostMatches(u *url.URL, allowed string) bool {
	return u.Host == allowed || u.Hostname() == allowed
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
