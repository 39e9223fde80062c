package api

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"otlabs.dev/labgate/internal/logging"
	"otlabs.dev/labgate/internal/metrics"
)

// accessLogWriter wraps http.ResponseWriter to capture the status code
type accessLogWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *accessLogWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *accessLogWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// Hijack is needed for websocket upgrades behind the middleware chain.
func (rw *accessLogWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// AccessLogger middleware logs all HTTP requests and feeds the request
// metrics.
func AccessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &accessLogWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		if r.URL.Path != "/metrics" {
			logging.APILog("info", "%s %s %s %d %d %s",
				r.Method, r.URL.Path, getClientIP(r), rw.status, rw.size, duration)
		}

		reg := metrics.Get()
		reg.APIRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.status)).Inc()
		reg.APILatency.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())
	})
}
