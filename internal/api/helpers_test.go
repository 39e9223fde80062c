package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIPDirectPeer(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:4411"

	assert.Equal(t, "203.0.113.7", getClientIP(req))
}

func TestGetClientIPIgnoresSpoofedForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:4411"
	req.Header.Set("X-Forwarded-For", "10.9.9.9")
	req.Header.Set("X-Real-IP", "10.8.8.8")

	// A public peer is not the reverse proxy, so its headers do not
	// rewrite the rate-limit key.
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}

func TestGetClientIPForwardedForFromProxy(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:9000"
	req.Header.Set("X-Forwarded-For", "198.51.100.23, 10.0.0.1")

	assert.Equal(t, "198.51.100.23", getClientIP(req))
}

func TestGetClientIPRealIPFromProxy(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:9000"
	req.Header.Set("X-Real-IP", "198.51.100.42")

	assert.Equal(t, "198.51.100.42", getClientIP(req))
}

func TestGetClientIPProxyWithoutHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:9000"

	assert.Equal(t, "127.0.0.1", getClientIP(req))
}
