package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otlabs.dev/labgate/internal/auth"
	"otlabs.dev/labgate/internal/config"
	"otlabs.dev/labgate/internal/labctl"
)

// fakeController stands in for the external lab controller and records
// which tier endpoint each switch hit.
type fakeController struct {
	guestSwitches atomic.Int32
	adminSwitches atomic.Int32
}

func (f *fakeController) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /guest/switch", func(w http.ResponseWriter, r *http.Request) {
		f.guestSwitches.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"hmiUrl": "http://hmi.local/guest"})
	})
	mux.HandleFunc("POST /admin/switch", func(w http.ResponseWriter, r *http.Request) {
		f.adminSwitches.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"hmiUrl": "http://hmi.local/admin"})
	})
	mux.HandleFunc("GET /diagnostics/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"active": "modbus"})
	})
	return mux
}

// newGatewayServer wires a full server against the fake controller with
// the origin gate in enforce mode, the way production runs.
func newGatewayServer(t *testing.T) (*Server, *fakeController) {
	t.Helper()
	fc := &fakeController{}
	upstream := httptest.NewServer(fc.handler())
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	cfg.Lab.BaseURL = upstream.URL
	cfg.Normalize()
	cfg.API.AllowedHosts = []string{"labs.example.com"}

	lab := labctl.New(labctl.Options{
		GuestURL: cfg.Lab.GuestURL,
		AdminURL: cfg.Lab.AdminURL,
		DiagURL:  cfg.Lab.DiagURL,
		Timeout:  2 * time.Second,
	})

	s := NewServer(ServerOptions{Config: cfg, Lab: lab})
	t.Cleanup(s.hub.Stop)
	return s, fc
}

func switchRequest(s *Server, protocol, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(map[string]string{"protocol": protocol})
	req := httptest.NewRequest(http.MethodPost, "/api/lab/switch", &buf)
	req.Header.Set("Origin", "https://labs.example.com")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGatewayAuthenticatedSwitchUsesAdminURL(t *testing.T) {
	s, fc := newGatewayServer(t)
	sess := s.sessions.CreateSession(&auth.User{ID: "u1", Username: "operator"})

	rec := switchRequest(s, "opcua", "Bearer "+sess.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	var out labctl.SwitchOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, int32(1), fc.adminSwitches.Load())
	assert.Equal(t, int32(0), fc.guestSwitches.Load())
}

func TestGatewayGuestSwitchUsesGuestURL(t *testing.T) {
	s, fc := newGatewayServer(t)

	rec := switchRequest(s, "modbus", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), fc.guestSwitches.Load())
	assert.Equal(t, int32(0), fc.adminSwitches.Load())
}

func TestGatewayGuestDeniedNoUpstreamCall(t *testing.T) {
	s, fc := newGatewayServer(t)

	rec := switchRequest(s, "s7", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, int32(0), fc.guestSwitches.Load())
	assert.Equal(t, int32(0), fc.adminSwitches.Load())
}

func TestGatewayUnknownProtocolRejectedForEveryone(t *testing.T) {
	s, _ := newGatewayServer(t)
	sess := s.sessions.CreateSession(&auth.User{ID: "u1"})

	assert.Equal(t, http.StatusBadRequest, switchRequest(s, "not-a-real-protocol", "").Code)
	assert.Equal(t, http.StatusBadRequest, switchRequest(s, "not-a-real-protocol", "Bearer "+sess.Token).Code)
}

func TestGatewaySwitchBlockedByOriginGate(t *testing.T) {
	s, fc := newGatewayServer(t)

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(map[string]string{"protocol": "modbus"})
	req := httptest.NewRequest(http.MethodPost, "/api/lab/switch", &buf)
	// No Origin or Referer header at all.
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, int32(0), fc.guestSwitches.Load())
}

func TestGatewayStatusReadable(t *testing.T) {
	s, _ := newGatewayServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/lab/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":"modbus"`)
}

func TestGatewayHealth(t *testing.T) {
	s, _ := newGatewayServer(t)

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	}
}

func TestGatewayMetricsEndpoint(t *testing.T) {
	s, _ := newGatewayServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGatewayPanicRecovery(t *testing.T) {
	s, _ := newGatewayServer(t)
	s.mux.HandleFunc("GET /api/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/boom", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "handler exploded")
}

func TestGatewayShutdown(t *testing.T) {
	s, _ := newGatewayServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
