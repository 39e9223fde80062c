package labctl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otlabs.dev/labgate/internal/protocol"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Options{
		GuestURL: srv.URL + "/guest",
		AdminURL: srv.URL + "/admin",
		DiagURL:  srv.URL + "/diagnostics",
		Token:    "test-token",
		Timeout:  2 * time.Second,
	})
	return c, srv
}

func TestSwitchProtocolGuest(t *testing.T) {
	var gotPath, gotToken string
	var gotBody map[string]string

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Auth-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{
			"hmiUrl":  "http://hmi.local/modbus",
			"message": "modbus started",
		})
	}))

	out := c.SwitchProtocol(context.Background(), protocol.Modbus, false)

	assert.True(t, out.Success)
	assert.Equal(t, protocol.Modbus, out.Protocol)
	assert.Equal(t, "http://hmi.local/modbus", out.HMIURL)
	assert.Equal(t, "modbus started", out.Message)
	assert.Equal(t, "/guest/switch", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "modbus", gotBody["protocol"])
}

func TestSwitchProtocolAuthenticatedUsesAdminURL(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	out := c.SwitchProtocol(context.Background(), protocol.OPCUA, true)

	assert.True(t, out.Success)
	assert.Equal(t, "/admin/switch", gotPath)
}

func TestSwitchProtocolGuestDeniedWithoutUpstreamCall(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	out := c.SwitchProtocol(context.Background(), protocol.S7, false)

	assert.False(t, out.Success)
	assert.Equal(t, "sign in to access this protocol", out.Message)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSwitchProtocolInvalid(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())

	out := c.SwitchProtocol(context.Background(), protocol.Protocol("telnet"), true)

	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "unknown protocol")
}

func TestSwitchProtocolUpstreamStatusError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal detail that must not leak", http.StatusInternalServerError)
	}))

	out := c.SwitchProtocol(context.Background(), protocol.Modbus, false)

	assert.False(t, out.Success)
	assert.Equal(t, "lab controller returned status 500", out.Message)
	assert.NotContains(t, out.Message, "internal detail")
}

func TestSwitchProtocolUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{GuestURL: url, AdminURL: url, Timeout: time.Second})
	out := c.SwitchProtocol(context.Background(), protocol.Modbus, false)

	assert.False(t, out.Success)
	assert.Equal(t, "lab controller unreachable", out.Message)
}

func TestSwitchProtocolTimeout(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	c.http.Timeout = 50 * time.Millisecond

	start := time.Now()
	out := c.SwitchProtocol(context.Background(), protocol.Modbus, false)

	assert.False(t, out.Success)
	assert.Equal(t, "lab controller timed out", out.Message)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSwitchProtocolNotConfigured(t *testing.T) {
	c := New(Options{})

	out := c.SwitchProtocol(context.Background(), protocol.Modbus, false)

	assert.False(t, out.Success)
	assert.Equal(t, "lab controller not configured", out.Message)
}

func TestGetStatusActive(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/diagnostics/status", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"active": "modbus"})
	}))

	st := c.GetStatus(context.Background())

	require.NotNil(t, st.Active)
	assert.Equal(t, protocol.Modbus, *st.Active)
	assert.WithinDuration(t, time.Now(), st.Timestamp, 5*time.Second)
}

func TestGetStatusIdle(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"active": nil})
	}))

	st := c.GetStatus(context.Background())
	assert.Nil(t, st.Active)
}

func TestGetStatusDegradesOnFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	st := c.GetStatus(context.Background())

	assert.Nil(t, st.Active)
	assert.False(t, st.Timestamp.IsZero())
}

func TestGetStatusUnknownProtocolReportsIdle(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"active": "profinet"})
	}))

	st := c.GetStatus(context.Background())
	assert.Nil(t, st.Active)
}

func TestGetDiagnostics(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/diagnostics/containers", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"containers": []map[string]string{
				{"name": "modbus-sim", "status": "running", "health": "healthy", "uptime": "2h"},
			},
		})
	}))

	diag := c.GetDiagnostics(context.Background())

	require.Len(t, diag.Containers, 1)
	assert.Equal(t, "modbus-sim", diag.Containers[0].Name)
	assert.Equal(t, "healthy", diag.Containers[0].Health)
	assert.False(t, diag.Timestamp.IsZero())
}

func TestGetDiagnosticsDegradesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{DiagURL: url, Timeout: time.Second})
	diag := c.GetDiagnostics(context.Background())

	assert.NotNil(t, diag.Containers)
	assert.Empty(t, diag.Containers)
	assert.False(t, diag.Timestamp.IsZero())
}

func TestGetHMIURL(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/hmi/s7", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"url": "http://hmi.local/s7"})
	}))

	url := c.GetHMIURL(context.Background(), protocol.S7, true)
	assert.Equal(t, "http://hmi.local/s7", url)
}

func TestGetHMIURLGuestDenied(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	url := c.GetHMIURL(context.Background(), protocol.DNP3, false)

	assert.Empty(t, url)
	assert.Equal(t, int32(0), calls.Load())
}
