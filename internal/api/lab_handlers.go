package api

import (
	"encoding/json"
	"net/http"
	"time"

	"otlabs.dev/labgate/internal/auth"
	"otlabs.dev/labgate/internal/metrics"
	"otlabs.dev/labgate/internal/protocol"
)

const signInMessage = "Please sign in to access this protocol. Guest users can only access the Modbus lab."

// Switching boots and tears down simulator containers upstream, so one
// client gets a small budget per minute.
const (
	switchRateLimit  = 10
	switchRateWindow = time.Minute
)

// handleLabSwitch asks the controller to activate a protocol. The access
// policy is checked here before the controller is contacted at all; the
// lab client repeats the check internally.
func (s *Server) handleLabSwitch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Protocol string `json:"protocol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Protocol == "" {
		WriteError(w, http.StatusBadRequest, "Protocol is required")
		return
	}

	p, err := protocol.Parse(req.Protocol)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid protocol")
		return
	}

	isAuthenticated := auth.IsAuthenticated(r.Context())
	if !isAuthenticated && !protocol.IsGuestAllowed(p) {
		metrics.Get().LabSwitches.WithLabelValues(string(p), "denied").Inc()
		WriteError(w, http.StatusForbidden, "Authentication required", signInMessage)
		return
	}

	if !s.limits.Allow("switch:"+getClientIP(r), switchRateLimit, switchRateWindow) {
		WriteError(w, http.StatusTooManyRequests, "Too many switch requests",
			"Wait a moment before switching protocols again")
		return
	}

	result := s.lab.SwitchProtocol(r.Context(), p, isAuthenticated)
	if !result.Success {
		metrics.Get().LabSwitches.WithLabelValues(string(p), "failed").Inc()
		WriteError(w, http.StatusInternalServerError, result.Message)
		return
	}

	metrics.Get().LabSwitches.WithLabelValues(string(p), "success").Inc()
	s.hub.TriggerStatusUpdate()
	WriteJSON(w, http.StatusOK, result)
}

// handleLabProtocols reports which protocols the caller may activate.
func (s *Server) handleLabProtocols(w http.ResponseWriter, r *http.Request) {
	isAuthenticated := auth.IsAuthenticated(r.Context())
	WriteJSON(w, http.StatusOK, map[string]any{
		"protocols":       protocol.Strings(protocol.Allowed(isAuthenticated)),
		"isAuthenticated": isAuthenticated,
		"guestProtocols":  protocol.Strings(protocol.GuestAllowed()),
		"allProtocols":    protocol.Strings(protocol.All()),
	})
}

// handleLabStatus reports the active protocol. Never fails; a broken
// controller reads as idle.
func (s *Server) handleLabStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.lab.GetStatus(r.Context()))
}

// handleLabDiagnostics reports the controller's container fleet.
func (s *Server) handleLabDiagnostics(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.lab.GetDiagnostics(r.Context()))
}

// handleLabHMI resolves the operator UI address for a protocol. The URL
// is only revealed to callers the access policy admits, which the lab
// client enforces as its own checkpoint.
func (s *Server) handleLabHMI(w http.ResponseWriter, r *http.Request) {
	p, err := protocol.Parse(r.PathValue("protocol"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid protocol")
		return
	}

	isAuthenticated := auth.IsAuthenticated(r.Context())
	if !isAuthenticated && !protocol.IsGuestAllowed(p) {
		WriteError(w, http.StatusForbidden, "Authentication required", signInMessage)
		return
	}

	url := s.lab.GetHMIURL(r.Context(), p, isAuthenticated)
	if url == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"url": nil})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
