package api

import (
	"net/http"

	"otlabs.dev/labgate/internal/auth"
)

// handleAuthUser returns the authenticated subject, or 401 for guests.
// The frontend uses this to decide which protocol tiles to unlock.
func (s *Server) handleAuthUser(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// handleAuthLogout deletes the caller's session. Idempotent; logging out
// twice is fine.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		s.sessions.DeleteSession(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
