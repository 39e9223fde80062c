package auth

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is used for storing the user in the request context.
type ContextKey string

const UserContextKey ContextKey = "user"

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "labgate_session"

// Middleware resolves sessions on incoming requests.
type Middleware struct {
	store *Store
}

// NewMiddleware creates auth middleware backed by store.
func NewMiddleware(store *Store) *Middleware {
	return &Middleware{store: store}
}

// OptionalAuth attaches the user to the context when a valid session is
// presented and passes the request through either way. The lab endpoints
// serve guests, so this is the default for the whole API surface.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.userFromRequest(r); err == nil {
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects unauthenticated requests with 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.userFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromRequest extracts and validates the session from cookie or
// Authorization header.
func (m *Middleware) userFromRequest(r *http.Request) (*User, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return m.store.ValidateSession(cookie.Value)
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return m.store.ValidateSession(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return nil, ErrInvalidSession
}

// UserFrom returns the authenticated user from ctx, or nil for guests.
func UserFrom(ctx context.Context) *User {
	user, _ := ctx.Value(UserContextKey).(*User)
	return user
}

// IsAuthenticated reports whether the request carries a valid session.
func IsAuthenticated(ctx context.Context) bool {
	return UserFrom(ctx) != nil
}
