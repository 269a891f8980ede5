package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyBrowserID stores the id of the browser context
	ContextKeyBrowserID ContextKey = "browser_id"
	// ContextKeySession stores the session restored by the gate
	ContextKeySession ContextKey = "session"
)

// SessionGateMiddleware identifies the browser by cookie, issuing one on the
// first visit, and restores its session from the persisted token. The token
// is also put into the context for calls to the backend.
func (s *Server) SessionGateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browserID := s.browserID(r)
		if browserID == "" {
			browserID = uuid.NewString()
			s.SetBrowserCookie(w, r, browserID)
		}

		sess := s.gate.Restore(r.Context(), browserID)

		ctx := context.WithValue(r.Context(), ContextKeyBrowserID, browserID)
		ctx = context.WithValue(ctx, ContextKeySession, sess)
		if sess.LoggedIn {
			ctx = backend.ContextWithToken(ctx, sess.Token)
		}
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) browserID(r *http.Request) string {
	cookie, err := r.Cookie(s.config.GetBrowserCookieName())
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

func sessionFromContext(ctx context.Context) session.Session {
	sess, _ := ctx.Value(ContextKeySession).(session.Session)
	return sess
}

func browserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyBrowserID).(string)
	return id
}
