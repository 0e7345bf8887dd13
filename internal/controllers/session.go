package controllers

import (
	"net/http"

	"dtrplay/internal/services"
	"dtrplay/internal/structures"
)

// SessionResolver maps the session cookie to a workspace, issuing a new
// cookie when the browser has none or an unusable one.
type SessionResolver struct {
	sessions services.SessionServiceInterface
	cookie   string
	maxAge   int
}

func NewSessionResolver(conf *structures.Config, sessions services.SessionServiceInterface) *SessionResolver {
	return &SessionResolver{
		sessions: sessions,
		cookie:   conf.Session.CookieName,
		maxAge:   int(conf.Session.IdleTTL.Seconds()),
	}
}

func (sr *SessionResolver) Workspace(w http.ResponseWriter, r *http.Request) *services.Workspace {
	var current string
	if c, err := r.Cookie(sr.cookie); err == nil {
		current = c.Value
	}
	id, ws := sr.sessions.Acquire(current)
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     sr.cookie,
			Value:    id,
			Path:     "/",
			MaxAge:   sr.maxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ws
}
