package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/errors"
)

const SessionKey = "session"

type SessionMiddleware struct {
	sessions service.SessionService
}

func NewSessionMiddleware(sessions service.SessionService) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// LoadSession rehydrates the profile's session into the context. Anonymous
// visitors continue with an empty session.
func (m *SessionMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := m.sessions.Rehydrate(c.Request.Context(), GetProfileID(c))
		c.Set(SessionKey, session)
		c.Next()
	}
}

// RequireSession is the route gate: visitors without a session are sent to
// the login page.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		session := m.sessions.Rehydrate(c.Request.Context(), GetProfileID(c))
		if !session.Authenticated() {
			log.Warn("Gated route requested without a session", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(SessionKey, session)
		log.Debug("Session restored", map[string]interface{}{
			"user_id": session.User.ID,
		})
		c.Next()
	}
}

// GetSession returns the session loaded by LoadSession or RequireSession.
func GetSession(c *gin.Context) model.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(model.Session); ok {
			return s
		}
	}
	return model.Session{}
}
