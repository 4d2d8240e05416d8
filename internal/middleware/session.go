package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// SessionIDKey is the echo context key holding the dashboard session id.
	SessionIDKey = "session_id"

	// SessionName is the cookie session carrying the dashboard session id.
	SessionName = "carmasy-session"

	sessionValueID = "sid"
)

// DashboardSession ensures every request belongs to a dashboard session. A
// new random id is issued on first visit and the signed cookie is refreshed
// with a full maxAge on each request. It must run after session.Middleware.
func DashboardSession(maxAge int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err != nil {
				// A cookie signed with an old secret decodes to an error but
				// still yields a fresh session to write over it.
				FromContext(c.Request().Context()).Warn("Discarding unreadable session cookie", "error", err)
			}
			if sess == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session store unavailable")
			}

			id, _ := sess.Values[sessionValueID].(string)
			if id == "" {
				id = uuid.NewString()
				sess.Values[sessionValueID] = id
			}
			// Re-saved on every request so MaxAge counts from the last activity.
			sess.Options = &sessions.Options{
				Path:     "/",
				MaxAge:   maxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			}
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			c.Set(SessionIDKey, id)
			return next(c)
		}
	}
}

// SessionID returns the dashboard session id set by DashboardSession.
func SessionID(c echo.Context) string {
	id, _ := c.Get(SessionIDKey).(string)
	return id
}
