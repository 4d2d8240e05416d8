package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionServer(secret string) *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(secret))))
	e.Use(DashboardSession(3600))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, SessionID(c))
	})
	return e
}

func TestDashboardSession(t *testing.T) {
	e := newSessionServer("session-test-secret-0123456789")

	t.Run("issues an id on first visit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Body.String())
		assert.NoError(t, err)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("keeps the id while the cookie is presented", func(t *testing.T) {
		first := httptest.NewRecorder()
		e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		cookie := first.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		second := httptest.NewRecorder()
		e.ServeHTTP(second, req)

		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("refreshes the cookie expiry on every request", func(t *testing.T) {
		first := httptest.NewRecorder()
		e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		cookie := first.Result().Cookies()[0]
		assert.Equal(t, 3600, cookie.MaxAge)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		second := httptest.NewRecorder()
		e.ServeHTTP(second, req)

		refreshed := second.Result().Cookies()
		require.Len(t, refreshed, 1)
		assert.Equal(t, SessionName, refreshed[0].Name)
		assert.Equal(t, 3600, refreshed[0].MaxAge)

		// The refreshed cookie still carries the same session.
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(refreshed[0])
		third := httptest.NewRecorder()
		e.ServeHTTP(third, req)
		assert.Equal(t, first.Body.String(), third.Body.String())
	})

	t.Run("different browsers get different ids", func(t *testing.T) {
		a := httptest.NewRecorder()
		b := httptest.NewRecorder()
		e.ServeHTTP(a, httptest.NewRequest(http.MethodGet, "/", nil))
		e.ServeHTTP(b, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEqual(t, a.Body.String(), b.Body.String())
	})
}

func TestDashboardSession_ForeignCookieIsReplaced(t *testing.T) {
	old := newSessionServer("the-previous-secret-0123456789")
	rec := httptest.NewRecorder()
	old.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	staleCookie := rec.Result().Cookies()[0]
	staleID := rec.Body.String()

	e := newSessionServer("the-rotated-secret-0123456789")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(staleCookie)
	fresh := httptest.NewRecorder()
	e.ServeHTTP(fresh, req)

	require.Equal(t, http.StatusOK, fresh.Code)
	assert.NotEqual(t, staleID, fresh.Body.String())
	assert.NotEmpty(t, fresh.Result().Cookies())
}
