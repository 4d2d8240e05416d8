package dashboard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/carmasy/internal/config"
	"github.com/nfrund/carmasy/internal/middleware"
	"github.com/nfrund/carmasy/internal/pubsub"
	"github.com/nfrund/carmasy/internal/rendering"
)

const testSecret = "dashboard-module-test-secret"

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:         config.EnvDevelopment,
		SessionSecret:  testSecret,
		SessionTTL:     time.Hour,
		EventRateLimit: 1000,
		IDSource:       "sequence",
	}
}

// newTestApp boots the module on a fresh echo instance with the same
// session middleware the server installs.
func newTestApp(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSecret))))
	e.Use(middleware.DashboardSession(3600))

	injector := do.New()
	do.ProvideValue[config.Provider](injector, testConfig())

	bus := pubsub.NewWatermillBridge()
	m := New(Dependencies{
		Publisher:  bus,
		Subscriber: bus,
		Renderer:   rendering.NewUniversalRenderer(),
	})
	require.NoError(t, m.Register(injector))
	require.NoError(t, m.Boot(context.Background(), e.Group(""), injector))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
		_ = bus.Close()
	})
	return e
}

// browser replays the cookies it was given, like a single browser profile.
type browser struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, e *echo.Echo) *browser {
	return &browser{t: t, e: e, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// htmx posts form values the way an htmx control does.
func (b *browser) htmx(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("HX-Request", "true")
	return b.do(req)
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) postJSON(path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return b.do(req)
}
