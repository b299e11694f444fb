package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/articles"
	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/authz"
	"github.com/folio-cms/folio/internal/observability"
	"github.com/folio-cms/folio/internal/token"
	"github.com/folio-cms/folio/internal/users"
	_ "github.com/folio-cms/folio/testing"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	issuer := token.NewIssuer(token.Config{Secret: "router-test", TTL: time.Hour})
	mw := authz.Middleware{Verifier: issuer, Logger: logger}
	metrics := observability.NewMetrics()

	return NewRouter(RouterParams{
		Logger:          logger,
		Config:          &Config{AppEnv: "development", AppRequestTimeout: 5 * time.Second},
		Authz:           mw,
		AuthHandler:     auth.NewHandler(logger, auth.NewService(nil, issuer), metrics),
		UsersHandler:    users.NewHandler(logger, users.NewService(nil, nil), mw),
		ArticlesHandler: articles.NewHandler(logger, articles.NewService(nil, nil, nil), mw),
		Metrics:         metrics,
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/users/"},
		{http.MethodGet, "/articles/"},
		{http.MethodPost, "/articles/"},
	}
	for _, c := range cases {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(c.method, c.target, nil))
		assert.Equalf(t, http.StatusUnauthorized, res.Code, "%s %s", c.method, c.target)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t)

	// Generate one observation so the counter vector shows up in the scrape.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "folio_http_requests_total")
}
