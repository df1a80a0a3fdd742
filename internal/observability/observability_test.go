package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hadeerens/ember-bloom-menu/internal/requestctx"
)

func newObservedRouter(t *testing.T, metrics *Metrics) (http.Handler, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	r := chi.NewRouter()
	r.Use(InjectLoggerMiddleware(logger))
	r.Use(TraceMiddleware())
	r.Use(RequestLoggerMiddleware(metrics))
	r.Use(RecoveryMiddleware(logger))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		requestctx.Logger(r.Context()).Debug("handler")
		_, _ = io.WriteString(w, "ok")
	})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	return r, logs
}

func TestRequestLoggerRecordsRouteAndStatus(t *testing.T) {
	t.Parallel()
	metrics := NewMetrics()
	h, logs := newObservedRouter(t, metrics)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	handlerLogs := logs.FilterMessage("handler").All()
	require.Len(t, handlerLogs, 1)
	assert.Equal(t, "GET", handlerLogs[0].ContextMap()["method"])

	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, "/items/{id}", fields["route"])
	assert.EqualValues(t, 200, fields["status"])
	assert.EqualValues(t, 2, fields["bytes"])

	body := scrape(t, metrics)
	assert.Contains(t, body, `menu_http_request_duration_seconds_count{method="GET",route="/items/{id}",status="200"} 1`)
}

func TestRecoveryReturnsServerError(t *testing.T) {
	t.Parallel()
	h, logs := newObservedRouter(t, NewMetrics())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, logs.FilterMessage("panic recovered").All(), 1)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestDomainCounters(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.CartMutation("add")
	m.CartMutation("add")
	m.CheckoutLink("ar")
	m.WaiterCall("ok")

	body := scrape(t, m)
	assert.Contains(t, body, `menu_cart_mutations_total{action="add"} 2`)
	assert.Contains(t, body, `menu_checkout_links_total{lang="ar"} 1`)
	assert.Contains(t, body, `menu_waiter_calls_total{outcome="ok"} 1`)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.CartMutation("add") })
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/", SanitizeRoute(""))
	assert.Equal(t, "GET", SanitizeMethod("G\x00E\nT"))
	assert.Equal(t, "POST", SanitizeMethod("post"))
	assert.Equal(t, "OTHER", SanitizeMethod("BREW"))
	assert.Equal(t, "/menu/items", SanitizeRoute("/menu/\titems"))
	assert.Len(t, []rune(SanitizeRoute("/"+strings.Repeat("é", 400))), maxRouteLength)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestNewLoggerPerEnvironment(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		logger, err := NewLogger(env)
		require.NoError(t, err, env)
		assert.NotNil(t, logger.Core())
	}
}
