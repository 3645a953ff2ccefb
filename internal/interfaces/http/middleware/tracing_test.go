package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// tracingProbe mounts the middleware chain under test on a ledger-style
// route and records every span the request produces.
type tracingProbe struct {
	router   *gin.Engine
	recorder *tracetest.SpanRecorder
}

func newTracingProbe(t *testing.T, mw ...gin.HandlerFunc) *tracingProbe {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(t.Context())
	})

	router := gin.New()
	router.Use(mw...)
	return &tracingProbe{router: router, recorder: sr}
}

func (p *tracingProbe) get(t *testing.T, path string, status int, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	p.router.GET(path, func(c *gin.Context) {
		c.JSON(status, gin.H{"status": http.StatusText(status)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	p.router.ServeHTTP(w, req)
	require.Equal(t, status, w.Code)
	return w
}

// requestSpan finds the otelgin span for the route, named "METHOD route".
func (p *tracingProbe) requestSpan(t *testing.T, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range p.recorder.Ended() {
		if span.Name() == name {
			return span
		}
	}
	t.Fatalf("no span named %q recorded", name)
	return nil
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value, len(span.Attributes()))
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func ledgerTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "inventory-ledger", Enabled: true}
}

func TestTracingDisabledPassesThrough(t *testing.T) {
	probe := newTracingProbe(t, TracingWithConfig(TracingConfig{ServiceName: "inventory-ledger", Enabled: false}))
	probe.get(t, "/api/v1/batches", http.StatusOK, nil)

	assert.Empty(t, probe.recorder.Ended(), "disabled tracing must not record spans")
}

func TestTracingRecordsRequestSpan(t *testing.T) {
	probe := newTracingProbe(t, TracingWithConfig(ledgerTracingConfig()))
	probe.get(t, "/api/v1/batches", http.StatusOK, nil)

	span := probe.requestSpan(t, "GET /api/v1/batches")
	assert.Equal(t, "GET /api/v1/batches", span.Name())
}

func TestTracingDefaultConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	assert.Equal(t, "retailops-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)

	probe := newTracingProbe(t, Tracing())
	probe.get(t, "/api/v1/batches", http.StatusOK, nil)
	require.NotEmpty(t, probe.recorder.Ended())
}

func TestTracingEnrichesSpanWithRequestID(t *testing.T) {
	probe := newTracingProbe(t, RequestID(), TracingWithConfig(ledgerTracingConfig()), TracingAttributeInjector())
	probe.get(t, "/api/v1/batches", http.StatusOK, map[string]string{
		"X-Request-ID": "req-ledger-42",
	})

	attrs := spanAttributes(probe.requestSpan(t, "GET /api/v1/batches"))
	require.Contains(t, attrs, attribute.Key("request_id"))
	assert.Equal(t, "req-ledger-42", attrs["request_id"].AsString())
}

func TestTracingEnrichesSpanWithTenantFromMiddleware(t *testing.T) {
	tenantID := "11111111-2222-3333-4444-555555555555"
	userID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	setTenant := func(c *gin.Context) {
		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
	probe := newTracingProbe(t, TracingWithConfig(ledgerTracingConfig()), setTenant, TracingAttributeInjector())
	probe.get(t, "/api/v1/stock/consume", http.StatusOK, map[string]string{
		"X-User-ID": userID,
	})

	attrs := spanAttributes(probe.requestSpan(t, "GET /api/v1/stock/consume"))
	require.Contains(t, attrs, attribute.Key("tenant_id"))
	assert.Equal(t, tenantID, attrs["tenant_id"].AsString())
	require.Contains(t, attrs, attribute.Key("user_id"))
	assert.Equal(t, userID, attrs["user_id"].AsString())
}

func TestTracingEnrichesSpanWithTenantHeader(t *testing.T) {
	probe := newTracingProbe(t, TracingWithConfig(ledgerTracingConfig()), TracingAttributeInjector())
	probe.get(t, "/api/v1/batches", http.StatusOK, map[string]string{
		TenantHeaderKey: "12345678-1234-1234-1234-123456789abc",
	})

	attrs := spanAttributes(probe.requestSpan(t, "GET /api/v1/batches"))
	require.Contains(t, attrs, attribute.Key("tenant_id"))
	assert.Equal(t, "12345678-1234-1234-1234-123456789abc", attrs["tenant_id"].AsString())
}

func TestTracingRejectsMalformedTenantHeader(t *testing.T) {
	probe := newTracingProbe(t, TracingWithConfig(ledgerTracingConfig()), TracingAttributeInjector())
	probe.get(t, "/api/v1/batches", http.StatusOK, map[string]string{
		TenantHeaderKey: "warehouse-9",
	})

	attrs := spanAttributes(probe.requestSpan(t, "GET /api/v1/batches"))
	assert.NotContains(t, attrs, attribute.Key("tenant_id"),
		"non-UUID header values must not reach the trace")
}

func TestSpanErrorMarker(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		errored     bool
		description string
	}{
		{name: "200 stays unset", status: http.StatusOK, errored: false},
		{name: "201 stays unset", status: http.StatusCreated, errored: false},
		{name: "400 is a client error", status: http.StatusBadRequest, errored: true, description: "Client Error"},
		{name: "401 unauthorized", status: http.StatusUnauthorized, errored: true, description: "Unauthorized"},
		{name: "403 forbidden", status: http.StatusForbidden, errored: true, description: "Forbidden"},
		{name: "404 not found", status: http.StatusNotFound, errored: true, description: "Not Found"},
		{name: "409 is a client error", status: http.StatusConflict, errored: true, description: "Client Error"},
		{name: "500 server error", status: http.StatusInternalServerError, errored: true, description: "Internal Server Error"},
		{name: "503 server error", status: http.StatusServiceUnavailable, errored: true, description: "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			probe := newTracingProbe(t, TracingWithConfig(ledgerTracingConfig()), SpanErrorMarker())
			probe.get(t, "/api/v1/transfers", tc.status, nil)

			span := probe.requestSpan(t, "GET /api/v1/transfers")
			if !tc.errored {
				assert.NotEqual(t, codes.Error, span.Status().Code)
				return
			}
			assert.Equal(t, codes.Error, span.Status().Code)
			assert.Equal(t, tc.description, span.Status().Description)

			attrs := spanAttributes(span)
			require.Contains(t, attrs, attribute.Key("http.status_code"))
			assert.Equal(t, int64(tc.status), attrs["http.status_code"].AsInt64())
		})
	}
}

func TestTracingMiddlewareWithoutRecordingSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	otel.SetTracerProvider(noop.NewTracerProvider())

	router := gin.New()
	router.Use(TracingAttributeInjector(), SpanErrorMarker())
	router.GET("/api/v1/batches", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTracedRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("context value wins over header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		c.Request.Header.Set("X-Request-ID", "header-id")
		c.Set("request_id", "context-id")

		assert.Equal(t, "context-id", tracedRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "header-id", tracedRequestID(c))
	})

	t.Run("oversized header is truncated", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		c.Request.Header.Set("X-Request-ID", strings.Repeat("x", MaxRequestIDLength+73))

		assert.Len(t, tracedRequestID(c), MaxRequestIDLength)
	})
}

func TestTracedTenantID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("middleware context wins over header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		c.Request.Header.Set(TenantHeaderKey, "12345678-1234-1234-1234-123456789abc")
		c.Set(TenantIDKey, "99999999-8888-7777-6666-555555555555")

		assert.Equal(t, "99999999-8888-7777-6666-555555555555", tracedTenantID(c))
	})

	t.Run("valid header accepted", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		c.Request.Header.Set(TenantHeaderKey, "12345678-1234-1234-1234-123456789abc")

		assert.Equal(t, "12345678-1234-1234-1234-123456789abc", tracedTenantID(c))
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		c.Request.Header.Set(TenantHeaderKey, "not-a-tenant")

		assert.Empty(t, tracedTenantID(c))
	})
}

func TestValidatedUUIDHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "lowercase uuid", value: "12345678-1234-1234-1234-123456789abc", want: "12345678-1234-1234-1234-123456789abc"},
		{name: "uppercase uuid", value: "12345678-1234-1234-1234-123456789ABC", want: "12345678-1234-1234-1234-123456789ABC"},
		{name: "missing header", value: "", want: ""},
		{name: "too short", value: "12345678-1234-1234", want: ""},
		{name: "no dashes", value: "12345678123412341234123456789abc", want: ""},
		{name: "embedded space", value: "12345678-1234 -1234-1234-123456789abc", want: ""},
		{name: "script injection attempt", value: "<script>alert(1)</script>", want: ""},
		{name: "exceeds length bound", value: "12345678-1234-1234-1234-123456789abc" + strings.Repeat("f", MaxTenantIDLength), want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
			if tc.value != "" {
				c.Request.Header.Set("X-User-ID", tc.value)
			}

			assert.Equal(t, tc.want, validatedUUIDHeader(c, "X-User-ID"))
		})
	}
}
