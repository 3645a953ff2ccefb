package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferedLogger() (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	return zap.New(core), &buf
}

func TestWithContextRoundTrip(t *testing.T) {
	log, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), log)
	assert.Equal(t, log, FromContext(ctx))
}

func TestFromContextMissing(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	assert.NotPanics(t, func() {
		log.Info("no-op")
		log.With(zap.String("key", "value")).Error("still no-op")
	})
}

func TestFromContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")

	log := FromContext(ctx)
	require.NotNil(t, log)
	assert.NotPanics(t, func() { log.Info("test") })
}

func TestWithTenantID(t *testing.T) {
	base, buf := newBufferedLogger()

	ctx, enriched := WithTenantID(context.Background(), base, "tenant-456")

	assert.Equal(t, "tenant-456", GetTenantID(ctx))
	assert.Equal(t, enriched, FromContext(ctx))

	enriched.Info("batch created")
	assert.Contains(t, buf.String(), `"tenant_id":"tenant-456"`)
}

func TestWithTenantIDOverride(t *testing.T) {
	base := zap.NewNop()

	ctx, _ := WithTenantID(context.Background(), base, "first")
	ctx, _ = WithTenantID(ctx, base, "second")

	assert.Equal(t, "second", GetTenantID(ctx))
}

func TestGetTenantIDMissing(t *testing.T) {
	assert.Empty(t, GetTenantID(context.Background()))
}

func TestWithTraceContextNoSpan(t *testing.T) {
	base := zap.NewNop()

	// No span at all and a noop span both carry an invalid span context;
	// the logger must come back unchanged in both cases.
	assert.Equal(t, base, WithTraceContext(context.Background(), base))

	tracer := noop.NewTracerProvider().Tracer("test")
	ctx, span := tracer.Start(context.Background(), "noop-span")
	defer span.End()

	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	require.False(t, spanCtx.IsValid())
	assert.Equal(t, base, WithTraceContext(ctx, base))
}
