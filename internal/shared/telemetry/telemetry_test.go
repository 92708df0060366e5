package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/shared/config"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	exp, err := newStdoutExporter(&buf)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(newResource(config.TelemetryConfig{ServiceName: "console-test", Version: "1.0.0"})),
	)
	_, span := tp.Tracer("test").Start(context.Background(), "load-inbox")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "load-inbox")
	assert.Contains(t, buf.String(), "console-test")
}
