package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("warn", "json", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestNewLoggerRejectsUnknownValues(t *testing.T) {
	_, err := NewLogger("loud", "json", nil)
	assert.Error(t, err)

	_, err = NewLogger("info", "xml", nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	stored := 7
	m := MustNewMetrics(reg, func() int { return stored })

	m.AddGenerated(3)
	m.ObserveRequest("GET", "/tasks", "200", 0.01)

	expected := `
# HELP todo_ai_tasks_generated_total Tasks created through prompt expansion.
# TYPE todo_ai_tasks_generated_total counter
todo_ai_tasks_generated_total 3
# HELP todo_ai_tasks_stored Tasks currently held in memory.
# TYPE todo_ai_tasks_stored gauge
todo_ai_tasks_stored 7
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"todo_ai_tasks_generated_total", "todo_ai_tasks_stored"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddGenerated(1)
		m.ObserveRequest("GET", "/", "200", 0)
	})
}

func TestSetupTracingDisabled(t *testing.T) {
	tr, err := SetupTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestSetupTracingSampleRate(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tests := []struct {
		name    string
		rate    float64
		sampled bool
	}{
		{"zero samples nothing", 0, false},
		{"one samples everything", 1, true},
		{"above one is clamped", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := SetupTracing(context.Background(), TracingConfig{
				Enabled:    true,
				Endpoint:   "localhost:4318",
				SampleRate: tt.rate,
			})
			require.NoError(t, err)
			t.Cleanup(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()
				_ = tr.Shutdown(ctx)
			})

			for i := 0; i < 20; i++ {
				_, span := tr.provider.Tracer("test").Start(context.Background(), "op")
				assert.Equal(t, tt.sampled, span.SpanContext().IsSampled())
				span.End()
			}
		})
	}
}
