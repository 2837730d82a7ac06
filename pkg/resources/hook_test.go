package resources

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	otelog "go.opentelemetry.io/otel/log"
)

func TestSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level    zerolog.Level
		wantSev  otelog.Severity
		wantText string
	}{
		{zerolog.TraceLevel, otelog.SeverityTrace, "TRACE"},
		{zerolog.DebugLevel, otelog.SeverityDebug, "DEBUG"},
		{zerolog.InfoLevel, otelog.SeverityInfo, "INFO"},
		{zerolog.WarnLevel, otelog.SeverityWarn, "WARN"},
		{zerolog.ErrorLevel, otelog.SeverityError, "ERROR"},
		{zerolog.PanicLevel, otelog.SeverityFatal, "FATAL"},
		{zerolog.NoLevel, otelog.SeverityInfo, "INFO"},
	}

	for _, tt := range tests {
		sev, text := severity(tt.level)
		assert.Equal(t, tt.wantSev, sev, tt.level.String())
		assert.Equal(t, tt.wantText, text, tt.level.String())
	}
}

func TestToAttributes(t *testing.T) {
	t.Parallel()

	attrs := toAttributes(map[string]any{
		"time":       "2025-11-15T10:00:00Z",
		"level":      "info",
		"message":    "skipped",
		"request_id": "abc",
		"cached":     true,
		"count":      float64(3),
		"ratio":      0.5,
		"tags":       []any{"a"},
	})

	got := map[string]otelog.Value{}
	for _, kv := range attrs {
		got[kv.Key] = kv.Value
	}

	assert.Len(t, got, 5)
	assert.Equal(t, "abc", got["request_id"].AsString())
	assert.True(t, got["cached"].AsBool())
	assert.Equal(t, int64(3), got["count"].AsInt64())
	assert.InDelta(t, 0.5, got["ratio"].AsFloat64(), 1e-9)
	assert.Equal(t, "[a]", got["tags"].AsString())
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, time.November, 15, 10, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(timestamp(map[string]any{"time": "2025-11-15T10:00:00Z"})))

	before := time.Now()
	assert.False(t, timestamp(map[string]any{"time": "yesterday"}).Before(before))
	assert.False(t, timestamp(nil).Before(before))
}

func TestZerologHook_Run(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	// the global provider is a no-op here, the hook must not disturb normal output
	logger := zerolog.New(&buf).Hook(NewZerologHook("culture-events", "test"))
	logger.Info().Str("request_id", "abc").Msg("served")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
	assert.Contains(t, buf.String(), `"message":"served"`)
}
