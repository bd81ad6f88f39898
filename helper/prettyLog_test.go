package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandlerHandle(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		attrs []slog.Attr
		want  []string
	}{
		{
			name:  "Debug with string attribute",
			level: slog.LevelDebug,
			attrs: []slog.Attr{slog.String("para_id", "p001-g002")},
			want:  []string{"DEBUG:", "para_id", "p001-g002"},
		},
		{
			name:  "Info with int attribute",
			level: slog.LevelInfo,
			attrs: []slog.Attr{slog.Int("inserted", 42)},
			want:  []string{"INFO:", "inserted", "42"},
		},
		{
			name:  "Warn with bool attribute",
			level: slog.LevelWarn,
			attrs: []slog.Attr{slog.Bool("crop", true)},
			want:  []string{"WARN:", "crop", "true"},
		},
		{
			name:  "Error without attributes",
			level: slog.LevelError,
			want:  []string{"ERROR:", "{}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug}})

			record := slog.NewRecord(time.Now(), tt.level, "message for "+tt.name, 0)
			record.AddAttrs(tt.attrs...)

			err := handler.Handle(context.Background(), record)
			require.NoError(t, err)

			output := buf.String()
			assert.Contains(t, output, "message for "+tt.name)
			assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, output, "Expected timestamp in brackets")
			for _, w := range tt.want {
				assert.Contains(t, output, w)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("visible", slog.String("doc_name", "policy"))

	output := buf.String()
	assert.NotContains(t, output, "hidden", "Expected debug records to be filtered at info level")
	assert.Contains(t, output, "visible")
	assert.Contains(t, output, "policy")
}
