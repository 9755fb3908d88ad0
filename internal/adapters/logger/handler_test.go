package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/smake/internal/adapters/logger"
)

func newHandler(t *testing.T, level slog.Leveler) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		want  string
	}{
		{name: "debug filtered", level: slog.LevelDebug, want: ""},
		{name: "info", level: slog.LevelInfo, want: "message\n"},
		{name: "warn", level: slog.LevelWarn, want: "! message\n"},
		{name: "error", level: slog.LevelError, want: "✗ message\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newHandler(t, slog.LevelInfo)
			slog.New(h).Log(t.Context(), tt.level, "message")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_DynamicLevel(t *testing.T) {
	var level slog.LevelVar
	h, buf := newHandler(t, &level)
	lg := slog.New(h)

	lg.Debug("first")
	level.Set(slog.LevelDebug)
	lg.Debug("second")

	assert.Equal(t, "  second\n", buf.String())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	h, buf := newHandler(t, slog.LevelInfo)

	lg := slog.New(h.WithAttrs([]slog.Attr{slog.String("target", "a.txt")}))
	lg.Info("running", "exit_code", 2, slog.Group("tool", slog.String("path", "/bin/sisho")))

	assert.Equal(t, "running target=a.txt exit_code=2 tool.path=/bin/sisho\n", buf.String())
}

func TestPrettyHandler_Groups(t *testing.T) {
	h, buf := newHandler(t, slog.LevelInfo)

	lg := slog.New(h.WithGroup("run").WithGroup("panel"))
	lg.Info("opened", "title", "make: a.txt")

	assert.Equal(t, "opened run.panel.title=make: a.txt\n", buf.String())
}

func TestPrettyHandler_EmptyGroup(t *testing.T) {
	h, _ := newHandler(t, slog.LevelInfo)
	assert.Same(t, h, h.WithGroup(""))
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	assert.NotNil(t, logger.NewPrettyHandler(nil, nil))
}
