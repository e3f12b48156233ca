package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{level: level, out: log.New(&buf, "", 0)}, &buf
}

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)

	l.Debugf("debug message")
	l.Infof("info message")
	assert.Empty(t, buf.String())

	l.Warnf("warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Level
	}{
		{name: "debug", in: "debug", want: LevelDebug},
		{name: "warn", in: "WARN", want: LevelWarn},
		{name: "warning alias", in: "warning", want: LevelWarn},
		{name: "error", in: "error", want: LevelError},
		{name: "unknown defaults to info", in: "bogus", want: LevelInfo},
		{name: "empty defaults to info", in: "", want: LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFromString(tt.in))
		})
	}
}
