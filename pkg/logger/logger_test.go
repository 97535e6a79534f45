package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_levels(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	defer SetLevel(LevelOff)

	SetLevel(LevelOff)
	Info("hidden %d", 1)
	Debug("hidden %d", 2)
	req.Empty(buf.String())

	SetLevel(LevelInfo)
	req.Equal(LevelInfo, GetLevel())
	Info("shown %d", 1)
	Warn("careful")
	Debug("still hidden")
	req.Contains(buf.String(), "shown 1")
	req.Contains(buf.String(), "[WARN] careful")
	req.NotContains(buf.String(), "still hidden")

	buf.Reset()
	SetLevel(LevelDebug)
	Debug("details %s", "here")
	req.Contains(buf.String(), "[DEBUG] details here")
}
