package memegen

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_ReportsOverflow(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { SetLogger(nil) })

	line := NewLine(strings.Repeat("M", 100))
	_, _, fits := Autolayout(&line, image.NewNRGBA(image.Rect(0, 0, 20, 20)))

	assert.False(t, fits)
	assert.Contains(t, buf.String(), "caption does not fit the image")
	assert.Contains(t, buf.String(), "scale=1")
}

func TestLogger_SilentByDefault(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
