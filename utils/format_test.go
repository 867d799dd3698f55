package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat_DecorateText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(ErrorColor+"failed"+DefaultColor, DecorateText("failed", ErrorMessage))
	assert.Equal(SuccessColor+"ok"+DefaultColor, DecorateText("ok", SuccessMessage))
	assert.Equal("raw", DecorateText("raw", MessageType(42)))
}

func TestFormat_FormatTime(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal("2m 5.00s", FormatTime(2*time.Minute+5*time.Second))
	assert.Equal("1h 1m 1.00s", FormatTime(time.Hour+time.Minute+time.Second))
}

func TestFormat_Warning(t *testing.T) {
	assert.Equal(t, WarningColor+"careful"+DefaultColor, DecorateText("careful", WarningMessage))
	assert.Equal(t, "2d 3h 0m 4.00s", FormatTime(51*time.Hour+4*time.Second))
}
