package memegen

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_CentersHorizontally(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 800, 400))

	line := NewLine("Centered")
	x, _, fits := Autolayout(&line, img)

	assert.True(t, fits)
	assert.Equal(t, float64(800-measureWidth(line.Fontspec, line.Text))/2, x)
}

func TestLayout_XPos(t *testing.T) {
	line := NewLine("W")
	w := measureWidth(line.Fontspec, "W")

	assert.Equal(t, float64(100-w)/2, xPos(&line, 100))
	assert.Less(t, xPos(&line, 22), 0.0, "a line wider than the image starts left of it")

	empty := NewLine("")
	assert.Equal(t, 150.0, xPos(&empty, 300))
	assert.Equal(t, 7.5, xPos(&empty, 15))
}

func TestLayout_EmptyTextIsCentered(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 301, 200))

	line := NewLine("")
	x, y, fits := Autolayout(&line, img)

	assert.True(t, fits)
	assert.Equal(t, 150.5, x)
	assert.Equal(t, BorderPadding, y)
	assert.Equal(t, DefaultScale, line.Fontspec.Scale)
}

func TestLayout_IdempotentWhenFitting(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2000, 500))

	line := NewLine("Hi there")
	x1, y1, fits1 := Autolayout(&line, img)
	scale := line.Fontspec.Scale

	x2, y2, fits2 := Autolayout(&line, img)

	assert.GreaterOrEqual(t, x1, BorderPadding)
	assert.Equal(t, DefaultScale, scale)
	assert.Equal(t, []any{x1, y1, fits1, scale}, []any{x2, y2, fits2, line.Fontspec.Scale})
}

func TestLayout_ShrinksToFit(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))

	line := NewLine("ONE DOES NOT SIMPLY")
	x, _, fits := Autolayout(&line, img)

	assert.True(t, fits)
	assert.GreaterOrEqual(t, x, BorderPadding)
	assert.Less(t, line.Fontspec.Scale, DefaultScale)
	assert.GreaterOrEqual(t, line.Fontspec.Scale, MinScale)

	// One step larger would have overflowed the padding.
	bigger := line
	bigger.Fontspec.Scale += ShrinkStep
	assert.Less(t, xPos(&bigger, 300), BorderPadding)
}

func TestLayout_StopsAtMinScale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))

	line := NewLine(strings.Repeat("W", 200))
	x, _, fits := Autolayout(&line, img)

	assert.False(t, fits)
	assert.Less(t, x, BorderPadding)
	assert.Equal(t, MinScale, line.Fontspec.Scale)
}

func TestLayout_ClampsInvalidScale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 500, 200))

	line := NewLine("x")
	line.Fontspec.Scale = -4
	_, _, fits := Autolayout(&line, img)

	assert.True(t, fits)
	assert.Equal(t, MinScale, line.Fontspec.Scale)
}

func TestLayout_VerticalStacking(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 800, 600))

	lineAt := func(o Orientation, anchor int) (Line, float64) {
		l := NewLine("Stack")
		l.Orientation, l.Anchor = o, anchor
		_, y, _ := Autolayout(&l, img)
		return l, y
	}

	top0, y0 := lineAt(Top, 0)
	_, y1 := lineAt(Top, 1)
	h := top0.Height()

	assert.Equal(t, BorderPadding, y0)
	assert.Equal(t, h, y1-y0)

	_, b0 := lineAt(Bottom, 0)
	_, b1 := lineAt(Bottom, 1)

	assert.Equal(t, 600-BorderPadding-h, b0)
	assert.Greater(t, b0, b1, "anchor 0 is closest to the bottom edge")
	assert.Equal(t, h, b0-b1)
}

func TestLayout_OrientationString(t *testing.T) {
	assert.Equal(t, "top", Top.String())
	assert.Equal(t, "bottom", Bottom.String())
	assert.Equal(t, "unknown", Orientation(7).String())
}

func TestLayout_DrawLine(t *testing.T) {
	img := newCanvas(400, 200, gray)

	line := NewLine("Drawn")
	assert.True(t, DrawLine(&line, img))
	assert.NotEqual(t, newCanvas(400, 200, gray).Pix, img.Pix)

	// Drawing at the computed origin produces the same pixels.
	fresh := NewLine("Drawn")
	x, y, _ := Autolayout(&fresh, img)
	other := newCanvas(400, 200, gray)
	DrawLineAt(&fresh, other, x, y)
	assert.Equal(t, img.Pix, other.Pix)
}
