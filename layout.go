package memegen

import (
	"image"
	"math"
)

const (
	// BorderPadding is the minimum distance, in pixels, between an auto placed caption and the image edges.
	BorderPadding = 20.0
	// ShrinkStep is the scale decrement applied on every iteration of the fit loop.
	ShrinkStep = 1.0
)

// Orientation tells which image edge a caption line is anchored to.
type Orientation int

const (
	Top Orientation = iota
	Bottom
)

func (o Orientation) String() string {
	switch o {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return "unknown"
}

// Line is a single row of a caption. Text may contain row separators
// only when the line is rendered through RenderSprite or as a positioned line.
type Line struct {
	Text        string
	Orientation Orientation
	Fontspec    Fontspec
	// Anchor is the rank of the line among the lines sharing its orientation,
	// 0 being the closest to the anchoring edge.
	Anchor int
}

// NewLine returns a top anchored line using the default font spec.
func NewLine(text string) Line {
	return Line{
		Text:        text,
		Orientation: Top,
		Fontspec:    DefaultFontspec(),
	}
}

// Height returns the row height of the line at its current scale.
func (l *Line) Height() float64 {
	return l.Fontspec.LineHeight()
}

// Autolayout computes the top-left origin of the line inside an image of the given bounds.
// The line is horizontally centered; as long as it comes closer than BorderPadding to the
// side edges its scale is decreased by ShrinkStep. The shrunk scale is stored back into
// line.Fontspec, so callers needing a stable scale should pass a copy.
//
// The loop stops at MinScale. In that case the returned origin lets the caption overflow
// and fits is false.
func Autolayout(line *Line, img image.Image) (x, y float64, fits bool) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	if line.Fontspec.Scale < MinScale || math.IsNaN(line.Fontspec.Scale) {
		line.Fontspec.Scale = MinScale
	}

	fits = true
	x = xPos(line, width)
	for x < BorderPadding {
		if line.Fontspec.Scale-ShrinkStep < MinScale {
			fits = false
			Logger().Warn("caption does not fit the image",
				"text", line.Text,
				"scale", line.Fontspec.Scale,
				"width", width,
			)
			break
		}
		line.Fontspec.Scale -= ShrinkStep
		x = xPos(line, width)
	}

	lineHeight := line.Height()
	offset := float64(line.Anchor) * lineHeight

	switch line.Orientation {
	case Bottom:
		y = float64(height) - BorderPadding - lineHeight - offset
	default:
		y = BorderPadding + offset
	}
	return x, y, fits
}

// xPos returns the x coordinate centering the line horizontally in an image of the given width.
// The result is negative if the line is wider than the image.
func xPos(line *Line, width int) float64 {
	if len(line.Text) == 0 {
		return float64(width) / 2
	}
	return float64(width-measureWidth(line.Fontspec, line.Text)) / 2
}

// DrawLine lays out the line with Autolayout and renders it onto img.
func (r *Rasterizer) DrawLine(line *Line, img *image.NRGBA) bool {
	x, y, fits := Autolayout(line, img)
	r.DrawLineAt(line, img, x, y)
	return fits
}

// DrawLineAt renders the line onto img with the top-left corner of its row at (x, y).
// The baseline is placed at y + ascent.
func (r *Rasterizer) DrawLineAt(line *Line, img *image.NRGBA, x, y float64) {
	ascent, _ := line.Fontspec.vMetrics()
	r.DrawText(img, line.Fontspec, line.Text, x, y+ascent)
}

// DrawLine lays out and renders the line using the default Rasterizer.
func DrawLine(line *Line, img *image.NRGBA) bool {
	return std.DrawLine(line, img)
}

// DrawLineAt renders the line at (x, y) using the default Rasterizer.
func DrawLineAt(line *Line, img *image.NRGBA, x, y float64) {
	std.DrawLineAt(line, img, x, y)
}
