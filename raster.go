package memegen

import (
	"image"
	"math"

	"github.com/esimov/memegen/imop"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// coverageThreshold is the minimum anti-alias coverage of a glyph pixel to be drawn.
// Pixels at or below it are skipped, which keeps the caption edges crisp.
const coverageThreshold = 0.5

// outlineOffsets are the positions of the outline passes relative to the fill pass.
var outlineOffsets = [4]image.Point{{2, 2}, {2, -2}, {-2, 2}, {-2, -2}}

// glyph is a rune positioned on the baseline.
type glyph struct {
	r   rune
	dot fixed.Point26_6
}

// Rasterizer composites outlined, anti-aliased text onto NRGBA images.
// It holds no mutable state, so a single Rasterizer can serve any number of goroutines
// as long as they draw onto distinct images.
type Rasterizer struct {
	op *imop.Composite
}

var std = NewRasterizer("", "")

// NewRasterizer returns a Rasterizer compositing glyphs onto the image with the
// given Porter-Duff operator (see the imop package). An empty or unknown operator
// selects source-over. The optional blend mode is applied to the glyph colors;
// an empty or unknown mode means no blending.
func NewRasterizer(comp, blend string) *Rasterizer {
	op := imop.InitOp()
	if comp != "" {
		op.Set(comp)
	}
	if blend != "" && imop.IsSupported(blend) {
		b := imop.NewBlend()
		b.Set(blend)
		op.SetBlend(b)
	}
	if comp != "" || blend != "" {
		Logger().Debug("rasterizer configured", "composite", op.Get(), "blend", blend)
	}
	return &Rasterizer{op: op}
}

// DrawText renders text onto dst with its baseline starting at (x, y).
func (r *Rasterizer) DrawText(dst *image.NRGBA, fs Fontspec, text string, x, y float64) {
	face := fs.face()
	defer face.Close()

	glyphs := shape(face, text, fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)})
	r.drawGlyphsWithOutline(dst, face, fs, glyphs)
}

// drawGlyphsWithOutline draws the outline passes first and the fill pass last,
// so the fill color is never overpainted by the outline of the same glyph run.
func (r *Rasterizer) drawGlyphsWithOutline(dst *image.NRGBA, face font.Face, fs Fontspec, glyphs []glyph) {
	for _, offset := range outlineOffsets {
		r.drawGlyphs(dst, face, glyphs, fs.Outline, offset)
	}
	r.drawGlyphs(dst, face, glyphs, fs.Fill, image.Point{})
}

func (r *Rasterizer) drawGlyphs(dst *image.NRGBA, face font.Face, glyphs []glyph, col RGB, offset image.Point) {
	bounds := dst.Bounds()

	for _, g := range glyphs {
		// The mask is only valid up to the next Glyph call.
		dr, mask, maskp, _, ok := face.Glyph(g.dot, g.r)
		if !ok || dr.Empty() {
			continue
		}
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			py := y + offset.Y
			if py < bounds.Min.Y || py >= bounds.Max.Y {
				continue
			}
			for x := dr.Min.X; x < dr.Max.X; x++ {
				px := x + offset.X
				if px < bounds.Min.X || px >= bounds.Max.X {
					continue
				}
				v := coverage(mask, maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y)
				if v <= coverageThreshold {
					continue
				}
				src := col.NRGBA(uint8(v*255 + 0.5))
				dst.SetNRGBA(px, py, r.op.Pixel(src, dst.NRGBAAt(px, py)))
			}
		}
	}
}

// coverage returns the mask alpha at (x, y) normalized to [0, 1].
func coverage(mask image.Image, x, y int) float64 {
	if m, ok := mask.(*image.Alpha); ok {
		return float64(m.AlphaAt(x, y).A) / 0xff
	}
	_, _, _, a := mask.At(x, y).RGBA()
	return float64(a) / 0xffff
}

// shape positions the runes of text along the baseline starting at origin,
// applying the advance and kerning of the face.
func shape(face font.Face, text string, origin fixed.Point26_6) []glyph {
	glyphs := make([]glyph, 0, len(text))
	dot := origin
	prev := rune(-1)

	for _, r := range text {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		glyphs = append(glyphs, glyph{r: r, dot: dot})

		adv, ok := face.GlyphAdvance(r)
		if ok {
			dot.X += adv
		}
		prev = r
	}
	return glyphs
}

// pixelExtent returns the horizontal pixel extent of the glyph run: the leftmost
// glyph pixel and the pixel past the rightmost one. Glyphs without ink (spaces) are
// ignored. ok is false when no glyph has ink.
func pixelExtent(face font.Face, glyphs []glyph) (minX, maxX int, ok bool) {
	minX, maxX = math.MaxInt, math.MinInt
	for _, g := range glyphs {
		b, _, found := face.GlyphBounds(g.r)
		if !found {
			continue
		}
		b = b.Add(g.dot)
		if b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y {
			continue
		}
		minX = min(minX, b.Min.X.Floor())
		maxX = max(maxX, b.Max.X.Ceil())
		ok = true
	}
	return minX, maxX, ok
}

// measureWidth returns the pixel width of text rendered with fs.
func measureWidth(fs Fontspec, text string) int {
	face := fs.face()
	defer face.Close()

	minX, maxX, ok := pixelExtent(face, shape(face, text, fixed.Point26_6{}))
	if !ok {
		return 0
	}
	return maxX - minX
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
