package memegen

import (
	"image"
	"math"
	"strings"
)

const (
	// RowSeparator splits the text of a caption block into rows.
	RowSeparator = "\n"
	// SpritePadding is added around and between the rows of a sprite.
	SpritePadding = 6.0
	// SpriteInset is the offset of the first row inside a sprite.
	SpriteInset = 2.0
)

// Placement records where a caption line ended up after layout.
type Placement struct {
	Line Line
	X, Y float64
	Fits bool
}

// DrawLinesTopBottom renders the top lines from the top edge downwards and the bottom
// lines from the bottom edge upwards, each one with its own copy of fs.
// The last bottom line is the one closest to the bottom edge.
func (r *Rasterizer) DrawLinesTopBottom(img *image.NRGBA, fs Fontspec, top, bottom []string) []Placement {
	placements := make([]Placement, 0, len(top)+len(bottom))

	for i, text := range top {
		line := Line{Text: text, Orientation: Top, Fontspec: fs, Anchor: i}
		placements = append(placements, r.place(&line, img))
	}
	for i := len(bottom) - 1; i >= 0; i-- {
		line := Line{Text: bottom[i], Orientation: Bottom, Fontspec: fs, Anchor: len(bottom) - 1 - i}
		placements = append(placements, r.place(&line, img))
	}
	return placements
}

func (r *Rasterizer) place(line *Line, img *image.NRGBA) Placement {
	x, y, fits := Autolayout(line, img)
	r.DrawLineAt(line, img, x, y)
	return Placement{Line: *line, X: x, Y: y, Fits: fits}
}

// DrawLinesTopBottom renders the captions with the default font spec and Rasterizer.
func DrawLinesTopBottom(top, bottom []string, img *image.NRGBA) []Placement {
	return std.DrawLinesTopBottom(img, DefaultFontspec(), top, bottom)
}

// SplitRows splits a caption block into its rows.
func SplitRows(text string) []string {
	return strings.Split(text, RowSeparator)
}

// RenderSprite renders a caption block onto a new transparent image sized to fit it.
// Rows are left aligned and stacked top to bottom.
func (r *Rasterizer) RenderSprite(line Line) *image.NRGBA {
	var (
		rows        = SplitRows(line.Text)
		lineHeight  = line.Height()
		totalHeight float64
		maxWidth    float64
	)

	for _, row := range rows {
		totalHeight += lineHeight + SpritePadding
		maxWidth = math.Max(maxWidth, float64(measureWidth(line.Fontspec, row)))
	}

	sprite := image.NewNRGBA(image.Rect(0, 0, int(maxWidth+SpritePadding), int(totalHeight+SpritePadding)))
	r.drawRowsAt(line, sprite, SpriteInset, SpriteInset)

	return sprite
}

// RenderSprite renders a caption block using the default Rasterizer.
func RenderSprite(line Line) *image.NRGBA {
	return std.RenderSprite(line)
}

// drawRowsAt renders every row of the line with the first row's top-left corner at (x, y).
// Rows are spaced by the ascent plus SpritePadding.
func (r *Rasterizer) drawRowsAt(line Line, img *image.NRGBA, x, y float64) {
	ascent, _ := line.Fontspec.vMetrics()
	spacing := ascent + SpritePadding

	for i, row := range SplitRows(line.Text) {
		single := Line{Text: row, Fontspec: line.Fontspec}
		r.DrawLineAt(&single, img, x, y+spacing*float64(i))
	}
}

// drawAuto lays out every row of a caption block as consecutive lines of its orientation group,
// starting at the block's anchor. The block itself is left untouched.
func (r *Rasterizer) drawAuto(line Line, img *image.NRGBA) bool {
	rows := SplitRows(line.Text)
	fits := true

	for i, row := range rows {
		anchor := line.Anchor + i
		if line.Orientation == Bottom {
			anchor = line.Anchor + len(rows) - 1 - i
		}
		single := Line{Text: row, Orientation: line.Orientation, Fontspec: line.Fontspec, Anchor: anchor}
		if !r.DrawLine(&single, img) {
			fits = false
		}
	}
	return fits
}

// PlaceSprite composites a sprite onto img with its top-left corner at pt.
// Parts of the sprite falling outside img are dropped.
func (r *Rasterizer) PlaceSprite(img, sprite *image.NRGBA, pt image.Point) {
	r.op.Draw(img, sprite, pt)
}

// PlaceSprite composites a sprite onto img using the default Rasterizer.
func PlaceSprite(img, sprite *image.NRGBA, pt image.Point) {
	std.PlaceSprite(img, sprite, pt)
}
