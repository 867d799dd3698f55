package memegen

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Captioner renders top and bottom captions onto images.
type Captioner struct {
	Top    []string
	Bottom []string
	// Fontspec used for every line. Without a font DefaultFontspec is used, keeping Scale if set.
	Fontspec Fontspec
	// Composite is an optional imop composition operator; source-over when empty.
	Composite string
	// Blend is an optional imop blend mode applied to the glyph colors.
	Blend string
	// Preview captions a downscaled copy of the image instead of the full resolution one.
	Preview bool
}

// Caption renders the captions onto a copy of img and returns it along with the line placements.
func (c *Captioner) Caption(img image.Image) (*image.NRGBA, []Placement) {
	var dst *image.NRGBA
	if c.Preview {
		dst = GeneratePreview(img)
	} else {
		dst = imaging.Clone(img)
	}

	fs := c.Fontspec
	if fs.Font == nil {
		fs = DefaultFontspec().WithScale(fs.Scale)
	}
	if fs.Scale <= 0 {
		fs.Scale = DefaultScale
	}

	placements := NewRasterizer(c.Composite, c.Blend).DrawLinesTopBottom(dst, fs, c.Top, c.Bottom)
	for _, p := range placements {
		if !p.Fits {
			Logger().Warn("caption overflows the image", "text", p.Line.Text)
		}
	}
	return dst, placements
}

// Process decodes the source image, captions it and encodes the result into w.
// Both the source and the destination can be any io.Reader and io.Writer.
func (c *Captioner) Process(r io.Reader, w io.Writer) error {
	img, err := decodeImg(r)
	if err != nil {
		return err
	}
	res, _ := c.Caption(img)
	return encodeImg(w, res)
}
