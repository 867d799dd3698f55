package memegen

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/esimov/memegen/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	// DefaultScale is the font size, in pixels per em, of the built-in font specs.
	DefaultScale = 64.0
	// MinScale is the floor of every font scale. Smaller values are clamped.
	MinScale = 1.0
)

// ErrInvalidScale is returned for a non-positive font scale.
var ErrInvalidScale = errors.New("font scale must be positive")

var (
	boldFont    = sync.OnceValue(func() *opentype.Font { return MustParseFont(gobold.TTF) })
	regularFont = sync.OnceValue(func() *opentype.Font { return MustParseFont(goregular.TTF) })
)

// RGB is an opaque color.
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{R: 0xff, G: 0xff, B: 0xff}
	Black = RGB{}
)

// NRGBA returns the color with the given alpha.
func (c RGB) NRGBA(a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// String returns the color in #rrggbb notation.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor parses a color given as #rgb or #rrggbb, the leading # being optional.
func ParseHexColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: expected #rgb or #rrggbb", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Fontspec bundles a parsed font with the scale and the two colors used to render a caption.
// It is a plain value: copying it yields an independent spec sharing the same immutable font.
type Fontspec struct {
	Font    *opentype.Font
	Scale   float64
	Fill    RGB
	Outline RGB
}

// ParseFont parses TrueType or OpenType font data.
func ParseFont(data []byte) (*opentype.Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font: %w", err)
	}
	return f, nil
}

// MustParseFont is like ParseFont but panics on malformed data.
// It is meant for fonts embedded into the binary.
func MustParseFont(data []byte) *opentype.Font {
	f, err := ParseFont(data)
	if err != nil {
		panic("embedded font is broken: " + err.Error())
	}
	return f
}

// DefaultFontspec returns the classic caption style: a bold face,
// white fill and black outline.
func DefaultFontspec() Fontspec {
	return Fontspec{
		Font:    boldFont(),
		Scale:   DefaultScale,
		Fill:    White,
		Outline: Black,
	}
}

// RegularFontspec is like DefaultFontspec but uses a regular weight face.
func RegularFontspec() Fontspec {
	fs := DefaultFontspec()
	fs.Font = regularFont()
	return fs
}

// WithScale returns a copy of the spec with a different scale.
func (fs Fontspec) WithScale(scale float64) Fontspec {
	fs.Scale = scale
	return fs
}

// Validate reports whether the spec can be rendered without clamping.
func (fs Fontspec) Validate() error {
	if fs.Font == nil {
		return errors.New("font spec has no font")
	}
	if fs.Scale <= 0 || math.IsNaN(fs.Scale) {
		return fmt.Errorf("%w: got %v", ErrInvalidScale, fs.Scale)
	}
	return nil
}

// face creates a new font.Face for the spec. Faces are not safe for concurrent use,
// so every rendering call gets its own. A scale below MinScale is clamped.
func (fs Fontspec) face() font.Face {
	f := fs.Font
	if f == nil {
		f = boldFont()
	}
	scale := fs.Scale
	if math.IsNaN(scale) {
		scale = MinScale
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    utils.Max(scale, MinScale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// NewFace only fails on invalid options, which the clamp above rules out.
		panic(err)
	}
	return face
}

// vMetrics returns the ascent and descent (both positive) of the spec in pixels.
func (fs Fontspec) vMetrics() (ascent, descent float64) {
	face := fs.face()
	defer face.Close()

	m := face.Metrics()
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
}

// LineHeight returns the pixel height of a caption row rendered with the spec.
func (fs Fontspec) LineHeight() float64 {
	ascent, descent := fs.vMetrics()
	return math.Ceil(ascent + descent)
}
