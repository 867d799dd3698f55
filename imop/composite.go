package imop

import (
	"image"
	"image/color"

	"github.com/esimov/memegen/utils"
)

// Porter-Duff composition operators.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

var compositeOps = []string{
	Clear, Copy, Dst, SrcOver, DstOver, SrcIn, DstIn, SrcOut, DstOut, SrcAtop, DstAtop, Xor,
}

// Composite holds the active composition operator and an optional blend mode
// applied to the source color before compositing.
type Composite struct {
	current string
	blend   *Blend
}

// InitOp returns a Composite using source-over, the operator image/draw calls draw.Over.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composition operators.
// Unsupported operators are ignored.
func (op *Composite) Set(cop string) {
	if utils.Contains(compositeOps, cop) {
		op.current = cop
	}
}

// IsSupportedOp reports whether the composition operator name is known.
func IsSupportedOp(cop string) bool {
	return utils.Contains(compositeOps, cop)
}

// Get returns the active composition operator.
func (op *Composite) Get() string {
	return op.current
}

// SetBlend attaches a blend mode to the operator. A nil blend disables blending.
func (op *Composite) SetBlend(b *Blend) {
	op.blend = b
}

// Pixel composites the non-premultiplied source color over (or under, in, out...)
// the destination color and returns the non-premultiplied result.
func (op *Composite) Pixel(src, dst color.NRGBA) color.NRGBA {
	as := float64(src.A) / 255
	ab := float64(dst.A) / 255

	cs := [3]float64{float64(src.R) / 255, float64(src.G) / 255, float64(src.B) / 255}
	cb := [3]float64{float64(dst.R) / 255, float64(dst.G) / 255, float64(dst.B) / 255}

	if op.blend != nil && op.blend.Get() != "" && ab > 0 {
		for i := range cs {
			cs[i] = (1-ab)*cs[i] + ab*op.blend.apply(cb[i], cs[i])
		}
	}

	// fa and fb are the Porter-Duff fractions of source and backdrop.
	var fa, fb float64
	switch op.current {
	case Clear:
		fa, fb = 0, 0
	case Copy:
		fa, fb = 1, 0
	case Dst:
		fa, fb = 0, 1
	case SrcOver:
		fa, fb = 1, 1-as
	case DstOver:
		fa, fb = 1-ab, 1
	case SrcIn:
		fa, fb = ab, 0
	case DstIn:
		fa, fb = 0, as
	case SrcOut:
		fa, fb = 1-ab, 0
	case DstOut:
		fa, fb = 0, 1-as
	case SrcAtop:
		fa, fb = ab, 1-as
	case DstAtop:
		fa, fb = 1-ab, as
	case Xor:
		fa, fb = 1-ab, 1-as
	}

	ao := as*fa + ab*fb
	if ao <= 0 {
		return color.NRGBA{}
	}

	var out [3]uint8
	for i := range out {
		// premultiplied mix, then back to straight alpha
		co := (as*fa*cs[i] + ab*fb*cb[i]) / ao
		out[i] = uint8(utils.Clamp(co, 0, 1)*255 + 0.5)
	}

	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: uint8(utils.Clamp(ao, 0, 1)*255 + 0.5)}
}

// Draw composites src onto dst with the top-left corner of src placed at pt.
// Pixels falling outside dst are dropped.
func (op *Composite) Draw(dst, src *image.NRGBA, pt image.Point) {
	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(pt).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.NRGBAAt(sb.Min.X+x-pt.X, sb.Min.Y+y-pt.Y)
			d := dst.NRGBAAt(x, y)
			dst.SetNRGBA(x, y, op.Pixel(s, d))
		}
	}
}
