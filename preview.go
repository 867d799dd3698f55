package memegen

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// PreviewCap is the length, in pixels, of the long edge of a generated preview.
const PreviewCap = 1024

// GeneratePreview returns a working copy of img whose long edge is at most PreviewCap pixels,
// keeping the aspect ratio. Larger images are resampled with a Gaussian filter; smaller
// ones are copied as they are.
func GeneratePreview(img image.Image) *image.NRGBA {
	return generatePreview(img, PreviewCap)
}

func generatePreview(img image.Image, maxEdge int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if max(w, h) <= maxEdge {
		return imaging.Clone(img)
	}

	nw, nh := previewSize(w, h, maxEdge)
	return imaging.Resize(img, nw, nh, imaging.Gaussian)
}

// previewSize scales (w, h) so that the long edge equals maxEdge.
func previewSize(w, h, maxEdge int) (int, int) {
	if w >= h {
		ratio := float64(maxEdge) / float64(w)
		return maxEdge, max(1, int(math.Round(float64(h)*ratio)))
	}
	ratio := float64(maxEdge) / float64(h)
	return max(1, int(math.Round(float64(w)*ratio))), maxEdge
}
