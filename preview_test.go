package memegen

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview_Size(t *testing.T) {
	testCases := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{name: "landscape", w: 1920, h: 1080, wantW: 1024, wantH: 576},
		{name: "portrait", w: 1080, h: 1920, wantW: 576, wantH: 1024},
		{name: "square", w: 2048, h: 2048, wantW: 1024, wantH: 1024},
		{name: "small image is not upscaled", w: 800, h: 600, wantW: 800, wantH: 600},
		{name: "exact cap", w: 1024, h: 300, wantW: 1024, wantH: 300},
		{name: "thin strip", w: 5000, h: 2, wantW: 1024, wantH: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, tc.w, tc.h))
			p := GeneratePreview(img)

			assert.Equal(t, tc.wantW, p.Bounds().Dx())
			assert.Equal(t, tc.wantH, p.Bounds().Dy())
		})
	}
}

func TestPreview_CopiesSmallImages(t *testing.T) {
	img := newCanvas(64, 48, gray)
	p := GeneratePreview(img)

	assert.Equal(t, img.Pix, p.Pix)
	assert.NotSame(t, &img.Pix[0], &p.Pix[0])
}

func TestPreview_KeepsUniformColor(t *testing.T) {
	img := newCanvas(2000, 1000, gray)
	p := generatePreview(img, 100)

	assert.Equal(t, image.Rect(0, 0, 100, 50), p.Bounds())
	assert.Equal(t, gray, p.NRGBAAt(50, 25))
}
