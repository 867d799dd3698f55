package memegen

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned when the destination extension has no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SupportedExtensions lists the file extensions accepted as source and destination.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// decodeImg decodes any of the supported image formats into an NRGBA image with its min-point at (0, 0).
func decodeImg(r io.Reader) (*image.NRGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode the source image: %w", err)
	}
	return imaging.Clone(src), nil
}

// encodeImg encodes an image to a destination of type io.Writer.
// Files are encoded according to their extension, anything else as JPEG.
func encodeImg(w io.Writer, img image.Image) error {
	f, ok := w.(*os.File)
	if !ok || f == os.Stdout {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	}
	return encodeByExt(w, filepath.Ext(f.Name()), img)
}

func encodeByExt(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".gif":
		return gif.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SaveImage writes img to path, choosing the encoder from the file extension.
// The file is written to a temporary sibling first and renamed, so readers never see a partial image.
func SaveImage(path string, img image.Image) error {
	ext := filepath.Ext(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".memegen-*"+ext)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encodeByExt(tmp, ext, img); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadImage decodes the image stored at path.
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	defer f.Close()

	return decodeImg(f)
}
