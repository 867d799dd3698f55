/*
Package memegen renders outlined caption text onto images and keeps a live preview
of an editing session.

The package is built from three parts:
  - a glyph rasterizer compositing anti-aliased, outlined text onto NRGBA images,
  - a layout engine centering caption lines and shrinking their font until they fit,
  - a PreviewService which owns the lines of an editing session and renders a new
    downscaled frame after every edit request.

Captioning an image in one go:

	package main

	import (
		"log"
		"os"

		"github.com/esimov/memegen"
	)

	func main() {
		c := &memegen.Captioner{
			Top:    []string{"One does not simply"},
			Bottom: []string{"caption an image"},
		}
		in, _ := os.Open("simply.jpg")
		out, _ := os.Create("meme.jpg")
		if err := c.Process(in, out); err != nil {
			log.Fatalf("error captioning image: %v", err)
		}
	}

Driving a live preview:

	svc := memegen.NewPreviewService(img, nil)
	svc.Start()
	svc.Send(memegen.AddLine{Line: memegen.NewLine("Hello")})
	frame := <-svc.Frames()
*/
package memegen
