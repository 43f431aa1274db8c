package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Load decodes image bytes into a raster. Corrupt data and images with zero
// natural dimensions both fail the load step.
func Load(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("decoded %s image has no pixels (%dx%d)", format, b.Dx(), b.Dy())
	}
	return img, nil
}

// Render draws img into a fresh RGBA buffer sized exactly to its natural
// width and height, giving the decoder a full-frame pixel view regardless
// of the source color model.
func Render(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
