package preview

import (
	"image"

	"github.com/nfnt/resize"
)

// Default bound for the longest preview edge.
const MaxDimension = 360

// Preview is the transient display resource for an accepted candidate.
// Exactly one preview is live at a time; it is released when its candidate
// is superseded or cleared.
type Preview struct {
	thumb image.Image
}

// FromImage builds a preview thumbnail, downscaling so the longest edge
// fits maxDim. Images already within bounds are kept as-is.
func FromImage(img image.Image, maxDim uint) *Preview {
	if maxDim == 0 {
		maxDim = MaxDimension
	}
	b := img.Bounds()
	if uint(b.Dx()) > maxDim || uint(b.Dy()) > maxDim {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Bilinear)
	}
	return &Preview{thumb: img}
}

// Image returns the thumbnail, or nil after release.
func (p *Preview) Image() image.Image {
	if p == nil {
		return nil
	}
	return p.thumb
}

// Release drops the pixel data. Safe to call more than once and on nil.
func (p *Preview) Release() {
	if p == nil {
		return
	}
	p.thumb = nil
}
