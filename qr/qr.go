package qr

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

var (
	// ErrNoQRCode means the frame was readable but contained no locatable code.
	ErrNoQRCode = errors.New("no QR code found in image")
	// ErrBadFrame means the pixel buffer could not back a readable frame.
	ErrBadFrame = errors.New("pixel buffer cannot be read")
)

// Decode runs the QR reader over a full-frame RGBA pixel buffer. pix holds
// 4 bytes per pixel, row-major, exactly width*height*4 long.
func Decode(pix []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return "", fmt.Errorf("%w: %dx%d with %d bytes", ErrBadFrame, width, height, len(pix))
	}

	frame := &image.RGBA{
		Pix:    pix,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(frame)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		// The reader reports "not found" through exception types; every
		// reader failure means the same thing to the caller: no code.
		return "", ErrNoQRCode
	}

	return result.GetText(), nil
}
