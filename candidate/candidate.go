package candidate

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

const (
	maxSizeMB    = 5
	MaxSizeBytes = maxSizeMB * 1024 * 1024
)

// Accepted declared MIME types. Matching is exact and case-sensitive.
const (
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeWEBP = "image/webp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format (PNG, JPEG and WEBP only)")
	ErrFileTooLarge      = fmt.Errorf("image exceeds the %d MB size limit", maxSizeMB)
)

// Candidate is a selected or pasted image awaiting decode. It is ephemeral:
// created on selection, discarded when superseded or cleared.
type Candidate struct {
	Data         []byte
	DeclaredType string
	Size         int64
	Filename     string
}

// New builds a candidate from raw bytes and a declared MIME type.
func New(data []byte, declaredType, filename string) *Candidate {
	return &Candidate{
		Data:         data,
		DeclaredType: declaredType,
		Size:         int64(len(data)),
		Filename:     filename,
	}
}

// FromFile builds a candidate for file-select input. The declared type comes
// from the extension when it maps to a known image type, otherwise from
// content sniffing.
func FromFile(data []byte, filename string) *Candidate {
	return New(data, declaredTypeFor(data, filename), filename)
}

// Validate applies the acceptance contract: declared type must be exactly
// one of PNG/JPEG/WEBP, and size must not exceed MaxSizeBytes. A candidate
// at exactly MaxSizeBytes is accepted; one byte over is rejected.
func Validate(c *Candidate) error {
	switch c.DeclaredType {
	case TypePNG, TypeJPEG, TypeWEBP:
	default:
		return ErrUnsupportedFormat
	}
	if c.Size > MaxSizeBytes {
		return ErrFileTooLarge
	}
	return nil
}

func declaredTypeFor(data []byte, filename string) string {
	if ext := filepath.Ext(filename); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return mimetype.Detect(data).String()
}
