package decode

import (
	"context"
	"errors"
	"image"
	"log"

	"qr-code-viewer/candidate"
	"qr-code-viewer/qr"
	"qr-code-viewer/raster"
)

// Status classifies a single decode attempt. Exactly one status is active
// per candidate at any time.
type Status int

const (
	Pending Status = iota
	Success
	NotFound
	LoadError
	ContextError
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case NotFound:
		return "not-found"
	case LoadError:
		return "load-error"
	case ContextError:
		return "context-error"
	default:
		return "unknown"
	}
}

// Outcome is the terminal classification of a decode attempt. Text is set
// only for Success.
type Outcome struct {
	Status Status
	Text   string
}

// Message returns the user-visible text for a failed outcome.
func (o Outcome) Message() string {
	switch o.Status {
	case NotFound:
		return "No QR code found in this image"
	case LoadError:
		return "Could not load the image"
	case ContextError:
		return "Could not read pixel data from the image"
	default:
		return ""
	}
}

// Options customizes a pipeline run.
type Options struct {
	// OnLoad is invoked once the candidate's bytes have been decoded into a
	// raster, before the QR reader runs. The UI uses it to publish the
	// preview for the accepted candidate.
	OnLoad func(img image.Image)
}

// Run executes the decode pipeline for one candidate: load the bytes into a
// raster, render a full-frame RGBA buffer at the image's natural size, and
// hand the pixels to the QR reader. Failures resolve to outcome values and
// never escape the pipeline.
//
// The context is the candidate's cancellation token: it is checked after
// the load and after the reader returns, the two points where a superseded
// candidate's work must not surface. A non-nil error is always a context
// error and means the outcome must be discarded.
func Run(ctx context.Context, c *candidate.Candidate, opts Options) (Outcome, error) {
	img, err := raster.Load(c.Data)
	if err != nil {
		log.Printf("decode: load failed for %q: %v", c.Filename, err)
		return Outcome{Status: LoadError}, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	if opts.OnLoad != nil {
		opts.OnLoad(img)
	}

	frame := raster.Render(img)
	b := frame.Bounds()

	text, err := qr.Decode(frame.Pix, b.Dx(), b.Dy())
	if cerr := ctx.Err(); cerr != nil {
		return Outcome{}, cerr
	}
	if err != nil {
		if errors.Is(err, qr.ErrBadFrame) {
			log.Printf("decode: unreadable frame for %q: %v", c.Filename, err)
			return Outcome{Status: ContextError}, nil
		}
		return Outcome{Status: NotFound}, nil
	}

	log.Printf("decode: found QR payload (%d chars) in %q", len(text), c.Filename)
	return Outcome{Status: Success, Text: text}, nil
}
