package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var (
	// ErrEmpty means the clipboard carried nothing at all.
	ErrEmpty = errors.New("clipboard is empty")
	// ErrNoImage means the clipboard has content, but none of it is an image.
	ErrNoImage = errors.New("clipboard does not contain an image")
	// ErrReadFailed means the clipboard could not be accessed.
	ErrReadFailed = errors.New("failed to read from clipboard")
)

var (
	mu          sync.Mutex
	initialized bool
)

func Init() error {
	mu.Lock()
	defer mu.Unlock()
	if err := clipboard.Init(); err != nil {
		return err
	}
	initialized = true
	return nil
}

// ReadImage returns the clipboard's image content as PNG-encoded bytes.
// Each failure mode is distinct so the caller can surface a specific
// message instead of silently ignoring the paste.
func ReadImage() ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return nil, ErrReadFailed
	}

	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		return img, nil
	}
	if text := clipboard.Read(clipboard.FmtText); len(text) > 0 {
		return nil, ErrNoImage
	}
	return nil, ErrEmpty
}

// Write performs a mutex-guarded clipboard text write.
func Write(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return ErrReadFailed
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
