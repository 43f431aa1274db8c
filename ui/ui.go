package ui

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"qr-code-viewer/candidate"
	"qr-code-viewer/clipboard"
	"qr-code-viewer/config"
	"qr-code-viewer/eventloop"
	"qr-code-viewer/link"
	"qr-code-viewer/logutil"
	"qr-code-viewer/screenshot"
)

// Viewer is the single window of the application. All mutation of its
// widgets happens on the Fyne thread; loop events arrive through Sink,
// which marshals with fyne.Do.
type Viewer struct {
	win  fyne.Window
	loop *eventloop.Loop

	previewImg *canvas.Image
	status     *widget.Label
	result     *widget.Entry
	linkOut    *widget.Hyperlink

	openBtn    *widget.Button
	pasteBtn   *widget.Button
	captureBtn *widget.Button
	clearBtn   *widget.Button

	// readImage is the clipboard image source, swappable in tests.
	readImage func() ([]byte, error)
}

// Build assembles the viewer window. The paste shortcut is registered on
// the window canvas here and lives exactly as long as the window does.
func Build(a fyne.App, cfg *config.Config, loop *eventloop.Loop) *Viewer {
	v := &Viewer{loop: loop, readImage: clipboard.ReadImage}
	v.win = a.NewWindow(cfg.WindowTitle)

	v.previewImg = &canvas.Image{FillMode: canvas.ImageFillContain}
	v.previewImg.SetMinSize(fyne.NewSize(360, 270))

	v.status = widget.NewLabel("Select or paste an image containing a QR code")
	v.status.Wrapping = fyne.TextWrapWord

	v.result = widget.NewMultiLineEntry()
	v.result.Wrapping = fyne.TextWrapWord
	v.result.SetPlaceHolder("Decoded text appears here")
	v.result.Disable()

	v.linkOut = widget.NewHyperlink("", nil)
	v.linkOut.Hide()

	v.openBtn = widget.NewButtonWithIcon("Open Image", theme.FolderOpenIcon(), func() { v.onOpenFile() })
	v.pasteBtn = widget.NewButtonWithIcon("Paste", theme.ContentPasteIcon(), func() { v.onPaste() })
	v.captureBtn = widget.NewButtonWithIcon("Capture Screen", theme.ComputerIcon(), func() { v.onCapture() })
	v.clearBtn = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() { v.loop.Clear() })

	controls := container.NewGridWithColumns(4, v.openBtn, v.pasteBtn, v.captureBtn, v.clearBtn)
	content := container.NewVBox(
		controls,
		v.previewImg,
		widget.NewSeparator(),
		v.status,
		v.linkOut,
		container.NewStack(v.result),
	)

	v.win.SetContent(content)
	v.win.Resize(fyne.NewSize(560, 680))
	v.win.Canvas().AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) { v.onPaste() })

	return v
}

// Window returns the viewer window for Show/ShowAndRun.
func (v *Viewer) Window() fyne.Window { return v.win }

// Sink returns the event sink to wire into the loop. It hops onto the Fyne
// thread before touching any widget.
func (v *Viewer) Sink() eventloop.Sink {
	return func(e eventloop.Event) {
		fyne.Do(func() { v.apply(e) })
	}
}

func (v *Viewer) apply(e eventloop.Event) {
	switch e.Kind {
	case eventloop.EventAccepted:
		v.resetOutput()
		v.previewImg.Image = nil
		v.previewImg.Refresh()
		v.status.SetText(fmt.Sprintf("Decoding %s...", e.Filename))

	case eventloop.EventPreview:
		v.previewImg.Image = e.Preview.Image()
		v.previewImg.Refresh()

	case eventloop.EventOutcome:
		v.showOutcome(e)

	case eventloop.EventCleared:
		v.resetOutput()
		v.previewImg.Image = nil
		v.previewImg.Refresh()
		v.status.SetText("Select or paste an image containing a QR code")
	}
}

func (v *Viewer) resetOutput() {
	v.result.SetText("")
	v.linkOut.Hide()
	v.linkOut.SetURL(nil)
}

func (v *Viewer) showOutcome(e eventloop.Event) {
	if e.Err != nil {
		v.status.SetText(e.Err.Error())
		return
	}
	out := e.Outcome
	if msg := out.Message(); msg != "" {
		v.status.SetText(msg)
		return
	}

	v.status.SetText("QR code decoded")
	v.result.SetText(out.Text)
	if u, ok := link.Classify(out.Text); ok {
		v.linkOut.SetText(u.String())
		v.linkOut.SetURL(u)
		v.linkOut.Show()
	}
	log.Printf("ui: displaying payload %q", logutil.Sanitize(out.Text))
}

func (v *Viewer) onOpenFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.win)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(err, v.win)
			return
		}
		c := candidate.FromFile(data, filepath.Base(rc.URI().Path()))
		v.submit(c)
	}, v.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".webp"}))
	fd.Show()
}

func (v *Viewer) onPaste() {
	data, err := v.readImage()
	if err != nil {
		log.Printf("ui: paste failed: %v", err)
		v.status.SetText(err.Error())
		return
	}
	// The clipboard layer hands back PNG bytes regardless of what the
	// source application put there.
	v.submit(candidate.New(data, candidate.TypePNG, "clipboard image"))
}

func (v *Viewer) onCapture() {
	v.captureBtn.Disable()
	go func() {
		data, err := screenshot.CapturePNG()
		fyne.Do(func() {
			v.captureBtn.Enable()
			if err != nil {
				log.Printf("ui: screen capture failed: %v", err)
				v.status.SetText(fmt.Sprintf("Screen capture failed: %v", err))
				return
			}
			v.submit(candidate.New(data, candidate.TypePNG, "screen capture"))
		})
	}()
}

// submit validates on the spot so rejections short-circuit before any
// decode work, then hands the candidate to the loop.
func (v *Viewer) submit(c *candidate.Candidate) {
	if err := candidate.Validate(c); err != nil {
		log.Printf("ui: rejected %q: %v", c.Filename, err)
		v.status.SetText(err.Error())
		return
	}
	v.loop.Submit(c)
}
