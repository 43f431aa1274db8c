package ui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"qr-code-viewer/clipboard"
	"qr-code-viewer/config"
	"qr-code-viewer/decode"
	"qr-code-viewer/eventloop"
	"qr-code-viewer/preview"
)

func buildViewer(t *testing.T) *Viewer {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	cfg := &config.Config{WindowTitle: "test", DecodeDeadlineSec: 5}
	// The loop is never run in these tests; apply() is exercised directly.
	return Build(a, cfg, eventloop.New(cfg, func(eventloop.Event) {}))
}

func TestApplySuccessShowsTextAndLink(t *testing.T) {
	v := buildViewer(t)

	v.apply(eventloop.Event{Kind: eventloop.EventAccepted, Filename: "qr.png"})
	v.apply(eventloop.Event{
		Kind:    eventloop.EventOutcome,
		Outcome: decode.Outcome{Status: decode.Success, Text: "https://example.com/x"},
	})

	if v.result.Text != "https://example.com/x" {
		t.Errorf("result entry shows %q", v.result.Text)
	}
	if v.linkOut.Hidden {
		t.Error("hyperlink should be visible for an http(s) payload")
	}
	if v.linkOut.URL == nil || v.linkOut.URL.String() != "https://example.com/x" {
		t.Errorf("hyperlink URL = %v", v.linkOut.URL)
	}
}

func TestApplySuccessPlainTextHasNoLink(t *testing.T) {
	v := buildViewer(t)
	v.apply(eventloop.Event{
		Kind:    eventloop.EventOutcome,
		Outcome: decode.Outcome{Status: decode.Success, Text: "hello world"},
	})
	if !v.linkOut.Hidden {
		t.Error("hyperlink must stay hidden for non-URL payloads")
	}
	if v.result.Text != "hello world" {
		t.Errorf("result entry shows %q", v.result.Text)
	}
}

func TestApplyFailureShowsMessage(t *testing.T) {
	v := buildViewer(t)
	v.apply(eventloop.Event{
		Kind:    eventloop.EventOutcome,
		Outcome: decode.Outcome{Status: decode.NotFound},
	})
	if v.status.Text != "No QR code found in this image" {
		t.Errorf("status shows %q", v.status.Text)
	}
	if v.result.Text != "" {
		t.Error("failed decode must not leave text in the result entry")
	}

	v.apply(eventloop.Event{Kind: eventloop.EventOutcome, Err: errors.New("decode timed out")})
	if v.status.Text != "decode timed out" {
		t.Errorf("status shows %q", v.status.Text)
	}
}

func TestApplyPreviewAndClear(t *testing.T) {
	v := buildViewer(t)

	p := preview.FromImage(image.NewRGBA(image.Rect(0, 0, 20, 20)), 0)
	v.apply(eventloop.Event{Kind: eventloop.EventPreview, Preview: p})
	if v.previewImg.Image == nil {
		t.Fatal("preview image not applied")
	}

	v.apply(eventloop.Event{
		Kind:    eventloop.EventOutcome,
		Outcome: decode.Outcome{Status: decode.Success, Text: "https://example.com"},
	})

	v.apply(eventloop.Event{Kind: eventloop.EventCleared})
	if v.previewImg.Image != nil {
		t.Error("clear must drop the preview")
	}
	if v.result.Text != "" || !v.linkOut.Hidden {
		t.Error("clear must drop decoded text and link")
	}
}

// buildViewerWithLoop runs a real event loop behind the viewer so tests can
// observe whether an input actually activates a candidate.
func buildViewerWithLoop(t *testing.T) (*Viewer, chan eventloop.Event) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	cfg := &config.Config{WindowTitle: "test", DecodeDeadlineSec: 5}

	events := make(chan eventloop.Event, 16)
	loop := eventloop.New(cfg, func(e eventloop.Event) { events <- e })
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(cancel)

	return Build(a, cfg, loop), events
}

func TestPasteFailureShowsMessageWithoutCandidate(t *testing.T) {
	v, events := buildViewerWithLoop(t)

	cases := []error{clipboard.ErrEmpty, clipboard.ErrNoImage, clipboard.ErrReadFailed}
	for _, readErr := range cases {
		v.readImage = func() ([]byte, error) { return nil, readErr }
		v.onPaste()
		if v.status.Text != readErr.Error() {
			t.Errorf("status after %v paste = %q", readErr, v.status.Text)
		}
	}

	// None of the failed pastes may have activated a candidate.
	select {
	case e := <-events:
		t.Fatalf("failed paste must not reach the loop, got %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPasteImageActivatesCandidate(t *testing.T) {
	v, events := buildViewerWithLoop(t)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	v.readImage = func() ([]byte, error) { return buf.Bytes(), nil }
	v.onPaste()

	select {
	case e := <-events:
		if e.Kind != eventloop.EventAccepted || e.Filename != "clipboard image" {
			t.Errorf("expected the pasted image to be accepted, got %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pasted image never became the active candidate")
	}
}

func TestAcceptedResetsStaleOutput(t *testing.T) {
	v := buildViewer(t)

	v.apply(eventloop.Event{
		Kind:    eventloop.EventOutcome,
		Outcome: decode.Outcome{Status: decode.Success, Text: "https://example.com"},
	})
	v.apply(eventloop.Event{Kind: eventloop.EventAccepted, Filename: "next.png"})

	if v.result.Text != "" {
		t.Error("a newly accepted candidate must clear the previous payload")
	}
	if !v.linkOut.Hidden {
		t.Error("a newly accepted candidate must hide the previous link")
	}
}
