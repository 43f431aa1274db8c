package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"qr-code-viewer/clipboard"
	"qr-code-viewer/config"
	"qr-code-viewer/eventloop"
	"qr-code-viewer/logutil"
	"qr-code-viewer/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	if err := clipboard.Init(); err != nil {
		// Paste stays available in the UI; each attempt reports the failure.
		log.Printf("Clipboard unavailable: %v", err)
	}

	log.Printf("QR Code Viewer initialized")
	log.Printf("Decode deadline: %ds", cfg.DecodeDeadlineSec)

	a := app.New()
	loop := eventloop.New(cfg, nil)
	viewer := ui.Build(a, cfg, loop)
	loop.SetSink(viewer.Sink())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := loop.Run(ctx); err != nil {
			log.Printf("event loop stopped: %v", err)
		}
	}()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
		fyne.Do(func() { a.Quit() })
	}()

	viewer.Window().ShowAndRun()
}
