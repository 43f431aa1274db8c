package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"qr-code-viewer/candidate"
	"qr-code-viewer/clipboard"
	"qr-code-viewer/config"
	"qr-code-viewer/link"
	"qr-code-viewer/session"
)

type cliOptions struct {
	filePath    string
	jsonOutput  bool
	verbose     bool
	copyResult  bool
	deadlineSec int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"qr-tool"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "qr-tool",
		Short:         "Decode a QR code from an image file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to image file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().BoolVar(&opts.copyResult, "copy", false, "Copy the decoded text to the clipboard")
	cmd.Flags().IntVar(&opts.deadlineSec, "deadline", 0, "Decode deadline in seconds (overrides config)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runWithOptions(opts cliOptions) error {
	// Configure logging BEFORE any other operations.
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "[verbose] Starting QR tool\n")
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{DeadlineOverrideSec: opts.deadlineSec})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Decode deadline: %ds\n", cfg.DecodeDeadlineSec)
	}

	if opts.copyResult {
		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	source := func() (*candidate.Candidate, error) {
		data, name, err := readInput(opts.filePath, opts.verbose)
		if err != nil {
			return nil, err
		}
		return candidate.FromFile(data, name), nil
	}

	startTime := time.Now()
	res, err := session.Execute(context.Background(), session.Options{
		Deadline: time.Duration(cfg.DecodeDeadlineSec) * time.Second,
		Source:   source,
		Target:   resultTargets(opts),
	})
	elapsed := time.Since(startTime)
	if err != nil {
		if opts.verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Decode failed after %v: %v\n", elapsed, err)
		}
		return err
	}
	text := res.Outcome.Text

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Decode completed in %v, %d characters\n", elapsed, len(text))
		if opts.copyResult {
			fmt.Fprintf(os.Stderr, "[verbose] Result copied to clipboard\n")
		}
	}

	if opts.jsonOutput {
		return writeJSON(os.Stdout, text, opts.filePath, elapsed)
	}
	return nil
}

// resultTargets assembles the session targets for the selected flags. JSON
// output is rendered after the session finishes, so the stdout target only
// applies to plain mode.
func resultTargets(opts cliOptions) session.Targets {
	targets := session.Targets{}
	if !opts.jsonOutput {
		targets = append(targets, session.StdoutTarget{})
	}
	if opts.copyResult {
		targets = append(targets, session.ClipboardTarget{})
	}
	return targets
}

func readInput(filePath string, verbose bool) ([]byte, string, error) {
	if filePath == "-" {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Reading image from stdin\n")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		if len(data) == 0 {
			return nil, "", fmt.Errorf("input is empty")
		}
		return data, "stdin", nil
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Reading image from file: %s\n", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("input file is empty")
	}
	return data, filepath.Base(filePath), nil
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		switch {
		case arg == "-file":
			normalized[i] = "--file"
		case strings.HasPrefix(arg, "-file="):
			normalized[i] = "--file=" + arg[len("-file="):]
		case arg == "-json":
			normalized[i] = "--json"
		case arg == "-copy":
			normalized[i] = "--copy"
		case arg == "-verbose":
			normalized[i] = "--verbose"
		}
	}

	return normalized
}

type QRResult struct {
	Text      string  `json:"text"`
	Link      string  `json:"link,omitempty"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
	CharCount int     `json:"character_count"`
}

func writeJSON(w io.Writer, text string, sourcePath string, elapsed time.Duration) error {
	result := QRResult{
		Text:      text,
		Source:    sourcePath,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
		CharCount: len(text),
	}
	if u, ok := link.Classify(text); ok {
		result.Link = u.String()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
