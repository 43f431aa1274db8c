package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"qr-code-viewer/candidate"
	"qr-code-viewer/clipboard"
	"qr-code-viewer/decode"
)

// SourceFunc produces the candidate to decode.
type SourceFunc func() (*candidate.Candidate, error)

// RunFunc executes the decode pipeline.
type RunFunc func(ctx context.Context, c *candidate.Candidate, opts decode.Options) (decode.Outcome, error)

type ResultTarget interface {
	OnSuccess(text string) error
	OnFailure(err error) error
}

// Targets fans one result out to several targets in order. The first target
// error stops the fan-out.
type Targets []ResultTarget

func (ts Targets) OnSuccess(text string) error {
	for _, t := range ts {
		if err := t.OnSuccess(text); err != nil {
			return err
		}
	}
	return nil
}

func (ts Targets) OnFailure(err error) error {
	for _, t := range ts {
		if terr := t.OnFailure(err); terr != nil {
			return terr
		}
	}
	return nil
}

type Options struct {
	Deadline time.Duration
	Source   SourceFunc
	Run      RunFunc
	Target   ResultTarget
}

type Result struct {
	Outcome decode.Outcome
}

// Execute runs one acquire-validate-decode cycle and reports through the
// target. Validation failures short-circuit before any decode attempt.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.Source == nil {
		return Result{}, errors.New("Source is required")
	}
	if opts.Target == nil {
		return Result{}, errors.New("Target is required")
	}

	c, err := opts.Source()
	if err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	}

	if err := candidate.Validate(c); err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	}

	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 20 * time.Second
	}
	jobCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	run := opts.Run
	if run == nil {
		run = decode.Run
	}

	out, err := run(jobCtx, c, decode.Options{})
	if err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	}
	if out.Status != decode.Success {
		failure := errors.New(out.Message())
		_ = opts.Target.OnFailure(failure)
		return Result{Outcome: out}, failure
	}

	if err := opts.Target.OnSuccess(out.Text); err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{Outcome: out}, err
	}

	return Result{Outcome: out}, nil
}

type ClipboardTarget struct{}

func (ClipboardTarget) OnSuccess(text string) error {
	return clipboard.Write(text)
}

func (ClipboardTarget) OnFailure(err error) error {
	return nil
}

type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnSuccess(text string) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprint(w, text)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}
