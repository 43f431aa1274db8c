package eventloop

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"qr-code-viewer/candidate"
	"qr-code-viewer/config"
	"qr-code-viewer/decode"
	"qr-code-viewer/preview"
	"qr-code-viewer/worker"
)

// EventKind identifies what a sink notification carries.
type EventKind int

const (
	// EventAccepted: a new candidate became active; stale display state is void.
	EventAccepted EventKind = iota
	// EventPreview: the active candidate's preview is ready.
	EventPreview
	// EventOutcome: the active candidate's decode finished.
	EventOutcome
	// EventCleared: the viewer was reset; no candidate is active.
	EventCleared
)

// Event is a sink notification. Events always describe the currently active
// generation; results of superseded candidates are discarded inside the loop
// and never reach the sink.
type Event struct {
	Kind     EventKind
	Gen      uint64
	Filename string
	Preview  *preview.Preview
	Outcome  decode.Outcome
	Err      error
}

// Sink receives events from the loop goroutine. GUI sinks must marshal onto
// their own thread (fyne.Do).
type Sink func(Event)

// Loop is the single-threaded coordinator for the decode lifecycle. It owns
// the generation counter that makes candidate replacement cancel any
// in-flight decode: each submission bumps the generation and cancels the
// previous job context, and results are matched against the live generation
// before they may touch the sink.
type Loop struct {
	pool     *worker.Pool
	sink     Sink
	deadline time.Duration

	submits chan submission
	results chan result

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	livePrev *preview.Preview
}

type submission struct {
	cand  *candidate.Candidate
	clear bool
}

type resultKind int

const (
	resultPreview resultKind = iota
	resultOutcome
)

type result struct {
	kind    resultKind
	gen     uint64
	preview *preview.Preview
	outcome decode.Outcome
	err     error
	cancel  context.CancelFunc
}

// New creates an event loop. If cfg is nil or its deadline is not positive,
// a 20s decode deadline is used.
func New(cfg *config.Config, sink Sink) *Loop {
	return NewWithPool(cfg, sink, worker.New(0))
}

// NewWithPool creates an event loop over an existing worker pool.
func NewWithPool(cfg *config.Config, sink Sink, pool *worker.Pool) *Loop {
	deadlineSec := 20
	if cfg != nil && cfg.DecodeDeadlineSec > 0 {
		deadlineSec = cfg.DecodeDeadlineSec
	}
	return &Loop{
		pool:     pool,
		sink:     sink,
		deadline: time.Duration(deadlineSec) * time.Second,
		submits:  make(chan submission, 4),
		results:  make(chan result, 8),
	}
}

// Deadline returns the configured decode deadline for this loop.
func (l *Loop) Deadline() time.Duration { return l.deadline }

// SetSink installs the event sink. Must be called before Run when the sink
// could not be supplied at construction time.
func (l *Loop) SetSink(sink Sink) { l.sink = sink }

func (l *Loop) emit(e Event) {
	if l.sink != nil {
		l.sink(e)
	}
}

// Submit makes c the active candidate, superseding any previous one. The
// caller validates first; the loop only runs accepted candidates.
func (l *Loop) Submit(c *candidate.Candidate) {
	select {
	case l.submits <- submission{cand: c}:
	default:
		log.Printf("Submit: dropping candidate %q, submission queue full", c.Filename)
	}
}

// Clear resets the viewer: cancels any in-flight decode and releases the
// live preview. A reset supersedes every queued submission, so when the
// queue is full one pending submission is discarded to make room rather
// than dropping the reset.
func (l *Loop) Clear() {
	for {
		select {
		case l.submits <- submission{clear: true}:
			return
		case sub := <-l.submits:
			if sub.cand != nil {
				log.Printf("Clear: discarding queued candidate %q", sub.cand.Filename)
			}
		}
	}
}

// Run processes submissions and decode results until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.invalidate()
		l.pool.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub := <-l.submits:
			if sub.clear {
				l.handleClear()
			} else {
				l.handleSubmit(ctx, sub.cand)
			}
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

// invalidate bumps the generation, cancels the in-flight job context and
// releases the live preview. Returns the new generation.
func (l *Loop) invalidate() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.livePrev.Release()
	l.livePrev = nil
	return l.gen
}

func (l *Loop) currentGen() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

func (l *Loop) handleClear() {
	gen := l.invalidate()
	log.Printf("handleClear: viewer reset, generation now %d", gen)
	l.emit(Event{Kind: EventCleared, Gen: gen})
}

func (l *Loop) handleSubmit(ctx context.Context, c *candidate.Candidate) {
	gen := l.invalidate()
	log.Printf("handleSubmit: candidate %q (%d bytes) is generation %d", c.Filename, c.Size, gen)

	jobCtx, cancel := context.WithTimeout(ctx, l.deadline)
	l.mu.Lock()
	l.cancel = cancel
	l.mu.Unlock()

	l.emit(Event{Kind: EventAccepted, Gen: gen, Filename: c.Filename})

	opts := decode.Options{
		OnLoad: func(img image.Image) {
			l.results <- result{kind: resultPreview, gen: gen, preview: preview.FromImage(img, 0)}
		},
	}
	cb := func(out decode.Outcome, err error) {
		l.results <- result{kind: resultOutcome, gen: gen, outcome: out, err: err, cancel: cancel}
	}

	// Blocking is fine here: a superseded queued job has a dead context and
	// drains quickly, and new submissions keep buffering meanwhile.
	if !l.pool.SubmitWait(jobCtx, c, opts, cb) {
		cancel()
		log.Printf("handleSubmit: job for generation %d never queued: %v", gen, jobCtx.Err())
		// EventAccepted already went out; without an outcome the status
		// would stay stuck at "Decoding...".
		if errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
			l.emit(Event{Kind: EventOutcome, Gen: gen, Err: errors.New("decode timed out")})
		}
	}
}

func (l *Loop) handleResult(res result) {
	current := l.currentGen()
	stale := res.gen != current

	switch res.kind {
	case resultPreview:
		if stale {
			res.preview.Release()
			return
		}
		l.mu.Lock()
		l.livePrev.Release()
		l.livePrev = res.preview
		l.mu.Unlock()
		l.emit(Event{Kind: EventPreview, Gen: res.gen, Preview: res.preview})

	case resultOutcome:
		if res.cancel != nil {
			res.cancel()
		}
		if stale {
			log.Printf("handleResult: dropping stale outcome for generation %d (current %d)", res.gen, current)
			return
		}
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				log.Printf("handleResult: decode deadline exceeded for generation %d", res.gen)
				l.emit(Event{Kind: EventOutcome, Gen: res.gen, Err: errors.New("decode timed out")})
			}
			// A plain cancellation means this generation was superseded in
			// the instant before the counter moved; nothing to show.
			return
		}
		log.Printf("handleResult: generation %d finished with status=%v", res.gen, res.outcome.Status)
		l.emit(Event{Kind: EventOutcome, Gen: res.gen, Outcome: res.outcome})
	}
}
