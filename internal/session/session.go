// Package session runs one puzzle session as a single goroutine that owns a
// Dispatcher. All input, generation results and timer events reach the
// Dispatcher through one unbuffered channel, so they are handled strictly
// one after another.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/render"
)

// ErrClosed is returned when talking to a closed session.
var ErrClosed = errors.New("session closed")

// DefaultGenerateTimeout bounds one generation request.
const DefaultGenerateTimeout = 30 * time.Second

// Generator produces validated puzzles.
type Generator interface {
	Generate(ctx context.Context, size int) (*puzzle.Puzzle, error)
}

// Options configure a Session.
type Options struct {
	Dispatch        dispatch.Options
	GenerateTimeout time.Duration
}

type inspectReq struct {
	fn   func(*render.Frame)
	done chan struct{}
}

// Session is a running puzzle session.
type Session struct {
	id      string
	gen     Generator
	timeout time.Duration
	sink    dispatch.Sink

	events  chan dispatch.Event
	inspect chan inspectReq
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// Used only by the run goroutine.
	frame *render.Frame
	d     *dispatch.Dispatcher

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a session. Directives are applied to the session frame and
// then forwarded to sink, which may be nil.
func New(id string, gen Generator, sink dispatch.Sink, opts Options) *Session {
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = DefaultGenerateTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:      id,
		gen:     gen,
		timeout: opts.GenerateTimeout,
		sink:    sink,
		events:  make(chan dispatch.Event),
		inspect: make(chan inspectReq),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frame:   render.NewFrame(),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.d = dispatch.New(effects{s}, dispatch.SinkFunc(s.emit), opts.Dispatch)
	sessionsActive.Inc()
	go s.run()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) run() {
	defer close(s.stopped)
	for {
		select {
		case ev := <-s.events:
			eventsTotal.WithLabelValues(ev.Name()).Inc()
			s.d.Handle(ev)
			if a, ok := ev.(dispatch.ConfirmAnswered); ok {
				s.frame.ResolveGate(a.Token)
			}
		case req := <-s.inspect:
			req.fn(s.frame)
			close(req.done)
		case <-s.done:
			return
		}
	}
}

func (s *Session) emit(d dispatch.Directive) {
	s.frame.Apply(d)
	if s.sink != nil {
		s.sink.Emit(d)
	}
}

// Send hands one event to the session and returns once the session has
// accepted it.
func (s *Session) Send(ctx context.Context, ev dispatch.Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post delivers an internally produced event, giving up if the session closes.
func (s *Session) post(ev dispatch.Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Inspect runs fn on the session goroutine between two events. fn must not
// call back into the session.
func (s *Session) Inspect(ctx context.Context, fn func(*render.Frame)) error {
	req := inspectReq{fn: fn, done: make(chan struct{})}
	select {
	case s.inspect <- req:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-req.done
	return nil
}

// Snapshot returns the current frame state.
func (s *Session) Snapshot(ctx context.Context) (render.State, error) {
	var st render.State
	err := s.Inspect(ctx, func(f *render.Frame) { st = f.Snapshot() })
	return st, err
}

// Close stops the session and waits for its goroutine to exit. Generation
// in flight is cancelled. Close is idempotent.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
		<-s.stopped
		sessionsActive.Dec()
		log.Debug().Str("session", s.id).Msg("session closed")
	})
}

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} { return s.done }

type effects struct{ s *Session }

func (e effects) StartGeneration(seq uint64, size int) {
	s := e.s
	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		start := time.Now()
		p, err := s.gen.Generate(ctx, size)
		generateDuration.Observe(time.Since(start).Seconds())
		if err == nil && p == nil {
			err = errors.New("generator returned no puzzle")
		}
		if err != nil {
			generationsTotal.WithLabelValues("error").Inc()
			log.Warn().Err(err).Str("session", s.id).Int("size", size).Msg("puzzle generation failed")
		} else {
			generationsTotal.WithLabelValues("ok").Inc()
			log.Info().Str("session", s.id).Int("size", size).Int("words", len(p.Words())).Msg("puzzle generated")
		}
		s.post(dispatch.GenerationFinished{Seq: seq, Puzzle: p, Err: err})
	}()
}

func (e effects) Schedule(d time.Duration, ev dispatch.Event) {
	s := e.s
	time.AfterFunc(d, func() { s.post(ev) })
}
