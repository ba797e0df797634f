// Package session sequences edit operations against an undo history.
//
// A Session owns exactly one History and allows at most one transform in
// flight at a time; a request issued while another is running is rejected
// with edit.ErrBusy instead of being queued or interleaved. Transforms are
// all-or-nothing: either the new snapshot is pushed, or the session stays in
// its pre-call state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Fepozopo/pixedit/pkg/edit"
	"github.com/Fepozopo/pixedit/pkg/metrics"
)

// Classifier maps free text to an edit operation. Implementations live
// outside this module; the session never parses text itself.
type Classifier interface {
	Classify(ctx context.Context, text string) (edit.Operation, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, text string) (edit.Operation, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, text string) (edit.Operation, error) {
	return f(ctx, text)
}

// State is the lifecycle state of a session.
type State int

const (
	StateEmpty  State = iota // no image loaded
	StateSeeded              // only the loaded image is in the history
	StateEdited              // at least one edit on top of the loaded image
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSeeded:
		return "seeded"
	case StateEdited:
		return "edited"
	default:
		return "unknown"
	}
}

// Outcome is delivered by ApplyAsync and Submit.
type Outcome struct {
	Result *edit.Result
	Err    error
}

// ErrNoClassifier is returned by Command when the session has no classifier.
var ErrNoClassifier = errors.New("no classifier configured")

// Session is one editing context.
type Session struct {
	engine     *edit.Engine
	classifier Classifier
	logger     *slog.Logger

	processing atomic.Bool

	mu        sync.Mutex
	history   *History
	lastError error
}

// Option configures a Session.
type Option func(*Session)

// WithClassifier injects the text classifier used by Command.
func WithClassifier(c Classifier) Option {
	return func(s *Session) { s.classifier = c }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistoryLimit caps the number of snapshots kept; 0 means unlimited.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.history = NewHistory(n) }
}

// New returns an empty session applying edits with engine.
func New(engine *edit.Engine, opts ...Option) *Session {
	if engine == nil {
		engine = edit.NewEngine()
	}
	s := &Session{
		engine:  engine,
		logger:  slog.Default(),
		history: NewHistory(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin claims the processing flag or reports ErrBusy.
func (s *Session) begin(op edit.Kind) error {
	if !s.processing.CompareAndSwap(false, true) {
		metrics.BusyRejectionsTotal.Inc()
		return edit.NewBusyError(op)
	}
	metrics.SessionsProcessing.Inc()
	return nil
}

func (s *Session) end() {
	metrics.SessionsProcessing.Dec()
	s.processing.Store(false)
}

// Load seeds the session with img, discarding any previous history.
func (s *Session) Load(img *edit.PixelBuffer) error {
	if err := img.Validate(); err != nil {
		return err
	}
	if err := s.begin(edit.KindUnknown); err != nil {
		return err
	}
	defer s.end()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Load(img)
	s.lastError = nil
	s.logger.Debug("image loaded", "width", img.Width(), "height", img.Height())
	return nil
}

// Apply runs op synchronously against the current image. On success the new
// image is pushed to the history. On failure the history is unchanged and the
// error is also available from LastError. For edit.ErrResourceExhausted the
// Result still carries the unchanged current image and an advisory.
//
// If ctx is done by the time the transform finishes, the result is discarded
// and ctx.Err() is returned.
func (s *Session) Apply(ctx context.Context, op edit.Operation) (*edit.Result, error) {
	if err := s.begin(edit.KindOf(op)); err != nil {
		s.setLastError(err)
		return nil, err
	}
	defer s.end()
	return s.run(ctx, op)
}

// ApplyAsync runs op on a background goroutine. The processing flag is
// claimed before ApplyAsync returns, so a second request issued right after
// is rejected with edit.ErrBusy. The returned channel receives exactly one
// Outcome and is then closed; callers may ignore it.
func (s *Session) ApplyAsync(ctx context.Context, op edit.Operation) <-chan Outcome {
	ch := make(chan Outcome, 1)
	if err := s.begin(edit.KindOf(op)); err != nil {
		s.setLastError(err)
		ch <- Outcome{Err: err}
		close(ch)
		return ch
	}
	go func() {
		res, err := s.run(ctx, op)
		s.end()
		ch <- Outcome{Result: res, Err: err}
		close(ch)
	}()
	return ch
}

// Submit applies cheap operations on the caller's goroutine and expensive
// ones (see edit.Expensive) in the background. Either way the outcome is
// delivered on the returned channel.
func (s *Session) Submit(ctx context.Context, op edit.Operation) <-chan Outcome {
	if edit.Expensive(op) {
		return s.ApplyAsync(ctx, op)
	}
	ch := make(chan Outcome, 1)
	res, err := s.Apply(ctx, op)
	ch <- Outcome{Result: res, Err: err}
	close(ch)
	return ch
}

// Command classifies text with the injected Classifier and applies the result.
func (s *Session) Command(ctx context.Context, text string) (*edit.Result, error) {
	if s.classifier == nil {
		s.setLastError(ErrNoClassifier)
		return nil, ErrNoClassifier
	}
	if ctx == nil {
		ctx = context.Background()
	}
	op, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.setLastError(err)
		return nil, err
	}
	return s.Apply(ctx, op)
}

func (s *Session) run(ctx context.Context, op edit.Operation) (*edit.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	kind := edit.KindOf(op)
	cur := s.Current()
	if cur == nil {
		err := edit.NewInvalidImageError(kind, "no image loaded")
		s.setLastError(err)
		return nil, err
	}

	res, err := s.engine.Apply(ctx, cur, op)
	if err == nil && ctx.Err() != nil {
		// the caller gave up; keep the pre-call state
		res, err = nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err
		s.logger.Warn("edit failed", "op", kind.String(), "error", err, "history_len", s.history.Len())
		return res, err
	}
	s.history.Push(res.Image)
	s.lastError = nil
	s.logger.Debug("edit committed", "op", kind.String(), "description", res.Description, "history_len", s.history.Len())
	return res, nil
}

// Undo reverts to the previous snapshot. It reports false, without error,
// when only the loaded image remains. Undo is rejected with edit.ErrBusy
// while a transform is in flight.
func (s *Session) Undo() (bool, error) {
	if err := s.begin(edit.KindUnknown); err != nil {
		return false, err
	}
	defer s.end()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.history.Undo() {
		return false, nil
	}
	metrics.UndoTotal.Inc()
	s.logger.Debug("undo", "history_len", s.history.Len())
	return true, nil
}

// Current returns the current image, or nil before the first Load.
func (s *Session) Current() *edit.PixelBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// Len returns the number of snapshots in the history.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// State reports the lifecycle state derived from the history length.
func (s *Session) State() State {
	switch n := s.Len(); {
	case n == 0:
		return StateEmpty
	case n == 1:
		return StateSeeded
	default:
		return StateEdited
	}
}

// Processing reports whether a transform is in flight.
func (s *Session) Processing() bool {
	return s.processing.Load()
}

// LastError returns the error of the most recent failed request, or nil if
// the most recent request succeeded.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Session) setLastError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()
}
