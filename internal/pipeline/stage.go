package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"reposter/internal/logging"
	"reposter/internal/services"
)

// ErrAborted marks the error returned by Process when a stage with
// stop-on-error set hit a failing item.
var ErrAborted = errors.New("pipeline aborted")

// Sink receives the items a stage produced for a single input.
type Sink[T any] func(ctx context.Context, items []T) error

// One emits a single item.
func (s Sink[T]) One(ctx context.Context, item T) error {
	return s(ctx, []T{item})
}

// Stage is the contract shared by single stages and chains.
type Stage[In, Out any] interface {
	Name() string
	Process(ctx context.Context, inputs []In, sink Sink[Out]) error
	// Errors returns every failure recorded so far, in the order they happened.
	Errors() []StageError
	SetStopOnError(stop bool)
}

// LoggerAware stages accept a logger from the driver.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}

// Transform handles exactly one input and emits its outputs through emit.
type Transform[In, Out any] func(ctx context.Context, input In, emit Sink[Out]) error

// StageError records one failed input. It is never modified after creation.
type StageError struct {
	StageName string
	Inputs    []any
	Err       error
	// Stack is set when the transform panicked.
	Stack      []byte
	OccurredAt time.Time
}

func (e StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.StageName, e.Err)
}

func (e StageError) Unwrap() error {
	return e.Err
}

// Func is a Stage built from a per-item Transform.
type Func[In, Out any] struct {
	name        string
	transform   Transform[In, Out]
	stopOnError bool
	errors      []StageError
	logger      *slog.Logger
}

// New returns a stage named name. Stop-on-error starts enabled.
func New[In, Out any](name string, transform Transform[In, Out]) *Func[In, Out] {
	return &Func[In, Out]{
		name:        name,
		transform:   transform,
		stopOnError: true,
		logger:      logging.NewNop(),
	}
}

func (s *Func[In, Out]) Name() string { return s.name }

func (s *Func[In, Out]) StopOnError() bool { return s.stopOnError }

func (s *Func[In, Out]) SetStopOnError(stop bool) { s.stopOnError = stop }

func (s *Func[In, Out]) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = logging.NewNop()
	}
	s.logger = logger
}

func (s *Func[In, Out]) Errors() []StageError {
	out := make([]StageError, len(s.errors))
	copy(out, s.errors)
	return out
}

// Process runs the transform over inputs one item at a time.
func (s *Func[In, Out]) Process(ctx context.Context, inputs []In, sink Sink[Out]) error {
	stageCtx := services.WithStage(ctx, s.name)
	for _, input := range inputs {
		stack, err := s.processOne(stageCtx, input, sink)
		if err == nil {
			continue
		}
		// A downstream abort is already recorded where it happened.
		if errors.Is(err, ErrAborted) {
			return err
		}

		stageErr := StageError{
			StageName:  s.name,
			Inputs:     []any{input},
			Err:        err,
			Stack:      stack,
			OccurredAt: time.Now().UTC(),
		}
		s.errors = append(s.errors, stageErr)

		logger := logging.WithContext(stageCtx, s.logger)
		if s.stopOnError {
			logging.ErrorWithContext(logger, "item failed; aborting stage", "stage_item_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the diagnostics for this run, or rerun without stop-on-error"),
			)
			return fmt.Errorf("%w: encountered error in %s while processing, and stop-on-error is set: %w", ErrAborted, s.name, stageErr)
		}
		logging.WarnWithContext(logger, "item failed; continuing", "stage_item_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "item produced no output"),
		)
	}
	return nil
}

func (s *Func[In, Out]) processOne(ctx context.Context, input In, sink Sink[Out]) (stack []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			stack = debug.Stack()
		}
	}()
	return nil, s.transform(ctx, input, sink)
}
