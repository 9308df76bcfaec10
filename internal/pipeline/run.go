package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reposter/internal/logging"
	"reposter/internal/services"
)

// Reporter persists one diagnostic artifact per recorded error and returns
// their locations.
type Reporter interface {
	Report(ctx context.Context, runID string, errs []StageError) ([]string, error)
}

// Options controls a single Run. The zero value is usable.
type Options struct {
	Logger   *slog.Logger
	Reporter Reporter
	// RunID names the run in logs and diagnostics; a UUID is generated when empty.
	RunID string
}

// Run pushes inputs through stage and returns every item the stage emitted.
// Run never fails: when the stage aborts, the items accumulated before the
// abort are returned and the recorded errors are handed to opts.Reporter.
func Run[In, Out any](ctx context.Context, stage Stage[In, Out], inputs []In, opts Options) []Out {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "pipeline"))
	if aware, ok := stage.(LoggerAware); ok {
		aware.SetLogger(logger)
	}

	logger.Info("pipeline started",
		logging.String(logging.FieldEventType, "pipeline_start"),
		logging.String("stages", stage.Name()),
		logging.Int("inputs", len(inputs)),
	)
	started := time.Now()

	var outputs []Out
	err := stage.Process(ctx, inputs, func(_ context.Context, items []Out) error {
		outputs = append(outputs, items...)
		return nil
	})

	if err == nil {
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "pipeline_complete"),
			logging.Int("outputs", len(outputs)),
			logging.Duration("elapsed", time.Since(started)),
		}
		if n := len(stage.Errors()); n > 0 {
			attrs = append(attrs, logging.Int("errors", n))
			logging.WarnWithContext(logger, "pipeline completed with item errors", "pipeline_complete",
				append(attrs, logging.String(logging.FieldImpact, "failed items produced no output"))...)
			return outputs
		}
		logger.Info("pipeline completed", logging.Args(attrs...)...)
		return outputs
	}

	errs := stage.Errors()
	logging.ErrorWithContext(logger, "pipeline aborted", "pipeline_aborted",
		logging.Error(err),
		logging.Bool("aborted", errors.Is(err, ErrAborted)),
		logging.Int("outputs", len(outputs)),
		logging.Int("errors", len(errs)),
	)
	reportErrors(ctx, logger, opts.Reporter, runID, errs)
	return outputs
}

func reportErrors(ctx context.Context, logger *slog.Logger, reporter Reporter, runID string, errs []StageError) {
	if reporter == nil {
		for _, stageErr := range errs {
			logger.Error("error in "+stageErr.StageName,
				logging.Error(stageErr.Err),
				logging.Any("inputs", stageErr.Inputs),
			)
		}
		return
	}
	paths, err := reporter.Report(ctx, runID, errs)
	for _, path := range paths {
		logger.Info("diagnostic written", logging.String("path", path))
	}
	if err != nil {
		logging.WarnWithContext(logger, "failed to write diagnostics", "diagnostics_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "some stage errors have no diagnostic artifact"),
		)
	}
}
