package main

import (
	"context"
	"fmt"
	"time"

	"reposter/internal/pipeline"
	"reposter/internal/stages"
)

// runStage applies the configured stop-on-error policy, runs stage over
// inputs and turns any recorded stage error into a command failure.
func runStage[In, Out any](ctx context.Context, cc *commandContext, stage pipeline.Stage[In, Out], inputs []In) ([]Out, error) {
	cfg := cc.configValue()
	stage.SetStopOnError(cfg.Pipeline.StopOnError)

	opts, err := cc.runOptions(ctx)
	if err != nil {
		return nil, err
	}
	outputs := pipeline.Run(ctx, stage, inputs, opts)
	if errs := stage.Errors(); len(errs) > 0 {
		return outputs, stageFailure(errs)
	}
	return outputs, nil
}

func stageFailure(errs []pipeline.StageError) error {
	if len(errs) == 1 {
		return fmt.Errorf("pipeline recorded 1 error: %w", errs[0])
	}
	return fmt.Errorf("pipeline recorded %d errors, first: %w", len(errs), errs[0])
}

// paced appends the --limit cap and the configured inter-item delay to
// source. Either is skipped when unset.
func paced[In, Out any](cc *commandContext, source pipeline.Stage[In, Out]) pipeline.Stage[In, Out] {
	stage := source
	if n := cc.limit(); n > 0 {
		stage = pipeline.Chain[In, Out, Out](stage, stages.LimitByCount[Out](n))
	}
	if ms := cc.configValue().Pipeline.DelayMS; ms > 0 {
		stage = pipeline.Chain[In, Out, Out](stage, stages.Delay[Out](time.Duration(ms)*time.Millisecond))
	}
	return stage
}
