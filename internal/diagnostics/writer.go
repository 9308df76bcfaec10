package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"reposter/internal/config"
	"reposter/internal/pipeline"
	"reposter/internal/services"
)

const runDirTimestamp = "2006-01-02T15-04-05"

// Artifact is the JSON document written for one stage error.
type Artifact struct {
	RunID      string    `json:"run_id"`
	Stage      string    `json:"stage"`
	Kind       string    `json:"kind"`
	Error      string    `json:"error"`
	Stack      string    `json:"stack,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Inputs     []any     `json:"inputs"`
}

// Writer turns stage errors into artifacts on a Sink.
type Writer struct {
	sink Sink
	now  func() time.Time
}

var _ pipeline.Reporter = (*Writer)(nil)

func NewWriter(sink Sink) *Writer {
	return &Writer{sink: sink, now: time.Now}
}

// Open builds a Writer for the backend named in cfg.Diagnostics.
func Open(ctx context.Context, cfg *config.Config) (*Writer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Diagnostics.Backend)) {
	case "", config.DiagnosticsDir:
		return NewWriter(NewDirSink(cfg.Paths.DiagnosticsDir)), nil
	case config.DiagnosticsMinIO:
		sink, err := NewMinIOSink(ctx, cfg.Diagnostics)
		if err != nil {
			return nil, err
		}
		return NewWriter(sink), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "diagnostics", "open",
			fmt.Sprintf("unknown diagnostics backend %q", cfg.Diagnostics.Backend), nil)
	}
}

// Report writes every error and returns the locations that succeeded. A
// failed write does not stop the remaining ones.
func (w *Writer) Report(ctx context.Context, runID string, errs []pipeline.StageError) ([]string, error) {
	if len(errs) == 0 {
		return nil, nil
	}
	dir := RunDir(w.now(), runID)

	var (
		paths    []string
		failures []error
	)
	for i, stageErr := range errs {
		data, err := encodeArtifact(runID, stageErr)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		name := path.Join(dir, fmt.Sprintf("%03d_%s.json", i+1, slug(stageErr.StageName)))
		location, err := w.sink.Write(ctx, name, data)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		paths = append(paths, location)
	}
	return paths, errors.Join(failures...)
}

// RunDir names the directory that groups the artifacts of one run.
func RunDir(at time.Time, runID string) string {
	return at.UTC().Format(runDirTimestamp) + "_" + runID
}

func encodeArtifact(runID string, stageErr pipeline.StageError) ([]byte, error) {
	artifact := Artifact{
		RunID:      runID,
		Stage:      stageErr.StageName,
		Kind:       services.Classify(stageErr.Err),
		Error:      fmt.Sprint(stageErr.Err),
		Stack:      string(stageErr.Stack),
		OccurredAt: stageErr.OccurredAt,
		Inputs:     stageErr.Inputs,
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err == nil {
		return data, nil
	}

	// Inputs that cannot be encoded are kept as their Go representation.
	artifact.Inputs = make([]any, len(stageErr.Inputs))
	for i, input := range stageErr.Inputs {
		artifact.Inputs[i] = fmt.Sprintf("%+v", input)
	}
	data, err = json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode diagnostic for %s: %w", stageErr.StageName, err)
	}
	return data, nil
}

func slug(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "stage"
	}
	return out
}
