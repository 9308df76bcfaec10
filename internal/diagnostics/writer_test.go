package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"reposter/internal/config"
	"reposter/internal/pipeline"
	"reposter/internal/services"
)

type memorySink struct {
	files map[string][]byte
	fail  string
}

func (m *memorySink) Write(_ context.Context, name string, data []byte) (string, error) {
	if m.fail != "" && strings.Contains(name, m.fail) {
		return "", errors.New("sink unavailable")
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = data
	return "mem://" + name, nil
}

func fixedWriter(sink Sink) *Writer {
	w := NewWriter(sink)
	w.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC) }
	return w
}

func sampleErrors() []pipeline.StageError {
	at := time.Date(2024, 3, 1, 12, 30, 4, 0, time.UTC)
	return []pipeline.StageError{
		{
			StageName:  "LoadArchivedPostDataFromDb",
			Inputs:     []any{[]string{"acct", "archivedPost", "7"}},
			Err:        services.Wrap(services.ErrNotFound, "LoadArchivedPostDataFromDb", "get", "no record", nil),
			OccurredAt: at,
		},
		{
			StageName:  "Republish",
			Inputs:     []any{map[string]string{"id": "9"}},
			Err:        errors.New("boom"),
			Stack:      []byte("goroutine 1 [running]:"),
			OccurredAt: at,
		},
	}
}

func TestReportWritesOneArtifactPerError(t *testing.T) {
	sink := &memorySink{}
	paths, err := fixedWriter(sink).Report(context.Background(), "run-1", sampleErrors())
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	want := []string{
		"mem://2024-03-01T12-30-05_run-1/001_LoadArchivedPostDataFromDb.json",
		"mem://2024-03-01T12-30-05_run-1/002_Republish.json",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	var artifact Artifact
	if err := json.Unmarshal(sink.files["2024-03-01T12-30-05_run-1/001_LoadArchivedPostDataFromDb.json"], &artifact); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if artifact.Kind != "not_found" || artifact.RunID != "run-1" || artifact.Stage != "LoadArchivedPostDataFromDb" {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	if len(artifact.Inputs) != 1 {
		t.Fatalf("expected inputs to be dumped, got %+v", artifact.Inputs)
	}

	var second Artifact
	if err := json.Unmarshal(sink.files["2024-03-01T12-30-05_run-1/002_Republish.json"], &second); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if second.Kind != "unclassified" || second.Stack == "" || second.Error != "boom" {
		t.Fatalf("unexpected artifact: %+v", second)
	}
}

func TestReportContinuesAfterSinkFailure(t *testing.T) {
	sink := &memorySink{fail: "001_"}
	paths, err := fixedWriter(sink).Report(context.Background(), "run-2", sampleErrors())
	if err == nil {
		t.Fatal("expected sink failure to be reported")
	}
	if len(paths) != 1 || !strings.HasSuffix(paths[0], "002_Republish.json") {
		t.Fatalf("expected the second artifact to be written, got %v", paths)
	}
}

func TestReportUnencodableInputs(t *testing.T) {
	sink := &memorySink{}
	errs := []pipeline.StageError{{
		StageName: "Tap",
		Inputs:    []any{make(chan int)},
		Err:       errors.New("bad"),
	}}
	paths, err := fixedWriter(sink).Report(context.Background(), "run-3", errs)
	if err != nil || len(paths) != 1 {
		t.Fatalf("expected fallback encoding, paths=%v err=%v", paths, err)
	}
}

func TestDirSinkWritesFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "diagnostics")
	w := fixedWriter(NewDirSink(root))

	paths, err := w.Report(context.Background(), "run-4", sampleErrors()[:1])
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	want := filepath.Join(root, "2024-03-01T12-30-05_run-4", "001_LoadArchivedPostDataFromDb.json")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("unexpected paths %v", paths)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
}

func TestDirSinkRejectsFileRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(root, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDirSink(root).Write(context.Background(), "a.json", []byte("{}")); err == nil {
		t.Fatal("expected error when root is a file")
	}
}

func TestSlugAndObjectURL(t *testing.T) {
	cases := map[string]string{
		"LimitByCount(3)":         "LimitByCount-3",
		"DelayStage(100 ms)":      "DelayStage-100-ms",
		"A -> B":                  "A-B",
		"":                        "stage",
		"InteractiveConfirmation": "InteractiveConfirmation",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
	if got := objectURL("bucket", "run/001.json"); got != "s3://bucket/run/001.json" {
		t.Fatalf("unexpected object url %q", got)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DiagnosticsDir = t.TempDir()
	w, err := Open(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := w.sink.(*DirSink); !ok {
		t.Fatalf("expected dir sink, got %T", w.sink)
	}

	cfg.Diagnostics.Backend = config.DiagnosticsMinIO
	cfg.Diagnostics.MinIOEndpoint = ""
	if _, err := Open(context.Background(), &cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	cfg.Diagnostics.Backend = "ftp"
	if _, err := Open(context.Background(), &cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
