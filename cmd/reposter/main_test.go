package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reposter/internal/pipeline"
	"reposter/internal/services"
	"reposter/internal/testsupport"
)

func TestImportStoresArchive(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeArchive(t, env)

	out, _, err := runCLI(t, env, "", "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, `Stored 5 post(s) in partition "test"`)
}

func TestImportHonoursLimit(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeArchive(t, env)

	out, _, err := runCLI(t, env, "", "--limit", "2", "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Stored 2 post(s)")
}

func TestImportRejectsNegativeLimit(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeArchive(t, env)

	if _, _, err := runCLI(t, env, "", "--limit", "-1", "import", path); err == nil {
		t.Fatal("expected error for negative limit")
	}
}

func TestImportMalformedArchiveFailsAndWritesDiagnostics(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "broken.json")
	if err := os.WriteFile(path, []byte(`[{"id":"a","text":"kept"},{"text":"no id"}]`), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	out, _, err := runCLI(t, env, "", "import", path)
	if err == nil {
		t.Fatal("expected import to fail")
	}
	var stageErr pipeline.StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected a StageError, got %T: %v", err, err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	requireContains(t, out, "Stored 1 post(s)")

	artifacts, globErr := filepath.Glob(filepath.Join(env.cfg.Paths.DiagnosticsDir, "*", "*.json"))
	if globErr != nil {
		t.Fatalf("glob: %v", globErr)
	}
	if len(artifacts) == 0 {
		t.Fatal("expected a diagnostics artifact after the abort")
	}
}

func TestDedupFindListsGroups(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)

	out, _, err := runCLI(t, env, "", "dedup", "find")
	if err != nil {
		t.Fatalf("dedup find: %v", err)
	}
	requireContains(t, out, "so true")
	requireContains(t, out, `1 duplicate group(s) on axis "content"`)

	out, _, err = runCLI(t, env, "", "dedup", "find", "--axis", "content-folded")
	if err != nil {
		t.Fatalf("dedup find folded: %v", err)
	}
	requireContains(t, out, `2 duplicate group(s) on axis "content-folded"`)
}

func TestDedupFindRejectsUnknownAxis(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)

	_, _, err := runCLI(t, env, "", "dedup", "find", "--axis", "vibes")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDedupFindOnEmptyPartitionFails(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)

	_, _, err := runCLI(t, env, "", "--partition", "elsewhere", "dedup", "find")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDedupFindSaveWritesJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)

	if _, _, err := runCLI(t, env, "", "dedup", "find", "--save"); err != nil {
		t.Fatalf("dedup find --save: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "duplicates_content_*.jsonc"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one saved file, got %v", files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read saved groups: %v", err)
	}
	requireContains(t, string(data), `"key": "so true"`)
}

func TestDedupRecordThenFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)

	out, _, err := runCLI(t, env, "", "dedup", "find", "--record")
	if err != nil {
		t.Fatalf("dedup find --record: %v", err)
	}
	requireContains(t, out, "Recorded 1 duplicate(s)")

	out, _, err = runCLI(t, env, "", "dedup", "filter")
	if err != nil {
		t.Fatalf("dedup filter: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "d", "e"}, words(out)); diff != "" {
		t.Fatalf("drop ids mismatch (-want +got):\n%s", diff)
	}

	out, stderr, err := runCLI(t, env, "", "dedup", "filter", "--action", "keep")
	if err != nil {
		t.Fatalf("dedup filter keep: %v", err)
	}
	if diff := cmp.Diff([]string{"c"}, words(out)); diff != "" {
		t.Fatalf("keep ids mismatch (-want +got):\n%s", diff)
	}
	requireContains(t, stderr, "1 post(s) passed (keep)")
}

func TestDedupFilterWritesIDFile(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)
	target := filepath.Join(env.cfg.Paths.OutputDir, "unique.txt")

	if _, _, err := runCLI(t, env, "", "dedup", "filter", "--json", "--out", target); err != nil {
		t.Fatalf("dedup filter: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read id file: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, strings.Fields(string(data))); diff != "" {
		t.Fatalf("id file mismatch (-want +got):\n%s", diff)
	}
}

func TestDedupFilterRejectsUnknownAction(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "", "dedup", "filter", "--action", "maybe")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDedupForgetAsksForConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)
	if _, _, err := runCLI(t, env, "", "dedup", "find", "--record"); err != nil {
		t.Fatalf("dedup find --record: %v", err)
	}

	out, _, err := runCLI(t, env, "n\n", "dedup", "forget", "c")
	if err != nil {
		t.Fatalf("dedup forget (declined): %v", err)
	}
	requireContains(t, out, "Forget duplicate record for c")
	requireContains(t, out, "Forgot 0 duplicate record(s)")

	out, _, err = runCLI(t, env, "y\n", "dedup", "forget", "c")
	if err != nil {
		t.Fatalf("dedup forget (accepted): %v", err)
	}
	requireContains(t, out, "Forgot 1 duplicate record(s)")

	out, _, err = runCLI(t, env, "", "dedup", "filter", "--action", "keep")
	if err != nil {
		t.Fatalf("dedup filter keep: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no recorded duplicates, got %q", out)
	}
}

func TestDedupForgetYesCoversWholePartition(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)
	if _, _, err := runCLI(t, env, "", "dedup", "find", "--record", "--axis", "content-folded"); err != nil {
		t.Fatalf("dedup find --record: %v", err)
	}

	out, stderr, err := runCLI(t, env, "", "dedup", "forget", "--yes", "--axis", "content-folded")
	if err != nil {
		t.Fatalf("dedup forget --yes: %v", err)
	}
	requireContains(t, out, "Forgot 5 duplicate record(s)")
	requireContains(t, stderr, "forgot e")
}

func TestDedupForgetUnknownPostFails(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)

	_, _, err := runCLI(t, env, "", "dedup", "forget", "--yes", "zzz")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStopOnErrorFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	importArchive(t, env)

	out, _, err := runCLI(t, env, "", "--stop-on-error=false", "dedup", "forget", "--yes", "zzz", "a")
	if err == nil {
		t.Fatal("expected exit failure for the recorded error")
	}
	requireContains(t, out, "Forgot 1 duplicate record(s)")
}

func TestCheckCommandReportsReady(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, `Store backend "sqlite" ready; partition "test"`)
}

func TestPartitionFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithPartition("first"))
	path := writeArchive(t, env)

	out, _, err := runCLI(t, env, "", "--partition", "second", "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, `partition "second"`)
}
