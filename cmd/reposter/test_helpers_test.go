package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reposter/internal/config"
	"reposter/internal/posts"
	"reposter/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)

	configPath := filepath.Join(base, "config.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if env != nil {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeArchive writes the shared fixture: b and c share text, d and e differ
// only by case.
func writeArchive(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	date := time.Date(2022, 11, 5, 10, 0, 0, 0, time.UTC)
	archive := []posts.ArchivedPost{
		{ID: "a", OriginalDate: date, Text: "hello", Visibility: posts.VisibilityPublic},
		{ID: "b", OriginalDate: date, Text: "so true", Visibility: posts.VisibilityPublic},
		{ID: "c", OriginalDate: date, Text: "so true", Visibility: posts.VisibilityPublic},
		{ID: "d", OriginalDate: date, Text: "YEAH", Visibility: posts.VisibilityPublic},
		{ID: "e", OriginalDate: date, Text: "yeah", Visibility: posts.VisibilityPublic},
	}
	path := filepath.Join(env.baseDir, "outbox.json")
	testsupport.WriteJSON(t, path, archive)
	return path
}

func importArchive(t *testing.T, env *cliTestEnv) {
	t.Helper()
	path := writeArchive(t, env)
	if _, _, err := runCLI(t, env, "", "import", path); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func words(s string) []string {
	return strings.Fields(s)
}
