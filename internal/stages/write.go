package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"reposter/internal/fileutil"
	"reposter/internal/logging"
	"reposter/internal/pipeline"
	"reposter/internal/textutil"
)

const filenameTimestamp = "2006-01-02T15-04-05.000"

// WriteJSON writes each item to <dir>/<prefix>_<timestamp>.jsonc as indented
// JSON and forwards it. Unsafe characters in prefix are replaced.
func WriteJSON[T any](dir, prefix string, logger *slog.Logger) *pipeline.Func[T, T] {
	logger = logging.NewComponentLogger(logger, "stages")
	prefix = textutil.SanitizeFileName(prefix)
	now := time.Now
	return Tap("WriteJsonToFile", func(_ context.Context, in T) error {
		data, err := json.MarshalIndent(in, "", "  ")
		if err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.jsonc", prefix, now().UTC().Format(filenameTimestamp)))
		if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("json written", logging.String("path", path))
		return nil
	})
}

// WriteLines appends line(item) to the file at path and forwards the item.
func WriteLines[T any](path string, line func(T) string) *pipeline.Func[T, T] {
	return Tap("WriteLinesToFile", func(_ context.Context, in T) error {
		return fileutil.AppendLine(path, line(in))
	})
}
