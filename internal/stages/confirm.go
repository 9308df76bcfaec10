package stages

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"reposter/internal/logging"
	"reposter/internal/pipeline"
	"reposter/internal/services"
)

// Confirm asks a y/N question for every item and forwards the item only when
// the answer is yes. End of input counts as no. A file input that is not a
// terminal is refused so an unattended run never auto-answers.
func Confirm[T any](message func(T) string, in io.Reader, out io.Writer, logger *slog.Logger) *pipeline.Func[T, T] {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	logger = logging.NewComponentLogger(logger, "stages")
	reader := bufio.NewReader(in)

	return pipeline.New("InteractiveConfirmation", func(ctx context.Context, item T, emit pipeline.Sink[T]) error {
		if f, ok := in.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return services.Wrap(services.ErrValidation, "InteractiveConfirmation", "prompt",
				"confirmation requires an interactive terminal", nil)
		}

		if _, err := fmt.Fprintf(out, "%s [y/N] ", message(item)); err != nil {
			return err
		}
		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			logger.Info("user accepted; forwarding item")
			return emit.One(ctx, item)
		default:
			logger.Info("user rejected; dropping item")
			return nil
		}
	})
}
