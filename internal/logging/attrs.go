package logging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reposter/internal/services"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error records err under "error". A nil error yields an empty attr, which
// slog drops.
func Error(err error) Attr {
	if err == nil {
		return Attr{}
	}
	return slog.Any(FieldError, err)
}

// Args converts attributes into the variadic form accepted by slog.Logger methods.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with component. A nil logger becomes a no-op.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning carrying event_type, error_hint and impact.
// Caller-supplied values win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, "rerun with logging.level = \"debug\" for item details"),
		String(FieldImpact, "the run continued with fewer items"),
	)
	logger.Warn(msg, Args(withErrorKind(attrs)...)...)
}

// ErrorWithContext logs an error carrying event_type and error_hint. When an
// error attr is present its marker classification is added as error_kind.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, "inspect the diagnostics artifacts for the failing inputs"),
	)
	logger.Error(msg, Args(withErrorKind(attrs)...)...)
}

func withDefaults(attrs []Attr, defaults ...Attr) []Attr {
	for _, d := range defaults {
		if !hasKey(attrs, d.Key) {
			attrs = append(attrs, d)
		}
	}
	return attrs
}

func withErrorKind(attrs []Attr) []Attr {
	if hasKey(attrs, FieldErrorKind) {
		return attrs
	}
	for _, a := range attrs {
		if a.Key != FieldError {
			continue
		}
		if err, ok := a.Value.Any().(error); ok && !errors.Is(err, context.Canceled) {
			return append(attrs, String(FieldErrorKind, services.Classify(err)))
		}
	}
	return attrs
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h NoopHandler) WithGroup(string) slog.Handler { return h }
