package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	consoleTimeLayout = "2006-01-02 15:04:05"
	shortRunIDLen     = 8
)

// consoleHandler writes one human readable line per record:
//
//	2024-05-01 10:00:00 INF [pipeline/ReadArchive] stage started inputs=1 run=1f0c2a9e
//
// Component and stage move into the bracketed subject; run_id is shortened
// and printed last.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	prefix    string
	preset    []field
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, len(h.preset)+r.NumAttrs())
	fields = append(fields, h.preset...)
	r.Attrs(func(a slog.Attr) bool {
		fields = collect(fields, h.prefix, a)
		return true
	})

	var component, stage, runID string
	rest := fields[:0:0]
	for _, f := range fields {
		switch {
		case f.key == FieldComponent && component == "":
			component = plain(f.value)
		case f.key == FieldStage && stage == "":
			stage = plain(f.value)
		case f.key == FieldRunID && runID == "":
			runID = plain(f.value)
		default:
			rest = append(rest, f)
		}
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(ts.Local().Format(consoleTimeLayout))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	if subject := joinNonEmpty("/", component, stage); subject != "" {
		b.WriteString(" [")
		b.WriteString(subject)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	if msg := strings.TrimSpace(r.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("-")
	}
	for _, f := range rest {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(quoted(f.value))
	}
	if runID != "" {
		if len(runID) > shortRunIDLen {
			runID = runID[:shortRunIDLen]
		}
		b.WriteString(" run=")
		b.WriteString(runID)
	}
	if h.addSource {
		src := r.Source()
		if src != nil && src.File != "" {
			b.WriteString(" @")
			b.WriteString(shortSource(src))
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = append([]field(nil), h.preset...)
	for _, a := range attrs {
		next.preset = collect(next.preset, h.prefix, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// collect flattens a, naming group members "group.key".
func collect(dst []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, member := range a.Value.Group() {
			dst = collect(dst, inner, member)
		}
		return dst
	}
	return append(dst, field{key: prefix + a.Key, value: a.Value})
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERR"
	case level >= slog.LevelWarn:
		return "WRN"
	case level >= slog.LevelInfo:
		return "INF"
	default:
		return "DBG"
	}
}

func plain(v slog.Value) string {
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return render(v)
}

func render(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().Local().Format(consoleTimeLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoted(v slog.Value) string {
	s := render(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
