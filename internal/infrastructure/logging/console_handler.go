package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// ConsoleHandler is a slog.Handler that writes Maven-style lines:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value key=value
//
// Colors are enabled only when the writer is a terminal. Handlers
// derived via WithAttrs/WithGroup share the writer and its mutex.
type ConsoleHandler struct {
	w          io.Writer
	mu         *sync.Mutex
	level      slog.Level
	system     string
	timestamps bool
	colors     bool
	prefix     string // joined group names, dot-terminated
	attrs      []slog.Attr
}

// NewConsoleHandler creates a console handler writing to w
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		w:          w,
		mu:         &sync.Mutex{},
		level:      slog.LevelInfo,
		timestamps: true,
		colors:     isTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level.Level()
	}
	return h
}

// isTerminal checks if the writer is a terminal (for color output)
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 128)

	buf = h.colorize(buf, levelColor(r.Level), "["+r.Level.String()+"]")
	if h.system != "" {
		buf = append(buf, " ["...)
		buf = append(buf, h.system...)
		buf = append(buf, ']')
	}
	if h.timestamps {
		buf = h.colorize(buf, colorGray, " ["+r.Time.Format("15:04:05")+"]")
	}

	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, attr := range h.attrs {
		buf = h.appendAttr(buf, attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a)
		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// appendAttr writes one key=value pair. The system attr is skipped
// since it already appears in brackets; values with spaces are quoted.
func (h *ConsoleHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Key == "system" || a.Equal(slog.Attr{}) {
		return buf
	}

	val := fmt.Sprint(a.Value.Resolve().Any())
	if strings.ContainsAny(val, " =\"") {
		val = strconv.Quote(val)
	}

	buf = append(buf, ' ')
	buf = append(buf, h.prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	buf = append(buf, val...)
	return buf
}

// WithAttrs returns a new handler with the given attributes added
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h

	// A "system" attr moves into the bracket prefix instead
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		if attr.Key == "system" {
			clone.system = attr.Value.String()
			continue
		}
		clone.attrs = append(clone.attrs, attr)
	}

	return &clone
}

// WithGroup returns a new handler that prefixes attribute keys with the
// group name
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// colorize wraps s in the given color when colors are enabled
func (h *ConsoleHandler) colorize(buf []byte, color, s string) []byte {
	if !h.colors {
		return append(buf, s...)
	}
	buf = append(buf, color...)
	buf = append(buf, s...)
	buf = append(buf, colorReset...)
	return buf
}

// levelColor returns the ANSI color for a log level
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorCyan
	default:
		return colorGray
	}
}
