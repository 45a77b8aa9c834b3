// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

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

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Handler.
type Options struct {
	// Level is the minimum level written. Default: info.
	Level slog.Leveler

	// NoColor forces plain level tags even on a terminal.
	NoColor bool

	// Time prefixes each line with a timestamp. Used for log files.
	Time bool
}

// =============================================================================
// HANDLER
// =============================================================================

// Handler is a slog.Handler writing "[LEVEL]: msg k=v" lines.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   Options
	attrs  string
	prefix string

	debug, info, warn, errs lipgloss.Style
}

// NewHandler returns a Handler writing to w. Colour support is detected
// from w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	h := &Handler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}

	r := lipgloss.NewRenderer(w)
	if h.opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	h.debug = r.NewStyle().Foreground(lipgloss.Color("245"))
	h.info = r.NewStyle().Foreground(lipgloss.Color("39"))
	h.warn = r.NewStyle().Foreground(lipgloss.Color("214"))
	h.errs = r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	return h
}

// Enabled reports whether level is at or above the configured minimum.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle writes one record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	if h.opts.Time && !r.Time.IsZero() {
		sb.WriteString(r.Time.Format(time.DateTime))
		sb.WriteByte(' ')
	}
	sb.WriteString(h.tag(r.Level))
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&sb, h.prefix, a)
	}
	c.attrs = sb.String()
	return &c
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

func (h *Handler) tag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.errs.Render("[ERROR]")
	case level >= slog.LevelWarn:
		return h.warn.Render("[WARNING]")
	case level >= slog.LevelInfo:
		return h.info.Render("[INFO]")
	default:
		return h.debug.Render("[DEBUG]")
	}
}

func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			appendAttr(sb, p, g)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		return v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
