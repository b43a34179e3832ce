// Package terminal renders the live counter to a text terminal.
package terminal

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/model"
)

// ANSI control sequences.
const (
	clearScreen = "\x1b[H\x1b[2J"
	bold        = "\x1b[1m"
	reverse     = "\x1b[7m"
	green       = "\x1b[32m"
	red         = "\x1b[31m"
	reset       = "\x1b[0m"
	bell        = "\a"
)

// Option applies a configuration option to the Terminal.
type Option func(*Terminal)

// WithANSI redraws the whole view with escape sequences after every change.
// Without it the terminal appends one plain line per event, which suits pipes.
func WithANSI(enabled bool) Option {
	return func(t *Terminal) {
		t.ansi = enabled
	}
}

// WithTitle sets the header shown above the count.
func WithTitle(title string) Option {
	return func(t *Terminal) {
		t.title = title
	}
}

// Terminal is a presentation sink and notifier writing to out.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	ansi  bool
	title string

	count   string
	invalid bool
	rows    []history.Row // head first
	notice  string
}

// New creates a terminal sink.
func New(out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{out: out, count: "--", title: "janus"}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetCount prints the new count, marked when invalid.
func (t *Terminal) SetCount(_ context.Context, snap model.Snapshot, invalid bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count = "--"
	if snap.Set {
		t.count = fmt.Sprintf("%d", snap.Value)
	}
	t.invalid = invalid
	if t.ansi {
		t.redraw()
		return
	}
	t.printf("count %s%s\n", t.count, invalidMark(invalid))
}

// RenderRecord adds the row to the head of the table and redraws it.
func (t *Terminal) RenderRecord(_ context.Context, row history.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append([]history.Row{row}, t.rows...)
	if t.ansi {
		t.redraw()
		return
	}
	t.printf("%s\n", plainRow(row))
}

// EvictRecord drops the row from the table and redraws it.
func (t *Terminal) EvictRecord(_ context.Context, row history.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = slices.DeleteFunc(t.rows, func(r history.Row) bool {
		return r.Elements[0].ID == row.Elements[0].ID
	})
	if t.ansi {
		t.redraw()
	}
}

// ClearHighlight drops the highlight from the matching cell and redraws.
func (t *Terminal) ClearHighlight(_ context.Context, el history.Element) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		for j := range t.rows[i].Elements {
			if t.rows[i].Elements[j].ID == el.ID {
				t.rows[i].Elements[j] = el
			}
		}
	}
	if t.ansi {
		t.redraw()
	}
}

// PlayAlert rings the terminal bell.
func (t *Terminal) PlayAlert(context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.printf("%s", bell)
}

// Notify prints a one line notice.
func (t *Terminal) Notify(_ context.Context, n model.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notice = n.Message
	if t.ansi {
		t.redraw()
		return
	}
	t.printf("! %s\n", n.Message)
}

// redraw repaints the whole view. Callers hold mu.
func (t *Terminal) redraw() {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "%s%s%s\n\n", bold, t.title, reset)
	if t.invalid {
		fmt.Fprintf(&b, "  %s%s %s %s\n\n", reverse, red, t.count, reset)
	} else {
		fmt.Fprintf(&b, "  %s%s%s\n\n", bold, t.count, reset)
	}
	for _, row := range t.rows {
		b.WriteString("  ")
		for i, el := range row.Elements {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(styled(el))
		}
		b.WriteString("\n")
	}
	if t.notice != "" {
		fmt.Fprintf(&b, "\n%s! %s%s\n", red, t.notice, reset)
	}
	b.WriteString("\n[+] up  [-] down  [m] mute  [q] quit\n")
	t.printf("%s", b.String())
}

func (t *Terminal) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.out, format, args...)
}

func styled(el history.Element) string {
	var prefix string
	switch {
	case el.Has(history.ClassPositive):
		prefix = green
	case el.Has(history.ClassNegative):
		prefix = red
	}
	if el.Has(history.ClassOwn) || el.Has(history.ClassNew) {
		prefix += bold
	}
	if prefix == "" {
		return fmt.Sprintf("%-8s", el.Text)
	}
	return fmt.Sprintf("%s%-8s%s", prefix, el.Text, reset)
}

func plainRow(row history.Row) string {
	sign := "-"
	if row.Elements[0].Has(history.ClassPositive) {
		sign = "+"
	}
	own := ""
	if row.Own() {
		own = " *"
	}
	return fmt.Sprintf("%s %s %s %s%s", sign, row.Elements[0].Text, row.Elements[1].Text, row.Elements[2].Text, own)
}

func invalidMark(invalid bool) string {
	if invalid {
		return " (out of range)"
	}
	return ""
}
