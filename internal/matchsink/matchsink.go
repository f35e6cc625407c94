// Package matchsink prints resolved matches to the console: one line
// per match, an optional "file_data_id;" prefix when the target carried
// an identifier, coloured green when the terminal supports ANSI
// sequences.
package matchsink

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"namehash/internal/cpupool"
)

var matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)

// Console is a mutex-guarded console sink shared by every CPU and GPU
// worker.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool
}

// New builds a Console writing to w. colorize is auto-detected from
// whether the underlying file descriptor is a TTY when w is an *os.File
// that implements Fd(); callers may also force it off (e.g. for -q or
// redirected output) by constructing with NewPlain.
func New(w io.Writer) *Console {
	colorize := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{w: w, colorize: colorize}
}

// NewPlain builds a Console that never colourizes, for pipes and tests.
func NewPlain(w io.Writer) *Console {
	return &Console{w: w, colorize: false}
}

// Report renders one match line: "file_data_id;text" when the target
// carried an identifier, else just "text".
func (c *Console) Report(m cpupool.Match) {
	line := m.Text
	if m.Target.HasID {
		line = fmt.Sprintf("%d;%s", m.Target.ID, m.Text)
	}
	if c.colorize {
		line = matchStyle.Render(line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}
