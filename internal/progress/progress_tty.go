package progress

import (
	"fmt"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

type tickMsg time.Time

// teaProgram wraps a tea.Program driving the live dashboard model.
type teaProgram struct {
	counters *Counters
	program  *tea.Program
}

func newTeaProgram(counters *Counters) *teaProgram {
	m := newModel(counters)
	return &teaProgram{
		counters: counters,
		program:  tea.NewProgram(m),
	}
}

func (t *teaProgram) run() {
	t.program.Run() //nolint:errcheck // a failed TUI render degrades to no progress output, never fatal
}

func (t *teaProgram) stop() {
	t.program.Quit()
}

// model is the Bubble Tea model for the candidate-search dashboard.
type model struct {
	counters       *Counters
	bar            bprogress.Model
	start          time.Time
	lastCandidates uint64
	latest         sample
}

func newModel(counters *Counters) model {
	return model{
		counters: counters,
		bar:      bprogress.New(bprogress.WithDefaultGradient()),
		start:    time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tickMsg:
		m.latest = m.counters.sample(m.lastCandidates, m.start)
		m.lastCandidates = m.latest.candidates
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	pct := 0.0
	if m.counters.Total > 0 {
		pct = float64(m.latest.candidates) / float64(m.counters.Total)
		if pct > 1 {
			pct = 1
		}
	}

	header := labelStyle.Render(fmt.Sprintf("%d candidates (%.0f/s)", m.latest.candidates, m.latest.rate))
	stats := dimStyle.Render(fmt.Sprintf("%d matches | eta %s | cpu %.0f%% mem %.0f%% | %s",
		m.latest.matches, m.latest.eta, m.latest.cpuPct, m.latest.memPct, m.latest.elapsed))

	if m.counters.Total == 0 {
		return header + "\n" + stats + "\n"
	}
	return header + "\n" + m.bar.ViewAs(pct) + "\n" + stats + "\n"
}
