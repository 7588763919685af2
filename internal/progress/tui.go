package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	barWidth     = 40
	tickInterval = 100 * time.Millisecond
)

type tickMsg time.Time

type finishMsg struct{}

type model struct {
	label   string
	total   int
	done    *atomic.Int64
	started time.Time
	now     time.Time
	final   bool
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case finishMsg:
		m.final = true
		m.now = time.Now()
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) fraction() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(1, float64(m.done.Load())/float64(m.total))
}

func (m model) View() string {
	f := m.fraction()
	elapsed := m.now.Sub(m.started).Truncate(time.Millisecond)
	if elapsed < 0 {
		elapsed = 0
	}
	line := fmt.Sprintf("%s %s %3.0f%% %s",
		Title.Render(m.label), Bar(f, barWidth), f*100,
		Subtle.Render(fmt.Sprintf("%d/%d px  %s", m.done.Load(), m.total, elapsed)))
	if m.final {
		line += "\n"
	}
	return line
}

// TUI draws a live progress bar. Advance only bumps a counter; the bar
// polls it on a timer so sampling workers never block on the terminal.
type TUI struct {
	label string
	out   io.Writer
	done  atomic.Int64

	mu      sync.Mutex
	program *tea.Program
	exited  chan struct{}
}

func NewTUI(label string, out io.Writer) *TUI {
	return &TUI{label: label, out: out}
}

func (t *TUI) Start(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done.Store(0)
	now := time.Now()
	m := model{label: t.label, total: total, done: &t.done, started: now, now: now}
	t.program = tea.NewProgram(m,
		tea.WithInput(nil), tea.WithOutput(t.out), tea.WithoutSignalHandler())
	t.exited = make(chan struct{})

	go func(p *tea.Program, exited chan struct{}) {
		defer close(exited)
		_, _ = p.Run()
	}(t.program, t.exited)
}

func (t *TUI) Advance(n int) { t.done.Add(int64(n)) }

// Finish draws the final state and waits for the program to exit.
func (t *TUI) Finish() {
	t.mu.Lock()
	p, exited := t.program, t.exited
	t.program = nil
	t.mu.Unlock()

	if p == nil {
		return
	}
	p.Send(finishMsg{})
	<-exited
}
