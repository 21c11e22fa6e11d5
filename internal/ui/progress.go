package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"golang.org/x/term"

	"github.com/cybre/moltenclip/internal/utils"
)

// ErrNoInteractiveTTY is returned when the progress view has no terminal to draw on.
var ErrNoInteractiveTTY = eris.New("no interactive terminal available")

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

const progressBarWidth = 32

// Progress shows a terminal progress bar while a batch runs. A nil *Progress
// is valid and does nothing.
type Progress struct {
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

type stepMsg struct {
	label string
}

type progressModel struct {
	title  string
	total  int
	done   int
	last   string
	onExit func()
	exit   sync.Once
}

// NewProgress starts a progress bar for total steps. onExit runs if the user
// presses ctrl+c. It returns ErrNoInteractiveTTY when stdout is not a terminal.
func NewProgress(title string, total int, onExit func()) (*Progress, error) {
	if !IsInteractiveTerminal() {
		return nil, ErrNoInteractiveTTY
	}

	model := &progressModel{title: title, total: total, onExit: onExit}
	p := &Progress{
		program: tea.NewProgram(model, tea.WithoutSignalHandler()),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()

	return p, nil
}

// Step advances the bar by one and shows label as the latest item.
func (p *Progress) Step(label string) {
	if p == nil {
		return
	}
	p.program.Send(stepMsg{label: label})
}

// Close stops the program and waits for the terminal to be restored.
func (p *Progress) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.program.Quit()
		<-p.done
	})
}

func (m *progressModel) Init() tea.Cmd {
	return nil
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.done = utils.Clamp(m.done+1, 0, max(m.total, 0))
		m.last = msg.label
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.exit.Do(func() {
				if m.onExit != nil {
					m.onExit()
				}
			})
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	return renderProgress(m.title, m.done, m.total, m.last) + "\n"
}

func renderProgress(title string, done, total int, last string) string {
	ratio := 1.0
	if total > 0 {
		ratio = utils.Clamp(float64(done)/float64(total), 0.0, 1.0)
	}
	filled := int(ratio * progressBarWidth)

	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", progressBarWidth-filled))

	lines := []string{
		titleStyle.Render(title),
		lipgloss.JoinHorizontal(lipgloss.Left,
			"[", bar, "] ",
			countStyle.Render(fmt.Sprintf("%d/%d", done, total)),
		),
	}
	if last != "" {
		lines = append(lines, subtitleStyle.Render("last: "+last))
	}
	lines = append(lines, hintStyle.Render("ctrl+c to abort"))
	return strings.Join(lines, "\n")
}

// IsInteractiveTerminal reports whether both stdin and stdout are terminals.
func IsInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
