// Package console is an interactive terminal view of one Flipper instance.
package console

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/icook/tiny-flipper/contract/flipper"
	"github.com/icook/tiny-flipper/engine"
	"github.com/icook/tiny-flipper/identity"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	ownerMarker = "(owner)"
)

// Contract is the part of the engine the console drives.
type Contract interface {
	Flip(ctx context.Context, id identity.ContractID, caller identity.AccountID) (bool, error)
	Describe(ctx context.Context, id identity.ContractID) (engine.Snapshot, error)
}

type loadedMsg struct {
	snap engine.Snapshot
	err  error
}

type flippedMsg struct {
	value bool
	err   error
}

type model struct {
	ctx    context.Context
	c      Contract
	id     identity.ContractID
	caller identity.AccountID

	loaded bool
	snap   engine.Snapshot
	status string
	err    error
}

func newModel(ctx context.Context, c Contract, id identity.ContractID, caller identity.AccountID) model {
	return model{ctx: ctx, c: c, id: id, caller: caller}
}

// Run blocks until the user quits.
func Run(ctx context.Context, c Contract, id identity.ContractID, caller identity.AccountID) error {
	p := tea.NewProgram(newModel(ctx, c, id, caller), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return errors.Wrap(err, "console")
	}
	if m, ok := final.(model); ok && m.err != nil && !m.loaded {
		return m.err
	}
	return nil
}

func (m model) load() tea.Msg {
	snap, err := m.c.Describe(m.ctx, m.id)
	return loadedMsg{snap: snap, err: err}
}

func (m model) flip() tea.Msg {
	value, err := m.c.Flip(m.ctx, m.id, m.caller)
	return flippedMsg{value: value, err: err}
}

func (m model) Init() tea.Cmd { return m.load }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "f":
			if !m.loaded {
				return m, nil
			}
			m.status = "flipping..."
			return m, m.flip
		case "r":
			m.status = "refreshing..."
			return m, m.load
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			if !m.loaded {
				return m, tea.Quit
			}
			return m, nil
		}
		m.loaded = true
		m.snap = msg.snap
		m.status = ""
		m.err = nil

	case flippedMsg:
		var rejected flipper.Error
		switch {
		case msg.err == nil:
			m.snap.Value = msg.value
			m.status = fmt.Sprintf("flipped to %t", msg.value)
			m.err = nil
		case errors.As(msg.err, &rejected):
			m.status = ""
			m.err = rejected
		default:
			m.status = ""
			m.err = msg.err
		}
	}
	return m, nil
}

func (m model) View() string {
	if !m.loaded {
		if m.err != nil {
			return errorStyle.Render("✖ "+m.err.Error()) + "\n"
		}
		return mutedStyle.Render("loading "+m.id.String()+"...") + "\n"
	}

	value := offStyle.Render("false")
	if m.snap.Value {
		value = onStyle.Render("true")
	}
	owner := m.snap.Owner.String()
	caller := m.caller.String()
	if m.caller == m.snap.Owner {
		caller += " " + ownerMarker
	}

	lines := []string{
		titleStyle.Render("Flipper") + "  " + mutedStyle.Render(m.id.String()),
		"",
		"value   " + value,
		"owner   " + owner,
		"caller  " + caller,
		"",
	}
	switch {
	case m.err != nil:
		lines = append(lines, errorStyle.Render("✖ "+m.err.Error()))
	case m.status != "":
		lines = append(lines, onStyle.Render("✔ ")+m.status)
	default:
		lines = append(lines, "")
	}
	lines = append(lines, mutedStyle.Render("space flip • r refresh • q quit"))
	return panelStyle.Render(strings.Join(lines, "\n")) + "\n"
}
