// Package tui is the terminal front end: the sidebar menu on the left and
// the text rendering of the current view on the right.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/speedwagon-io/machinedash/internal/config"
	"github.com/speedwagon-io/machinedash/internal/dashboard"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/render"
	"github.com/speedwagon-io/machinedash/internal/view"
)

const sidebarWidth = 26

var (
	sidebarStyle  = lipgloss.NewStyle().Width(sidebarWidth).Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("240"))
	headingStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#3a3a3a")).Foreground(lipgloss.Color("#e0e0e0"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")).Bold(true)
	mainStyle     = lipgloss.NewStyle().Padding(0, 2)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Dashboard is the controller surface the terminal UI drives.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	ChooseMachine(m model.Machine) view.Derived
	ChooseView(v model.View) view.Derived
	Reset() view.Derived
	Close()
}

// LoadFunc runs one fetch cycle.
type LoadFunc func(ctx context.Context) error

type itemKind int

const (
	itemMachine itemKind = iota
	itemView
	itemReset
)

type item struct {
	kind  itemKind
	id    string
	label string
}

type loadedMsg struct {
	err error
}

type Model struct {
	dash    Dashboard
	load    LoadFunc
	title   string
	items   []item
	cursor  int
	loading bool
	width   int
	height  int
}

func New(dash Dashboard, menu *config.MenuConfig, load LoadFunc) *Model {
	items := make([]item, 0, len(menu.Machines)+len(menu.Views)+1)
	for _, mi := range menu.Machines {
		items = append(items, item{kind: itemMachine, id: mi.ID, label: mi.DisplayLabel()})
	}
	for _, mi := range menu.Views {
		label := mi.DisplayLabel()
		if mi.Icon != "" {
			label = mi.Icon + " " + label
		}
		items = append(items, item{kind: itemView, id: mi.ID, label: label})
	}
	items = append(items, item{kind: itemReset, label: "↺ Reset"})

	return &Model{
		dash:    dash,
		load:    load,
		title:   menu.Title,
		items:   items,
		loading: load != nil,
	}
}

// Init starts the single fetch in the background.
func (m *Model) Init() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return func() tea.Msg {
		return loadedMsg{err: load(context.Background())}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case loadedMsg:
		m.loading = false
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.dash.Close()
		return m, tea.Quit
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", " ":
		m.activate(m.items[m.cursor])
	case "r":
		m.dash.Reset()
	}
	return m, nil
}

func (m *Model) activate(it item) {
	switch it.kind {
	case itemMachine:
		m.dash.ChooseMachine(model.Machine(it.id))
	case itemView:
		m.dash.ChooseView(model.View(it.id))
	case itemReset:
		m.dash.Reset()
	}
}

func (m *Model) View() string {
	snap := m.dash.Snapshot()

	main := render.Text(snap.View)
	if snap.LastError != nil {
		main = errorStyle.Render("Feed unavailable: "+snap.LastError.Error()) + "\n\n" + main
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(snap), mainStyle.Render(main))
	return body + "\n" + footerStyle.Render(m.footer(snap))
}

func (m *Model) sidebar(snap dashboard.Snapshot) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("☰ " + m.title))
	b.WriteString("\n")

	prev := itemKind(-1)
	for i, it := range m.items {
		if it.kind != prev {
			switch it.kind {
			case itemMachine:
				b.WriteString("\n" + sectionStyle.Render("MACHINES") + "\n")
			case itemView:
				b.WriteString("\n" + sectionStyle.Render("VIEWS") + "\n")
			case itemReset:
				b.WriteString("\n")
			}
			prev = it.kind
		}

		line := it.label
		if m.selected(it, snap) {
			line = selectedStyle.Render(line)
		}
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	return sidebarStyle.Render(b.String())
}

func (m *Model) selected(it item, snap dashboard.Snapshot) bool {
	switch it.kind {
	case itemMachine:
		return it.id == string(snap.Selection.Machine)
	case itemView:
		return it.id == string(snap.Selection.View)
	default:
		return false
	}
}

func (m *Model) footer(snap dashboard.Snapshot) string {
	status := "waiting for feed"
	switch {
	case m.loading:
		status = "loading…"
	case snap.Loaded:
		status = fmt.Sprintf("%d rows", snap.Dataset.Len())
	}
	return fmt.Sprintf("%s · ↑/↓ move · enter select · r reset · q quit", status)
}
