package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mikepapadim/mx/internal/javamodules"
)

type progressModel struct {
	title      string
	events     <-chan javamodules.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []distItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type distItem struct {
	name   string
	status string
	stage  javamodules.Stage
}

type eventMsg javamodules.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders module
// synthesis progress, one row per distribution.
func NewProgressModel(title string, dists []string, events <-chan javamodules.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]distItem, 0, len(dists))
	index := make(map[string]int, len(dists))
	for i, dist := range dists {
		items = append(items, distItem{name: dist, status: "queued"})
		index[dist] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := javamodules.Event(msg)
		cmd := m.applyEvent(ev)
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.name, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		line := fmt.Sprintf("  %s %s", statusStyled, name)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev javamodules.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.Dist == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.Dist]
	if !ok {
		return nil
	}
	if label != "" {
		m.items[idx].status = label
		m.items[idx].stage = ev.Stage
	}

	totalProgress := 0.0
	for _, item := range m.items {
		if item.status == "done" || item.status == "error" {
			totalProgress += 1.0
		} else {
			totalProgress += progressFromStage(item.stage)
		}
	}
	pct := totalProgress / float64(len(m.items))
	return m.prog.SetPercent(pct)
}

func progressFromStage(stage javamodules.Stage) float64 {
	switch stage {
	case javamodules.StageCollect:
		return 0.2
	case javamodules.StageSynthesize:
		return 0.5
	case javamodules.StageCompile:
		return 0.8
	case javamodules.StagePackage:
		return 0.95
	default:
		return 0.0
	}
}

func statusLabel(stage javamodules.Stage, status javamodules.Status) string {
	switch status {
	case javamodules.StatusQueued:
		return "queued"
	case javamodules.StatusDone:
		// Stages before packaging complete mid-flight; only the last
		// one marks the row as finished.
		if stage == javamodules.StagePackage {
			return "done"
		}
		return stageLabel(stage)
	case javamodules.StatusError:
		return "error"
	case javamodules.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage javamodules.Stage) string {
	switch stage {
	case javamodules.StageCollect:
		return "collecting"
	case javamodules.StageSynthesize:
		return "synthesizing"
	case javamodules.StageCompile:
		return "compiling"
	case javamodules.StagePackage:
		return "packaging"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "collecting", "synthesizing", "compiling", "packaging":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
