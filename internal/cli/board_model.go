package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wilfredeveloper/barka-sub001/internal/cli/formatter"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// boardColumns fixes the column order of the board. Cancelled tasks are
// deliberately left off; they only clutter an active board.
var boardColumns = []domain.TaskStatus{
	domain.TaskNotStarted,
	domain.TaskInProgress,
	domain.TaskUnderReview,
	domain.TaskBlocked,
	domain.TaskCompleted,
}

// boardProjectsMsg signals that the project list has been loaded.
type boardProjectsMsg struct {
	projects []*domain.Project
	err      error
}

// boardTasksMsg signals that the selected project's tasks have been loaded.
type boardTasksMsg struct {
	projectID string
	tasks     []*domain.Task
	err       error
}

// boardKeyMap defines the board's key bindings.
type boardKeyMap struct {
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	NextProject key.Binding
	PrevProject key.Binding
	Reload      key.Binding
	Quit        key.Binding
}

func defaultBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column right")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "task up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "task down")),
		NextProject: key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next project")),
		PrevProject: key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "prev project")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// boardModel is the interactive project board: one project at a time,
// its tasks grouped into status columns.
type boardModel struct {
	app    *App
	caller tenancy.Caller
	keys   boardKeyMap

	projects []*domain.Project
	selected int

	// columns holds the selected project's tasks keyed by board column.
	columns map[domain.TaskStatus][]*domain.Task
	col     int
	row     int

	width   int
	loading bool
	err     error
}

func newBoardModel(app *App, caller tenancy.Caller) *boardModel {
	return &boardModel{
		app:     app,
		caller:  caller,
		keys:    defaultBoardKeyMap(),
		columns: map[domain.TaskStatus][]*domain.Task{},
		loading: true,
	}
}

func (m *boardModel) Init() tea.Cmd {
	return m.loadProjects()
}

func (m *boardModel) loadProjects() tea.Cmd {
	app, caller := m.app, m.caller
	return func() tea.Msg {
		projects, err := app.Projects.List(context.Background(), caller)
		return boardProjectsMsg{projects: projects, err: err}
	}
}

func (m *boardModel) loadTasks(projectID string) tea.Cmd {
	app, caller := m.app, m.caller
	return func() tea.Msg {
		tasks, err := app.Tasks.ListByProject(context.Background(), caller, projectID)
		return boardTasksMsg{projectID: projectID, tasks: tasks, err: err}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case boardProjectsMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.projects = msg.projects
		if m.selected >= len(m.projects) {
			m.selected = 0
		}
		if len(m.projects) == 0 {
			m.loading = false
			return m, nil
		}
		return m, m.loadTasks(m.projects[m.selected].ID)

	case boardTasksMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.columns = map[domain.TaskStatus][]*domain.Task{}
		for _, t := range msg.tasks {
			m.columns[t.Status] = append(m.columns[t.Status], t)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Right):
		if m.col < len(boardColumns)-1 {
			m.col++
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, m.keys.Down):
		if m.row < len(m.currentColumn())-1 {
			m.row++
		}

	case key.Matches(msg, m.keys.NextProject):
		return m, m.switchProject(1)

	case key.Matches(msg, m.keys.PrevProject):
		return m, m.switchProject(-1)

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.loadProjects()
	}

	return m, nil
}

func (m *boardModel) switchProject(delta int) tea.Cmd {
	if len(m.projects) < 2 {
		return nil
	}
	m.selected = (m.selected + delta + len(m.projects)) % len(m.projects)
	m.col, m.row = 0, 0
	m.loading = true
	return m.loadTasks(m.projects[m.selected].ID)
}

func (m *boardModel) currentColumn() []*domain.Task {
	return m.columns[boardColumns[m.col]]
}

// SelectedTask returns the task under the cursor, nil when the column
// is empty.
func (m *boardModel) SelectedTask() *domain.Task {
	col := m.currentColumn()
	if m.row < 0 || m.row >= len(col) {
		return nil
	}
	return col[m.row]
}

func (m *boardModel) clampCursor() {
	if n := len(m.currentColumn()); m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *boardModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.loading {
		return formatter.Dim("Loading board...") + "\n"
	}
	if len(m.projects) == 0 {
		return formatter.Dim("No projects. Create one with: barka project add") + "\n"
	}

	project := m.projects[m.selected]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n\n",
		formatter.Bold(project.Name),
		formatter.ProjectStatusPill(project.Status),
		formatter.RenderProgress(project.Progress.CompletionPercentage/100, 14),
		formatter.Dim(fmt.Sprintf("%d/%d", m.selected+1, len(m.projects)))))

	cols := make([]string, 0, len(boardColumns))
	for i, status := range boardColumns {
		cols = append(cols, m.renderColumn(status, i == m.col))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n" + m.helpLine() + "\n")

	return b.String()
}

func (m *boardModel) renderColumn(status domain.TaskStatus, active bool) string {
	tasks := m.columns[status]

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorDim).
		Padding(0, 1).
		Width(m.columnWidth())
	if active {
		border = border.BorderForeground(formatter.ColorHeader)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", formatter.TaskStatusPill(status), formatter.Dim(fmt.Sprintf("(%d)", len(tasks)))))
	for i, t := range tasks {
		name := t.Name
		if max := m.columnWidth() - 4; max > 3 && len(name) > max {
			name = name[:max-1] + "…"
		}
		line := fmt.Sprintf("%s %s", formatter.PriorityBadge(t.Priority), name)
		if active && i == m.row {
			line = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(tasks) == 0 {
		b.WriteString(formatter.Dim("  empty") + "\n")
	}

	return border.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *boardModel) columnWidth() int {
	if m.width <= 0 {
		return 24
	}
	w := m.width/len(boardColumns) - 2
	if w < 16 {
		w = 16
	}
	return w
}

func (m *boardModel) helpLine() string {
	bindings := []key.Binding{
		m.keys.Left, m.keys.Right, m.keys.Up, m.keys.Down,
		m.keys.NextProject, m.keys.Reload, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, fmt.Sprintf("%s %s", kb.Help().Key, formatter.Dim(kb.Help().Desc)))
	}
	return formatter.Dim(strings.Join(parts, "  ·  "))
}
