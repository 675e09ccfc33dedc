package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

// Style definitions.
var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("97")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activeColumnStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("97")).
				Padding(1, 2)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("97")).
				MarginBottom(1)

	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("97")).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	urgentRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	doneRowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("72")).Strikethrough(true)

	boardHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type boardModel struct {
	coord     *core.Coordinator
	refreshCh chan struct{}

	tabIndex  int
	colIndex  int
	rowIndex  int
	width     int
	height    int

	counts map[models.Tab]int
	board  core.Board
	today  string

	loading bool
	errMsg  string
}

// boardLoadedMsg carries a freshly derived board back to the model, along
// with the calendar date the whole derivation pass was evaluated against.
type boardLoadedMsg struct {
	counts map[models.Tab]int
	board  core.Board
	today  string
}

// remoteChangedMsg signals that the committed cache was refreshed by a
// change notification.
type remoteChangedMsg struct{}

// actionDoneMsg reports the outcome of a mutation triggered from the board.
type actionDoneMsg struct {
	err error
}

func newBoardModel(coord *core.Coordinator, refreshCh chan struct{}) boardModel {
	return boardModel{
		coord:     coord,
		refreshCh: refreshCh,
		loading:   true,
		counts:    make(map[models.Tab]int),
	}
}

func (m boardModel) selectedTab() models.Tab {
	return models.AllTabs[m.tabIndex]
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.deriveBoard, m.waitForRemoteChange)
}

// deriveBoard recomputes the visible set, counts, and columns from the
// committed cache.
func (m boardModel) deriveBoard() tea.Msg {
	snapshot := m.coord.Cache().Snapshot()
	viewerID := m.coord.Viewer().ID
	partnerID := m.coord.PartnerID()

	today := core.Today()
	visible := core.VisibleTasks(snapshot, m.selectedTab(), viewerID, partnerID, today)
	return boardLoadedMsg{
		counts: core.TabCounts(snapshot, viewerID, partnerID, today),
		board:  core.Categorize(visible, today),
		today:  today,
	}
}

func (m boardModel) waitForRemoteChange() tea.Msg {
	<-m.refreshCh
	return remoteChangedMsg{}
}

func (m boardModel) currentColumn() []models.Task {
	return m.board.Column(models.BoardColumns[m.colIndex])
}

func (m boardModel) selectedTask() (models.Task, bool) {
	col := m.currentColumn()
	if m.rowIndex < 0 || m.rowIndex >= len(col) {
		return models.Task{}, false
	}
	return col[m.rowIndex], true
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "l":
			m.tabIndex = (m.tabIndex + 1) % len(models.AllTabs)
			m.rowIndex = 0
			return m, m.deriveBoard
		case "shift+tab", "h":
			m.tabIndex = (m.tabIndex - 1 + len(models.AllTabs)) % len(models.AllTabs)
			m.rowIndex = 0
			return m, m.deriveBoard
		case "right":
			m.colIndex = (m.colIndex + 1) % len(models.BoardColumns)
			m.rowIndex = 0
			return m, nil
		case "left":
			m.colIndex = (m.colIndex - 1 + len(models.BoardColumns)) % len(models.BoardColumns)
			m.rowIndex = 0
			return m, nil
		case "down", "j":
			if m.rowIndex < len(m.currentColumn())-1 {
				m.rowIndex++
			}
			return m, nil
		case "up", "k":
			if m.rowIndex > 0 {
				m.rowIndex--
			}
			return m, nil
		case " ", "enter":
			if t, ok := m.selectedTask(); ok {
				return m, m.toggleDone(t.ID)
			}
			return m, nil
		case "p":
			if t, ok := m.selectedTask(); ok {
				return m, m.cyclePriority(t)
			}
			return m, nil
		case "a":
			if t, ok := m.selectedTask(); ok {
				return m, m.cycleAssignee(t)
			}
			return m, nil
		case "r":
			m.loading = true
			return m, m.refreshNow
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		m.counts = msg.counts
		m.board = msg.board
		m.today = msg.today
		if n := len(m.currentColumn()); m.rowIndex >= n && n > 0 {
			m.rowIndex = n - 1
		}
		return m, nil

	case remoteChangedMsg:
		// Keep listening; the next notification re-arms the command.
		return m, tea.Batch(m.deriveBoard, m.waitForRemoteChange)

	case actionDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		return m, m.deriveBoard
	}

	return m, nil
}

func (m boardModel) refreshNow() tea.Msg {
	if err := m.coord.Refresh(context.Background()); err != nil {
		return actionDoneMsg{err: err}
	}
	return actionDoneMsg{}
}

func (m boardModel) toggleDone(id string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: m.coord.ToggleDone(context.Background(), id)}
	}
}

func (m boardModel) cyclePriority(t models.Task) tea.Cmd {
	return func() tea.Msg {
		next := t.Priority.Next()
		return actionDoneMsg{err: m.coord.Patch(context.Background(), t.ID, models.TaskPatch{Priority: &next})}
	}
}

// cycleAssignee rotates the assignee me -> partner -> unassigned. With no
// partner resolved it alternates between me and unassigned.
func (m boardModel) cycleAssignee(t models.Task) tea.Cmd {
	return func() tea.Msg {
		var next string
		switch t.Assignee {
		case "":
			next = m.coord.Viewer().ID
		case m.coord.Viewer().ID:
			next = m.coord.PartnerID()
		default:
			next = ""
		}
		return actionDoneMsg{err: m.coord.Patch(context.Background(), t.ID, models.TaskPatch{Assignee: &next})}
	}
}

func (m boardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := boardTitleStyle.Render(" pairtask board ")
	help := boardHelpStyle.Render("tab/h/l: tabs | arrows/j/k: move | space: done | p: priority | a: assignee | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading tasks...\n\n%s", title, help)
	}

	tabs := m.renderTabBar()

	colWidth := (m.width-2)/len(models.BoardColumns) - 4
	if colWidth < 24 {
		colWidth = 24
	}
	var cols []string
	for i, c := range models.BoardColumns {
		content := m.renderColumn(c, i == m.colIndex)
		style := columnStyle
		if i == m.colIndex {
			style = activeColumnStyle
		}
		cols = append(cols, style.Width(colWidth).Render(content))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	out := fmt.Sprintf("%s\n\n%s\n\n%s", title, tabs, body)
	if detail := m.renderDetail(); detail != "" {
		out += "\n" + detail
	}
	out += "\n\n" + help
	if m.errMsg != "" {
		out += "\n" + boardErrStyle.Render("Error: "+m.errMsg)
	}
	return out
}

func (m boardModel) renderTabBar() string {
	var parts []string
	for i, t := range models.AllTabs {
		label := t.Label()
		if count, ok := m.counts[t]; ok {
			label = fmt.Sprintf("%s %d", label, count)
		}
		if i == m.tabIndex {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// renderDetail shows the highlighted task's full fields below the columns.
func (m boardModel) renderDetail() string {
	t, ok := m.selectedTask()
	if !ok {
		return ""
	}

	due := t.DueDate
	if due == "" {
		due = "none"
	}

	lines := fmt.Sprintf("%s  [%s]\n  due: %s   priority: %s   assignee: %s",
		t.Title, t.Status, due, t.Priority, assigneeLabel(m.coord, t))
	if t.Memo != "" {
		lines += "\n  " + truncate(t.Memo, 100)
	}
	return columnStyle.Render(lines)
}

func (m boardModel) renderColumn(c models.BoardColumn, active bool) string {
	var b strings.Builder
	tasks := m.board.Column(c)
	b.WriteString(columnHeaderStyle.Render(fmt.Sprintf("%s (%d)", c.Label(), len(tasks))))
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString("  -")
		return b.String()
	}

	for i, t := range tasks {
		line := fmt.Sprintf("%s  %s", dueLabel(t, m.today), truncate(t.Title, 28))
		style := m.rowStyle(c)
		if active && i == m.rowIndex {
			line = "> " + line
			style = selectedRowStyle
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m boardModel) rowStyle(c models.BoardColumn) lipgloss.Style {
	switch c {
	case models.ColumnUrgent:
		return urgentRowStyle
	case models.ColumnDone:
		return doneRowStyle
	case models.ColumnOpen:
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle()
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive board with tabs and urgent/open/done columns",
	Long: `Launch the live board. The filtered set of the selected tab is
partitioned into urgent, open, and done columns; remote changes made by
your partner appear automatically.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := startSession(cmd.Context(), autoConfirmer{}, true)
		if err != nil {
			return err
		}
		defer coord.Stop()

		refreshCh := make(chan struct{}, 1)
		coord.SetRefreshListener(func() {
			select {
			case refreshCh <- struct{}{}:
			default:
			}
		})

		p := tea.NewProgram(newBoardModel(coord, refreshCh), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
