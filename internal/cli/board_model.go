package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"siteline/internal/cli/formatter"
	"siteline/internal/contract"
	"siteline/internal/service"
	"siteline/internal/timeline"
)

// boardKeyMap defines the board's key bindings.
type boardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Grab    key.Binding
	Resize  key.Binding
	Actual  key.Binding
	Commit  key.Binding
	Cancel  key.Binding
	ZoomDay key.Binding
	ZoomWk  key.Binding
	ZoomMo  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Resize, k.Actual, k.Commit, k.Cancel, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Resize, k.Actual, k.Commit, k.Cancel},
		{k.ZoomDay, k.ZoomWk, k.ZoomMo, k.Help, k.Quit},
	}
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous task")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next task")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "drag earlier")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "drag later")),
		Grab:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab plan bar")),
		Resize:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "grab right edge")),
		Actual:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "grab actual bar")),
		Commit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit drag")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		ZoomDay: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "day scale")),
		ZoomWk:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "week scale")),
		ZoomMo:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "month scale")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// dragKind is the board-side edit mode for a grabbed bar.
type dragKind int

const (
	dragNone dragKind = iota
	dragMove
	dragResizeRight
	dragActual
)

type refreshMsg struct{ view *service.TimelineView }
type commitMsg struct{ result contract.CommitResult }
type boardErrMsg struct{ err error }

// boardModel is the interactive schedule board. Navigation selects a row;
// grabbing a bar enters a pending drag that accumulates whole-day shifts,
// previewed live and committed or cancelled as one edit.
type boardModel struct {
	app       *App
	projectID string
	keys      boardKeyMap
	help      help.Model

	view        *service.TimelineView
	granularity timeline.Granularity
	laneWidth   int

	cursor      int
	drag        dragKind
	pendingDays int

	status   string
	quitting bool
}

func newBoardModel(app *App, projectID string) boardModel {
	return boardModel{
		app:         app,
		projectID:   projectID,
		keys:        defaultBoardKeys(),
		help:        help.New(),
		granularity: timeline.GranularityDay,
		laneWidth:   60,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.refresh()
}

func (m boardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		view, err := m.app.Timeline.Timeline(context.Background(), m.projectID, m.granularity, 20)
		if err != nil {
			return boardErrMsg{err}
		}
		return refreshMsg{view}
	}
}

func (m boardModel) commit() tea.Cmd {
	if m.drag == dragNone || m.pendingDays == 0 {
		return nil
	}
	kind, days := m.drag, m.pendingDays
	taskID := m.view.Rows[m.cursor].Task.ID
	return func() tea.Msg {
		ctx := context.Background()
		var result contract.CommitResult
		var err error
		switch kind {
		case dragMove:
			result, err = m.app.Schedule.ShiftTask(ctx, taskID, days)
		case dragResizeRight:
			result, err = m.app.Schedule.ResizeTask(ctx, taskID, "right", days)
		case dragActual:
			result, err = m.app.Schedule.MoveActual(ctx, taskID, days)
		}
		if err != nil {
			return boardErrMsg{err}
		}
		return commitMsg{result}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.view = msg.view
		if m.cursor >= len(m.view.Rows) {
			m.cursor = len(m.view.Rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case commitMsg:
		m.drag = dragNone
		m.pendingDays = 0
		m.status = formatter.FormatCommitResult(msg.result)
		return m, m.refresh()

	case boardErrMsg:
		m.drag = dragNone
		m.pendingDays = 0
		m.status = formatter.StyleRed.Render("Error: " + msg.err.Error())
		return m, m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.drag == dragNone && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.drag == dragNone && m.view != nil && m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Grab):
		return m.startDrag(dragMove), nil

	case key.Matches(msg, m.keys.Resize):
		return m.startDrag(dragResizeRight), nil

	case key.Matches(msg, m.keys.Actual):
		return m.startDrag(dragActual), nil

	case key.Matches(msg, m.keys.Left):
		if m.drag != dragNone {
			m.pendingDays--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.drag != dragNone {
			m.pendingDays++
		}
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		if m.drag == dragNone {
			return m, nil
		}
		if m.pendingDays == 0 {
			m.drag = dragNone
			m.status = formatter.Dim("No change.")
			return m, nil
		}
		m.status = formatter.Dim("Committing…")
		return m, m.commit()

	case key.Matches(msg, m.keys.Cancel):
		if m.drag != dragNone {
			m.drag = dragNone
			m.pendingDays = 0
			m.status = formatter.Dim("Drag cancelled.")
		}
		return m, nil

	case key.Matches(msg, m.keys.ZoomDay):
		m.granularity = timeline.GranularityDay
		return m, m.refresh()
	case key.Matches(msg, m.keys.ZoomWk):
		m.granularity = timeline.GranularityWeek
		return m, m.refresh()
	case key.Matches(msg, m.keys.ZoomMo):
		m.granularity = timeline.GranularityMonth
		return m, m.refresh()
	}
	return m, nil
}

func (m boardModel) startDrag(kind dragKind) boardModel {
	if m.view == nil || len(m.view.Rows) == 0 || m.drag != dragNone {
		return m
	}
	row := m.view.Rows[m.cursor]
	if kind == dragActual && row.Task.IsGroup() {
		m.status = formatter.Dim("Groups have no actual bar to grab.")
		return m
	}
	m.drag = kind
	m.pendingDays = 0
	m.status = formatter.Dim("Dragging. ←/→ to move, enter to commit, esc to cancel.")
	return m
}

func (m boardModel) View() string {
	if m.quitting {
		return ""
	}
	if m.view == nil {
		return formatter.Dim("Loading schedule…")
	}

	body := m.renderRows()

	status := m.status
	if m.drag != dragNone {
		status = formatter.StyleYellow.Render(fmt.Sprintf("pending: %+d day(s)", m.pendingDays))
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n", body, status, m.help.View(m.keys))
}

// previewView returns the view with the grabbed bar offset by the pending
// day shift, so the drag reads live before it is committed.
func (m boardModel) previewView() *service.TimelineView {
	if m.drag == dragNone || m.pendingDays == 0 {
		return m.view
	}
	preview := *m.view
	preview.Rows = append([]service.TimelineRow(nil), m.view.Rows...)
	row := &preview.Rows[m.cursor]

	offset := float64(m.pendingDays) * 20 / m.granularity.DaysPerCell()
	switch m.drag {
	case dragMove:
		row.Plan.Left += offset
	case dragResizeRight:
		row.Plan.Width += offset
		if row.Plan.Width < 1 {
			row.Plan.Width = 1
		}
	case dragActual:
		row.Actual.Left += offset
	}
	return &preview
}

func (m boardModel) renderRows() string {
	// Render through the shared gantt formatter, marking the selected row.
	out := formatter.FormatTimeline(m.previewView(), m.laneWidth)
	lines := splitLines(out)

	// The first two lines are the header block.
	const headerLines = 2
	for i := range lines {
		rowIdx := i - headerLines
		if rowIdx == m.cursor && rowIdx >= 0 && rowIdx < len(m.view.Rows) {
			marker := "> "
			if m.drag != dragNone {
				marker = formatter.StyleYellow.Render("◆ ")
			}
			lines[i] = marker + lines[i]
		} else if rowIdx >= 0 {
			lines[i] = "  " + lines[i]
		}
	}
	return joinLines(lines)
}
