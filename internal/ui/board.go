package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard-go/internal/store"
	"github.com/nibzard/taskboard-go/internal/task"
)

// Board is the part of the task store the interactive board drives.
type Board interface {
	Lanes() store.Lanes
	Get(id int) (task.Task, bool)
	Create(ctx context.Context, name, typ string) (task.Task, error)
	Edit(ctx context.Context, id int, name, typ string) (task.Task, error)
	SetStatus(ctx context.Context, id int, status task.Status) (task.Task, error)
	Delete(ctx context.Context, id int) error
	Subscribe(fn func(store.Event)) (unsubscribe func())
}

// BoardOption configures RunBoard.
type BoardOption func(*boardConfig)

type boardConfig struct {
	altScreen bool
	title     string
}

// WithAltScreen controls whether the board takes over the whole terminal.
func WithAltScreen(enabled bool) BoardOption {
	return func(c *boardConfig) {
		c.altScreen = enabled
	}
}

// WithTitle sets the heading shown above the lanes.
func WithTitle(title string) BoardOption {
	return func(c *boardConfig) {
		c.title = title
	}
}

// RunBoard starts the interactive board on the terminal and blocks until
// the user quits or ctx is cancelled.
func RunBoard(ctx context.Context, board Board, opts ...BoardOption) error {
	c := &boardConfig{
		altScreen: true,
		title:     "Task Board",
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("board requires a TTY")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newBoardModel(ctx, board, c.title)
	defer model.close()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(model, programOpts...).Run()
	return err
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAddName
	modeAddType
	modeEditName
	modeEditType
)

const defaultWidth = 80

type boardModel struct {
	ctx         context.Context
	board       Board
	title       string
	events      chan struct{}
	unsubscribe func()

	lanes store.Lanes
	lane  int
	rows  [3]int

	// follow selects the task with followID on the next refresh.
	follow   bool
	followID int

	mode      inputMode
	input     textinput.Model
	draftName string
	draftType string
	editID    int

	notice    string
	noticeErr bool
	showHelp  bool
	width     int
}

// storeEventMsg signals that the store changed since the last read.
type storeEventMsg struct{}

// actionMsg reports the outcome of a store call made from the board.
type actionMsg struct {
	id     int
	follow bool
	notice string
	err    error
}

func newBoardModel(ctx context.Context, board Board, title string) *boardModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	m := &boardModel{
		ctx:    ctx,
		board:  board,
		title:  title,
		events: make(chan struct{}, 1),
		input:  ti,
		width:  defaultWidth,
		notice: "Press a to add a task, ? for help.",
	}
	// Events only mark the view stale; one pending signal is enough.
	m.unsubscribe = board.Subscribe(func(store.Event) {
		select {
		case m.events <- struct{}{}:
		default:
		}
	})
	m.refresh()
	return m
}

func (m *boardModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *boardModel) Init() tea.Cmd {
	return waitForEvent(m.ctx, m.events)
}

func waitForEvent(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return storeEventMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-20, 10)
		return m, nil
	case storeEventMsg:
		m.refresh()
		return m, waitForEvent(m.ctx, m.events)
	case actionMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setNotice(msg.notice)
			m.follow, m.followID = msg.follow, msg.id
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *boardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "left", "h":
		m.moveLane(-1)
	case "right", "l":
		m.moveLane(1)
	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "a":
		m.draftName, m.draftType = "", ""
		return m, m.startInput(modeAddName, "")
	case "e":
		selected, ok := m.selected()
		if !ok {
			m.setNotice("Nothing selected.")
			return m, nil
		}
		// Prefill from the store; the rendered row may be stale.
		current, ok := m.board.Get(selected.ID)
		if !ok {
			m.setError(&task.NotFoundError{ID: selected.ID})
			m.refresh()
			return m, nil
		}
		m.editID = current.ID
		m.draftName, m.draftType = current.Name, current.Type
		return m, m.startInput(modeEditName, current.Name)
	case "d":
		selected, ok := m.selected()
		if !ok {
			m.setNotice("Nothing selected.")
			return m, nil
		}
		return m, m.deleteCmd(selected)
	case "1":
		return m, m.moveSelected(func(task.Status) task.Status { return task.StatusToDo })
	case "2":
		return m, m.moveSelected(func(task.Status) task.Status { return task.StatusInProgress })
	case "3":
		return m, m.moveSelected(func(task.Status) task.Status { return task.StatusCompleted })
	case ">", ".":
		return m, m.moveSelected(task.Status.Next)
	case "<", ",":
		return m, m.moveSelected(task.Status.Prev)
	}
	return m, nil
}

func (m *boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.endInput()
		m.setNotice("Cancelled.")
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.mode {
	case modeAddName, modeEditName:
		if value == "" {
			m.setError(&task.ValidationError{Field: "name", Err: task.ErrEmpty})
			return m, nil
		}
		m.draftName = value
		next := modeAddType
		if m.mode == modeEditName {
			next = modeEditType
		}
		return m, m.startInput(next, m.draftType)

	case modeAddType:
		if value == "" {
			m.setError(&task.ValidationError{Field: "type", Err: task.ErrEmpty})
			return m, nil
		}
		name := m.draftName
		m.endInput()
		board := m.board
		return m, m.run("Added", func(ctx context.Context) (task.Task, error) {
			return board.Create(ctx, name, value)
		})

	case modeEditType:
		if value == "" {
			m.setError(&task.ValidationError{Field: "type", Err: task.ErrEmpty})
			return m, nil
		}
		id, name := m.editID, m.draftName
		m.endInput()
		board := m.board
		return m, m.run("Saved", func(ctx context.Context) (task.Task, error) {
			return board.Edit(ctx, id, name, value)
		})
	}
	return m, nil
}

func (m *boardModel) startInput(mode inputMode, value string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = m.promptLabel()
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *boardModel) endInput() {
	m.mode = modeBrowse
	m.input.SetValue("")
	m.input.Blur()
	m.draftName, m.draftType = "", ""
}

func (m *boardModel) promptLabel() string {
	switch m.mode {
	case modeAddName:
		return "Task name"
	case modeAddType:
		return "Task type"
	case modeEditName:
		return "New name"
	case modeEditType:
		return "New type"
	default:
		return ""
	}
}

func (m *boardModel) moveSelected(to func(task.Status) task.Status) tea.Cmd {
	selected, ok := m.selected()
	if !ok {
		m.setNotice("Nothing selected.")
		return nil
	}
	status := to(selected.Status)
	if status == selected.Status {
		return nil
	}
	board := m.board
	return m.run("Moved", func(ctx context.Context) (task.Task, error) {
		return board.SetStatus(ctx, selected.ID, status)
	})
}

func (m *boardModel) deleteCmd(t task.Task) tea.Cmd {
	ctx, board := m.ctx, m.board
	return func() tea.Msg {
		if err := board.Delete(ctx, t.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: "Deleted " + t.String()}
	}
}

// run performs a store call off the update loop and reports the result
// as an actionMsg that selects the affected task.
func (m *boardModel) run(verb string, fn func(context.Context) (task.Task, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		t, err := fn(ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{
			id:     t.ID,
			follow: true,
			notice: fmt.Sprintf("%s %s", verb, t),
		}
	}
}

func (m *boardModel) setNotice(s string) {
	m.notice = s
	m.noticeErr = false
}

func (m *boardModel) setError(err error) {
	m.notice = "Error: " + err.Error()
	m.noticeErr = true
}

// refresh re-reads the lanes from the store and keeps the cursor in range.
func (m *boardModel) refresh() {
	m.lanes = m.board.Lanes()

	if m.follow {
		for li, status := range task.Statuses() {
			for ri, t := range m.lanes.Lane(status) {
				if t.ID == m.followID {
					m.lane, m.rows[li] = li, ri
				}
			}
		}
		m.follow = false
	}

	for li, status := range task.Statuses() {
		n := len(m.lanes.Lane(status))
		if m.rows[li] >= n {
			m.rows[li] = max(n-1, 0)
		}
	}
}

func (m *boardModel) selected() (task.Task, bool) {
	items := m.lanes.Lane(task.Statuses()[m.lane])
	row := m.rows[m.lane]
	if row < 0 || row >= len(items) {
		return task.Task{}, false
	}
	return items[row], true
}

func (m *boardModel) moveLane(delta int) {
	m.lane = min(max(m.lane+delta, 0), len(task.Statuses())-1)
}

func (m *boardModel) moveRow(delta int) {
	n := len(m.lanes.Lane(task.Statuses()[m.lane]))
	if n == 0 {
		return
	}
	m.rows[m.lane] = min(max(m.rows[m.lane]+delta, 0), n-1)
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	laneStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activeLaneStyle = laneStyle.BorderForeground(lipgloss.Color("62"))
	headerStyle     = lipgloss.NewStyle().Bold(true)
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	emptyStyle      = lipgloss.NewStyle().Faint(true)
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Faint(true)
)

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(helpText())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("? close help | q quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderLanes())
	b.WriteString("\n")

	if m.mode != modeBrowse {
		b.WriteString(m.promptLabel() + ": " + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter: next/save   esc: cancel"))
		b.WriteString("\n")
	}

	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("a add | e edit | d delete | 1/2/3 or </> move | ? help | q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *boardModel) renderLanes() string {
	statuses := task.Statuses()
	// Each column carries two border cells and two padding cells.
	inner := max(m.width/len(statuses)-4, 16)

	columns := make([]string, 0, len(statuses))
	for li, status := range statuses {
		items := m.lanes.Lane(status)
		var col strings.Builder
		col.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", status, len(items))))
		col.WriteString("\n")
		if len(items) == 0 {
			col.WriteString(emptyStyle.Render("(empty)"))
		}
		for ri, t := range items {
			if ri > 0 {
				col.WriteString("\n")
			}
			if li == m.lane && ri == m.rows[li] {
				col.WriteString(cursorStyle.Render("> " + t.String()))
			} else {
				col.WriteString("  " + t.String())
			}
		}

		style := laneStyle
		if li == m.lane {
			style = activeLaneStyle
		}
		columns = append(columns, style.Width(inner+2).Render(col.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  left/right, h/l   Switch lane\n")
	b.WriteString("  up/down, j/k      Select task\n")
	b.WriteString("  a                 Add a task (name, then type)\n")
	b.WriteString("  e                 Edit the selected task\n")
	b.WriteString("  d                 Delete the selected task\n")
	b.WriteString("  1, 2, 3           Move to To Do, In Progress, Completed\n")
	b.WriteString("  <, >              Move one lane left or right\n")
	b.WriteString("  ?                 Toggle this help screen\n")
	b.WriteString("  q, ctrl+c         Quit\n")
	return b.String()
}
