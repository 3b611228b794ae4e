package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

const (
	headingText       = "What's the Plan for Today?"
	addPlaceholder    = "Add a todo"
	updatePlaceholder = "Update your item"

	defaultToastDuration = 3 * time.Second
	defaultWidth         = 80
)

// uiQueue collects controller notifications and alerts. The model drains it
// after every command result.
type uiQueue struct {
	mu     sync.Mutex
	notes  []models.Notification
	alerts []string
}

func (q *uiQueue) Notify(n models.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notes = append(q.notes, n)
}

func (q *uiQueue) Alert(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alerts = append(q.alerts, message)
}

func (q *uiQueue) drain() ([]models.Notification, []string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	notes, alerts := q.notes, q.alerts
	q.notes, q.alerts = nil, nil
	return notes, alerts
}

type toast struct {
	id   int
	note models.Notification
}

type todoModel struct {
	ctx           context.Context
	ctrl          core.TaskListController
	queue         *uiQueue
	toastDuration time.Duration

	input        textinput.Model
	spinner      spinner.Model
	inputFocused bool
	cursor       int
	width        int
	height       int
	loading      bool

	toasts      []toast
	nextToastID int
	alert       string
}

// todosLoadedMsg is sent when Initialize returns.
type todosLoadedMsg struct{}

// todoChangedMsg is sent when a mutation returns. Failures are only logged.
type todoChangedMsg struct{}

type toastExpiredMsg struct {
	id int
}

// Style definitions.
var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedInputBoxStyle = inputBoxStyle.
				BorderForeground(lipgloss.Color("62"))

	filterActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Underline(true)
	filterInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	doneTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	editRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	toastBaseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1)

	toastSuccess = toastBaseStyle.BorderForeground(lipgloss.Color("46")).Foreground(lipgloss.Color("46"))
	toastInfo    = toastBaseStyle.BorderForeground(lipgloss.Color("69")).Foreground(lipgloss.Color("69"))
	toastWarning = toastBaseStyle.BorderForeground(lipgloss.Color("226")).Foreground(lipgloss.Color("226"))
	toastError   = toastBaseStyle.BorderForeground(lipgloss.Color("196")).Foreground(lipgloss.Color("196"))

	alertStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 3)

	tuiHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTodoModel(ctx context.Context, ctrl core.TaskListController, queue *uiQueue, toastDuration time.Duration) todoModel {
	if toastDuration <= 0 {
		toastDuration = defaultToastDuration
	}

	ti := textinput.New()
	ti.Placeholder = addPlaceholder
	ti.CharLimit = 256
	ti.Width = 48
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	return todoModel{
		ctx:           ctx,
		ctrl:          ctrl,
		queue:         queue,
		toastDuration: toastDuration,
		input:         ti,
		spinner:       s,
		inputFocused:  true,
		loading:       true,
	}
}

func (m todoModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.loadTodos())
}

func (m todoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case todosLoadedMsg:
		m.loading = false
		m.clampCursor()
		return m, m.drainQueue()

	case todoChangedMsg:
		m.clampCursor()
		m.syncEditState()
		return m, m.drainQueue()

	case toastExpiredMsg:
		kept := m.toasts[:0:0]
		for _, t := range m.toasts {
			if t.id != msg.id {
				kept = append(kept, t)
			}
		}
		m.toasts = kept
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputFocused {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m todoModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.alert != "" {
		switch msg.String() {
		case "enter", "esc":
			m.alert = ""
		}
		return m, nil
	}

	if m.inputFocused {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m todoModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.input.Value()
		editing := m.ctrl.EditTarget() != nil
		m.resetInput()
		if editing {
			return m, m.submitEdit(text)
		}
		if core.IsBlank(text) {
			return m, nil
		}
		return m, m.addTodo(text)

	case "esc":
		if m.ctrl.EditTarget() != nil {
			m.ctrl.CancelEdit()
			m.resetInput()
		}
		m.focusList()
		return m, nil

	case "tab":
		m.focusList()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m todoModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.ctrl.CurrentView()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "tab", "i", "a":
		return m, m.focusInput()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil

	case "f":
		m.ctrl.SetFilter(m.ctrl.Filter().Next())
		m.clampCursor()
		return m, nil

	case "C":
		m.ctrl.ClearAll()
		m.cursor = 0
		return m, m.drainQueue()

	case "r":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadTodos())
	}

	if len(visible) == 0 || m.cursor >= len(visible) {
		return m, nil
	}
	selected := visible[m.cursor]

	switch msg.String() {
	case " ", "space", "x":
		return m, m.toggleTodo(selected.ID)

	case "d":
		return m, m.removeTodo(selected.ID)

	case "e":
		if err := m.ctrl.EnterEdit(selected.ID); err != nil {
			return m, nil
		}
		m.input.Placeholder = updatePlaceholder
		m.input.SetValue(selected.Title)
		m.input.CursorEnd()
		return m, m.focusInput()
	}

	return m, nil
}

// --- Commands ---

func (m todoModel) loadTodos() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_ = ctrl.Initialize(ctx)
		return todosLoadedMsg{}
	}
}

func (m todoModel) addTodo(text string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_, _ = ctrl.AddTask(ctx, text)
		return todoChangedMsg{}
	}
}

func (m todoModel) submitEdit(text string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_ = ctrl.SubmitEdit(ctx, text)
		return todoChangedMsg{}
	}
}

func (m todoModel) toggleTodo(id models.TaskID) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_ = ctrl.ToggleComplete(ctx, id)
		return todoChangedMsg{}
	}
}

func (m todoModel) removeTodo(id models.TaskID) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_ = ctrl.RemoveTask(ctx, id)
		return todoChangedMsg{}
	}
}

// drainQueue turns queued notifications into toasts, each with its own
// expiry timer, and raises the latest alert.
func (m *todoModel) drainQueue() tea.Cmd {
	notes, alerts := m.queue.drain()
	if len(alerts) > 0 {
		m.alert = alerts[len(alerts)-1]
	}

	var cmds []tea.Cmd
	for _, n := range notes {
		m.nextToastID++
		id := m.nextToastID
		m.toasts = append(m.toasts, toast{id: id, note: n})
		cmds = append(cmds, tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}

// --- Focus helpers ---

func (m *todoModel) focusInput() tea.Cmd {
	m.inputFocused = true
	return m.input.Focus()
}

func (m *todoModel) focusList() {
	m.inputFocused = false
	m.input.Blur()
}

func (m *todoModel) resetInput() {
	m.input.Reset()
	m.input.Placeholder = addPlaceholder
}

// syncEditState drops the update form once the controller no longer has an
// edit target, e.g. after the edited todo was removed, so its text cannot be
// submitted as a new todo.
func (m *todoModel) syncEditState() {
	if m.ctrl.EditTarget() == nil && m.input.Placeholder == updatePlaceholder {
		m.resetInput()
	}
}

func (m *todoModel) clampCursor() {
	n := len(m.ctrl.CurrentView())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// --- View ---

func (m todoModel) View() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}

	if m.alert != "" {
		modal := alertStyle.Render(m.alert + "\n\n" + tuiHelpStyle.Render("enter: ok"))
		if m.height > 0 {
			return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, modal)
	}

	state := m.ctrl.Snapshot()

	var b strings.Builder
	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, toasts))
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render(headingText))
	b.WriteString("\n\n")

	box := inputBoxStyle
	if m.inputFocused {
		box = focusedInputBoxStyle
	}
	b.WriteString(box.Render(m.input.View()))
	b.WriteString("\n\n")

	b.WriteString(renderFilterBar(state.Filter))
	b.WriteString("\n\n")

	if m.loading || state.Loading {
		b.WriteString(fmt.Sprintf("  %s Loading todos...\n", m.spinner.View()))
	} else {
		b.WriteString(m.renderList(state))
		b.WriteString(fmt.Sprintf("\n  %d todo(s), %d shown\n", len(state.Tasks), len(state.Visible)))
	}

	b.WriteString("\n")
	b.WriteString(tuiHelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m todoModel) renderList(state core.ViewState) string {
	if len(state.Visible) == 0 {
		return emptyStyle.Render("  Nothing to do.") + "\n"
	}

	var b strings.Builder
	for i, t := range state.Visible {
		pointer := "  "
		if !m.inputFocused && i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}

		check := "[ ]"
		title := t.Title
		if t.Completed {
			check = "[x]"
			title = doneTitleStyle.Render(title)
		}

		row := fmt.Sprintf("%s%s %-5s %s", pointer, check, t.ID, title)
		if state.Edit != nil && state.Edit.ID == t.ID {
			row = editRowStyle.Render(row + "  (editing)")
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m todoModel) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		rendered = append(rendered, styleForToast(t.note.Severity).Render(t.note.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func (m todoModel) helpLine() string {
	if m.inputFocused {
		if m.ctrl.EditTarget() != nil {
			return "enter: save | esc: cancel edit | ctrl+c: quit"
		}
		return "enter: add | tab: list | ctrl+c: quit"
	}
	return "space: toggle | e: edit | d: delete | f: filter | C: clear all | r: reload | tab: input | q: quit"
}

func renderFilterBar(active models.FilterMode) string {
	parts := make([]string, 0, len(models.FilterModes))
	for _, mode := range models.FilterModes {
		if mode == active {
			parts = append(parts, filterActiveStyle.Render(string(mode)))
		} else {
			parts = append(parts, filterInactiveStyle.Render(string(mode)))
		}
	}
	return "  Filter: " + strings.Join(parts, "  ")
}

func styleForToast(severity models.Severity) lipgloss.Style {
	switch severity {
	case models.SeveritySuccess:
		return toastSuccess
	case models.SeverityInfo:
		return toastInfo
	case models.SeverityWarning:
		return toastWarning
	case models.SeverityError:
		return toastError
	default:
		return toastBaseStyle
	}
}

// --- Command ---

// runTUI opens the interactive view. Diagnostics go to the log file while the
// terminal belongs to the program.
func runTUI(cmd *cobra.Command) error {
	if Store == nil {
		return fmt.Errorf("todo store not initialized")
	}

	if Logger != nil && LogFilePath != "" {
		f, err := observability.OpenLogFile(LogFilePath)
		if err != nil {
			return err
		}
		defer f.Close()
		Logger.SetOutput(f)
		defer Logger.SetOutput(os.Stderr)
	}

	toastDuration := defaultToastDuration
	if Config != nil && Config.UI.ToastDuration > 0 {
		toastDuration = Config.UI.ToastDuration
	}

	queue := &uiQueue{}
	ctrl := newController(queue, queue)
	m := newTodoModel(commandContext(cmd), ctrl, queue, toastDuration)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive todo view",
	Long: `Open the interactive todo view.

Type a todo and press enter to add it. Press tab to move to the list, then
space to toggle, e to edit, d to delete, f to cycle the filter and C to
clear the local list. Running dayplan without a command does the same.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
