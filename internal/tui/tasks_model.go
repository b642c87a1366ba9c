package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/parser"
)

// TaskSource loads the tasks shown by the browser
type TaskSource interface {
	List(ctx context.Context) ([]models.Task, error)
	TaskFull(ctx context.Context, id int64) (*models.TaskDetail, error)
	Remove(ctx context.Context, id int64) error
	// Refresh drops cached results so the next List and TaskFull reload
	Refresh()
}

// BrowserAction is what the user asked for when leaving the browser
type BrowserAction int

const (
	ActionNone BrowserAction = iota
	ActionNew
	ActionEdit
	ActionAttach
)

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusModal
)

type tasksLoadedMsg struct {
	tasks []models.Task
	err   error
}

type detailLoadedMsg struct {
	id     int64
	detail *models.TaskDetail
	err    error
}

type taskRemovedMsg struct {
	id  int64
	err error
}

// TasksModel browses a task list with a detail panel
type TasksModel struct {
	width  int
	height int

	title    string
	source   TaskSource
	readOnly bool

	all          []models.Task
	tasks        []models.Task // after filters
	selectedTask int
	details      map[int64]*models.TaskDetail
	detailErr    map[int64]error

	loading bool
	err     error
	status  string

	focus       Focus
	filterInput textinput.Model
	visibility  models.Visibility

	shimmer *ShimmerState

	currentPage  int
	tasksPerPage int

	action BrowserAction
	chosen *models.Task
}

// NewTasksModel creates a browser over source. A read-only browser hides
// the mutating hotkeys.
func NewTasksModel(title string, source TaskSource, readOnly bool, shimmer ShimmerConfig) TasksModel {
	filter := textinput.New()
	filter.Placeholder = "filter by name"
	filter.Prompt = "/ "
	filter.CharLimit = 100
	filter.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	filter.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))

	return TasksModel{
		title:        title,
		source:       source,
		readOnly:     readOnly,
		details:      make(map[int64]*models.TaskDetail),
		detailErr:    make(map[int64]error),
		loading:      true,
		filterInput:  filter,
		shimmer:      NewShimmerState(shimmer),
		tasksPerPage: 10,
	}
}

// Action returns what the user chose on exit and the task it applies to
func (m TasksModel) Action() (BrowserAction, *models.Task) {
	return m.action, m.chosen
}

// Err returns the load error that ended the browser, if any
func (m TasksModel) Err() error { return m.err }

// Init initializes the model
func (m TasksModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.shimmer.Tick())
}

func (m TasksModel) load() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		tasks, err := source.List(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m TasksModel) loadDetail() tea.Cmd {
	task := m.selected()
	if task == nil {
		return nil
	}
	if _, ok := m.details[task.ID]; ok {
		return nil
	}
	source, id := m.source, task.ID
	return func() tea.Msg {
		detail, err := source.TaskFull(context.Background(), id)
		return detailLoadedMsg{id: id, detail: detail, err: err}
	}
}

func (m TasksModel) selected() *models.Task {
	if m.selectedTask < 0 || m.selectedTask >= len(m.tasks) {
		return nil
	}
	t := m.tasks[m.selectedTask]
	return &t
}

// Update handles messages
func (m TasksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		return m, m.shimmer.Step(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// header, pagination, help, borders and margins
		m.tasksPerPage = m.height - 12
		if m.tasksPerPage < 3 {
			m.tasksPerPage = 3
		}
		m.clampPage()
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.all = msg.tasks
		m.applyFilters()
		return m, m.loadDetail()

	case detailLoadedMsg:
		if msg.err != nil {
			m.detailErr[msg.id] = msg.err
		} else {
			m.details[msg.id] = msg.detail
		}
		return m, nil

	case taskRemovedMsg:
		if msg.err != nil {
			m.status = "❌ " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("🗑 Removed task #%d", msg.id)
		delete(m.details, msg.id)
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		switch m.focus {
		case FocusSearch:
			return m.handleSearchKeys(msg)
		case FocusModal:
			return m.handleModalKeys(msg)
		}
		return m.handleTableKeys(msg)
	}

	return m, nil
}

func (m TasksModel) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if m.filterInput.Value() != "" || m.visibility != "" {
			m.filterInput.SetValue("")
			m.visibility = ""
			m.applyFilters()
			return m, m.loadDetail()
		}
		return m, tea.Quit

	case "up", "k":
		m = m.moveSelectionUp()
		return m, m.loadDetail()

	case "down", "j":
		m = m.moveSelectionDown()
		return m, m.loadDetail()

	case "left", "h":
		m = m.prevPage()
		return m, m.loadDetail()

	case "right", "l":
		m = m.nextPage()
		return m, m.loadDetail()

	case "/":
		m.focus = FocusSearch
		m.shimmer.SetActive(false)
		cmd := m.filterInput.Focus()
		return m, cmd

	case "v":
		m.visibility = nextVisibility(m.visibility)
		m.applyFilters()
		return m, m.loadDetail()

	case "r":
		m.source.Refresh()
		m.loading = true
		m.details = make(map[int64]*models.TaskDetail)
		m.detailErr = make(map[int64]error)
		return m, m.load()
	}

	if m.readOnly {
		return m, nil
	}

	switch msg.String() {
	case "n":
		m.action = ActionNew
		return m, tea.Quit

	case "e":
		if task := m.selected(); task != nil {
			m.action, m.chosen = ActionEdit, task
			return m, tea.Quit
		}

	case "a":
		if task := m.selected(); task != nil {
			m.action, m.chosen = ActionAttach, task
			return m, tea.Quit
		}

	case "d":
		if m.selected() != nil {
			m.focus = FocusModal
		}
	}
	return m, nil
}

func (m TasksModel) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.focus = FocusTable
		task := m.selected()
		if task == nil {
			return m, nil
		}
		source, id := m.source, task.ID
		return m, func() tea.Msg {
			return taskRemovedMsg{id: id, err: source.Remove(context.Background(), id)}
		}
	case "n", "N", "esc":
		m.focus = FocusTable
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// handleSearchKeys handles key input when the name filter is focused
func (m TasksModel) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterInput.SetValue("")
		fallthrough
	case "enter":
		m.focus = FocusTable
		m.filterInput.Blur()
		m.shimmer.SetActive(true)
		m.applyFilters()
		return m, tea.Batch(m.loadDetail(), m.shimmer.Tick())
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilters()
	return m, cmd
}

// applyFilters recomputes the visible tasks, keeping the selection in range
func (m *TasksModel) applyFilters() {
	query := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))

	m.tasks = m.tasks[:0:0]
	for _, t := range m.all {
		if m.visibility != "" && t.Visibility != m.visibility {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		m.tasks = append(m.tasks, t)
	}

	if m.selectedTask >= len(m.tasks) {
		m.selectedTask = len(m.tasks) - 1
	}
	if m.selectedTask < 0 {
		m.selectedTask = 0
	}
	m.clampPage()
	m.shimmer.Reset()
}

func (m *TasksModel) clampPage() {
	if m.tasksPerPage <= 0 {
		return
	}
	m.currentPage = m.selectedTask / m.tasksPerPage
}

func nextVisibility(v models.Visibility) models.Visibility {
	if v == "" {
		return models.Visibilities[0]
	}
	for i, known := range models.Visibilities {
		if known == v && i+1 < len(models.Visibilities) {
			return models.Visibilities[i+1]
		}
	}
	return ""
}

func (m TasksModel) moveSelectionUp() TasksModel {
	if m.selectedTask > 0 {
		m.selectedTask--
		m.shimmer.Reset()
		m.clampPage()
	}
	return m
}

func (m TasksModel) moveSelectionDown() TasksModel {
	if m.selectedTask < len(m.tasks)-1 {
		m.selectedTask++
		m.shimmer.Reset()
		m.clampPage()
	}
	return m
}

func (m TasksModel) pageCount() int {
	if len(m.tasks) == 0 {
		return 1
	}
	return (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
}

func (m TasksModel) prevPage() TasksModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selectedTask = m.currentPage * m.tasksPerPage
		m.shimmer.Reset()
	}
	return m
}

func (m TasksModel) nextPage() TasksModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selectedTask = m.currentPage * m.tasksPerPage
		m.shimmer.Reset()
	}
	return m
}

// View renders the TUI
func (m TasksModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	var bottom string
	switch {
	case m.focus == FocusSearch:
		bottom = m.filterInput.View()
	case m.focus == FocusModal:
		bottom = errorStyle.Render(fmt.Sprintf("Delete task #%d? y/n", m.selected().ID))
	case m.status != "":
		bottom = m.status + "   " + m.renderHelpBar()
	default:
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

// renderTaskTable renders the left panel with the task table
func (m TasksModel) renderTaskTable(width int) string {
	var b strings.Builder

	title := "📋 " + m.title
	if m.visibility != "" {
		title += "  " + VisibilityBadge(m.visibility)
	}
	if q := strings.TrimSpace(m.filterInput.Value()); q != "" && m.focus != FocusSearch {
		title += mutedStyle.Render(fmt.Sprintf("  matching %q", q))
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	if m.loading && len(m.all) == 0 {
		b.WriteString(mutedStyle.Render("Loading tasks..."))
		return m.panel(width, b.String())
	}
	if len(m.tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks found"))
		return m.panel(width, b.String())
	}

	availableWidth := width - 4
	idWidth := 6
	visWidth := 12
	nameWidth := availableWidth - idWidth - visWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)
	b.WriteString(columnHeaderStyle.Render(fmt.Sprintf("%-*s %-*s %s", idWidth, "ID", nameWidth, "NAME", "VISIBILITY")))
	b.WriteString("\n\n")

	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(m.tasks))

	for i := start; i < end; i++ {
		task := m.tasks[i]
		isSelected := i == m.selectedTask

		name := truncate(task.Name, nameWidth-1)
		if isSelected {
			name = m.shimmer.RenderShimmerText(name, nameWidth)
			name += strings.Repeat(" ", max(0, nameWidth-lipgloss.Width(name)))
		} else {
			name = fmt.Sprintf("%-*s", nameWidth, name)
		}

		row := fmt.Sprintf("%-*s %s %s", idWidth, fmt.Sprintf("#%d", task.ID), name, VisibilityBadge(task.Visibility))
		if isSelected {
			selectedBorder := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1)
			b.WriteString(selectedBorder.Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if m.pageCount() > 1 {
		pageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1)
		b.WriteString(pageStyle.Render(fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, m.pageCount(), len(m.tasks))))
	}

	return m.panel(width, b.String())
}

func (m TasksModel) panel(width int, content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(content)
}

// renderTaskDetails renders the right panel with the selected task
func (m TasksModel) renderTaskDetails(width int) string {
	task := m.selected()
	if task == nil {
		logo := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width).
			Render("taskhub")
		hint := mutedStyle.Align(lipgloss.Center).Width(width).MarginTop(2).Render("Select a task to view details")
		return m.panel(width, logo+"\n"+hint)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).Width(width - 2).Render("📋 " + task.Name))
	b.WriteString("\n\n")
	b.WriteString("Visibility: " + VisibilityBadge(task.Visibility) + "\n")

	if err, ok := m.detailErr[task.ID]; ok {
		b.WriteString("\n" + errorStyle.Render("❌ "+err.Error()))
		return m.panel(width, b.String())
	}

	detail, ok := m.details[task.ID]
	if !ok {
		b.WriteString("\n" + mutedStyle.Render("Loading details..."))
		return m.panel(width, b.String())
	}

	if detail.Owner.Name != "" {
		b.WriteString("Owner: " + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(detail.Owner.Name) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderAttachments(detail.Attachments, width-2))

	return m.panel(width, b.String())
}

// RenderAttachments renders a task's attachments grouped in arrival order
func RenderAttachments(attachments []models.Attachment, width int) string {
	if len(attachments) == 0 {
		return mutedStyle.Render("No attachments")
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	body := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	if width > 0 {
		body = body.Width(width)
	}

	var b strings.Builder
	for _, a := range attachments {
		data := a.Data
		switch a.Type {
		case models.AttachmentDueDate:
			data = parser.FormatDueDate(a.Data)
		case models.AttachmentProgress:
			data = a.Data + "%"
		case models.AttachmentWarning:
			body = body.Foreground(lipgloss.Color(ColorWarning))
		}
		b.WriteString(label.Render(attachmentIcon(a.Type)+" "+string(a.Type)) + "\n")
		b.WriteString(body.Render(data) + "\n")
		body = body.Foreground(lipgloss.Color(ColorSecondaryText))
	}
	return b.String()
}

func attachmentIcon(t models.AttachmentType) string {
	switch t {
	case models.AttachmentDescription, models.AttachmentText:
		return "📝"
	case models.AttachmentDueDate:
		return "📅"
	case models.AttachmentFile:
		return "📎"
	case models.AttachmentURL:
		return "🔗"
	case models.AttachmentTip, models.AttachmentHint:
		return "💡"
	case models.AttachmentWarning:
		return "⚠️"
	case models.AttachmentProgress:
		return "📈"
	case models.AttachmentImportance:
		return "⭐"
	default:
		return "•"
	}
}

// renderHelpBar renders the help bar with hotkey hints
func (m TasksModel) renderHelpBar() string {
	text := "↑/↓ nav · ←/→ page · / filter · v visibility · r refresh · q quit"
	if !m.readOnly {
		text = "↑/↓ nav · ←/→ page · / filter · v visibility · n new · e edit · a attach · d delete · r refresh · q quit"
	}
	return helpStyle.Align(lipgloss.Center).Width(m.width).Render(text)
}
