package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AyloRyd/taskhub/internal/models"
)

// Searcher runs a task search. An empty query returns no results.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Task, error)
}

// searchDebounceMsg fires once typing pauses; stale sequences are dropped
type searchDebounceMsg struct {
	seq   int
	query string
}

type searchResultMsg struct {
	seq   int
	query string
	tasks []models.Task
	err   error
}

// ExploreModel searches public tasks as the user types
type ExploreModel struct {
	width  int
	height int

	searcher Searcher
	debounce time.Duration

	input   textinput.Model
	spinner spinner.Model

	// seq increases on every edit; only the latest one may search or render
	seq       int
	searching bool
	query     string
	results   []models.Task
	err       error

	visibility models.Visibility
	selected   int

	shimmer *ShimmerState
	chosen  *models.Task
}

// NewExploreModel creates the explorer. initial pre-fills the search box.
func NewExploreModel(searcher Searcher, debounce time.Duration, initial string, shimmer ShimmerConfig) ExploreModel {
	in := textinput.New()
	in.Placeholder = "Search tasks by name..."
	in.Prompt = "🔍 "
	in.CharLimit = 100
	in.Width = 60
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	in.SetValue(initial)
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return ExploreModel{
		searcher: searcher,
		debounce: debounce,
		input:    in,
		spinner:  sp,
		shimmer:  NewShimmerState(shimmer),
	}
}

// Chosen returns the task picked with Enter, if any
func (m ExploreModel) Chosen() *models.Task { return m.chosen }

// Init initializes the model
func (m ExploreModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.shimmer.Tick()}
	if q := m.input.Value(); strings.TrimSpace(q) != "" {
		cmds = append(cmds, m.search(m.seq, q))
	}
	return tea.Batch(cmds...)
}

func (m ExploreModel) scheduleSearch() tea.Cmd {
	seq, query := m.seq, m.input.Value()
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, query: query}
	})
}

func (m ExploreModel) search(seq int, query string) tea.Cmd {
	searcher := m.searcher
	return func() tea.Msg {
		tasks, err := searcher.Search(context.Background(), query)
		return searchResultMsg{seq: seq, query: query, tasks: tasks, err: err}
	}
}

// Visible returns the current results after the visibility filter
func (m ExploreModel) Visible() []models.Task {
	if m.visibility == "" {
		return m.results
	}
	var out []models.Task
	for _, t := range m.results {
		if t.Visibility == m.visibility {
			out = append(out, t)
		}
	}
	return out
}

// Update handles messages
func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		return m, m.shimmer.Step(msg)

	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, m.width-10)
		return m, nil

	case searchDebounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if strings.TrimSpace(msg.query) == "" {
			m.searching = false
			m.query = ""
			m.results = nil
			m.err = nil
			return m, nil
		}
		m.searching = true
		return m, tea.Batch(m.search(msg.seq, msg.query), m.spinner.Tick)

	case searchResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.searching = false
		m.query = msg.query
		m.err = msg.err
		if msg.err == nil {
			m.results = msg.tasks
			m.selected = 0
			m.shimmer.Reset()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			visible := m.Visible()
			if m.selected < len(visible) {
				t := visible[m.selected]
				m.chosen = &t
				return m, tea.Quit
			}
			return m, nil

		case "up":
			if m.selected > 0 {
				m.selected--
				m.shimmer.Reset()
			}
			return m, nil

		case "down":
			if m.selected < len(m.Visible())-1 {
				m.selected++
				m.shimmer.Reset()
			}
			return m, nil

		case "tab":
			m.visibility = nextVisibility(m.visibility)
			m.selected = 0
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		m.seq++
		return m, tea.Batch(cmd, m.scheduleSearch())
	}

	return m, nil
}

// View renders the TUI
func (m ExploreModel) View() string {
	var b strings.Builder

	header := "🌍 Explore"
	if m.visibility != "" {
		header += "  " + VisibilityBadge(m.visibility)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.searching {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n\n")

	visible := m.Visible()
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("❌ " + m.err.Error()))
	case m.query == "":
		b.WriteString(mutedStyle.Render("Start typing to search"))
	case len(visible) == 0:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No tasks match %q", m.query)))
	default:
		width := m.width - 20
		if width < 20 {
			width = 40
		}
		for i, t := range visible {
			name := truncate(t.Name, width)
			if i == m.selected {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render("▶ "))
				b.WriteString(m.shimmer.RenderShimmerText(name, width))
			} else {
				b.WriteString("  " + name)
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", mutedStyle.Render(fmt.Sprintf("#%d", t.ID)), VisibilityBadge(t.Visibility)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("type to search · ↑/↓ select · tab visibility · enter open · esc quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
