package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AyloRyd/taskhub/internal/api"
)

// Field describes one step of a form
type Field struct {
	Key         string
	Label       string
	Icon        string
	Placeholder string
	Initial     string
	CharLimit   int
	Required    bool
	Password    bool
	// Choices turns the field into a selector cycled with ←/→
	Choices []string
	// Validate runs when leaving the field; nil accepts anything
	Validate func(value string) error
}

// SubmitFunc performs the form's action and returns a success message
type SubmitFunc func(ctx context.Context, values map[string]string) (string, error)

// FormModel is a step-by-step form with a live summary panel
type FormModel struct {
	title  string
	fields []Field
	inputs []textinput.Model
	choice []int

	// current == len(fields) is the submit step
	current int
	width   int
	height  int

	submit     SubmitFunc
	submitting bool
	spinner    spinner.Model

	validationErr string
	serverErrs    []string

	shimmer *ShimmerState

	showSaveModal   bool
	saveModalChoice bool // true for Yes, false for No

	completed bool
	cancelled bool
	message   string
	err       error
}

type submitDoneMsg struct {
	message string
	err     error
}

// NewFormModel creates a form over fields
func NewFormModel(title string, fields []Field, submit SubmitFunc, shimmer ShimmerConfig) FormModel {
	inputs := make([]textinput.Model, len(fields))
	choice := make([]int, len(fields))

	for i, f := range fields {
		in := textinput.New()
		in.Width = 60
		in.Placeholder = f.Placeholder
		in.CharLimit = f.CharLimit
		if in.CharLimit == 0 {
			in.CharLimit = 200
		}
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
		if f.Password {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}

		if len(f.Choices) > 0 {
			for j, c := range f.Choices {
				if strings.EqualFold(c, f.Initial) {
					choice[i] = j
				}
			}
			in.SetValue(f.Choices[choice[i]])
		} else if f.Initial != "" {
			in.SetValue(f.Initial)
		}
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return FormModel{
		title:   title,
		fields:  fields,
		inputs:  inputs,
		choice:  choice,
		submit:  submit,
		spinner: sp,
		shimmer: NewShimmerState(shimmer),
	}
}

// Init initializes the model
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.shimmer.Tick())
}

// Values returns the current field values keyed by Field.Key
func (m FormModel) Values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		v := m.inputs[i].Value()
		if !f.Password {
			v = strings.TrimSpace(v)
		}
		values[f.Key] = v
	}
	return values
}

// Completed reports whether the form was submitted successfully
func (m FormModel) Completed() bool { return m.completed }

// Cancelled reports whether the user left without submitting
func (m FormModel) Cancelled() bool { return m.cancelled }

// Message is the success message returned by the submit action
func (m FormModel) Message() string { return m.message }

// Err is the last submit error
func (m FormModel) Err() error { return m.err }

// Update handles messages
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		return m, m.shimmer.Step(msg)

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.validationErr, m.serverErrs = describeError(msg.err)
			return m, nil
		}
		m.completed = true
		m.message = msg.message
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		maxInputWidth := (m.width * 2 / 3) - 10
		if maxInputWidth < 30 {
			maxInputWidth = 30
		}
		if maxInputWidth > 80 {
			maxInputWidth = 80
		}
		for i := range m.inputs {
			m.inputs[i].Width = maxInputWidth
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			if msg.String() == "ctrl+c" {
				m.cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}

		if m.showSaveModal {
			return m.handleModalKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "esc":
			if m.onSubmitStep() {
				return m.prevStep()
			}
			if !m.hasChanges() {
				m.cancelled = true
				return m, tea.Quit
			}
			m.showSaveModal = true
			m.saveModalChoice = true
			return m, nil

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			if err := m.validateCurrent(); err != nil {
				m.validationErr = err.Error()
				return m, nil
			}
			return m.nextStep()

		case "shift+tab", "up":
			return m.prevStep()

		case "left", "right":
			if !m.onSubmitStep() && len(m.fields[m.current].Choices) > 0 {
				m.cycleChoice(msg.String() == "right")
				return m, nil
			}
		}

		// Choice fields ignore typing
		if !m.onSubmitStep() && len(m.fields[m.current].Choices) > 0 {
			return m, nil
		}
	}

	var cmd tea.Cmd
	if !m.onSubmitStep() {
		m.inputs[m.current], cmd = m.inputs[m.current].Update(msg)
	}
	return m, cmd
}

func (m FormModel) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right":
		m.saveModalChoice = !m.saveModalChoice
	case "y", "Y":
		m.saveModalChoice = true
		return m.handleSaveChoice()
	case "n", "N":
		m.saveModalChoice = false
		return m.handleSaveChoice()
	case "enter":
		return m.handleSaveChoice()
	case "esc":
		m.showSaveModal = false
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m FormModel) onSubmitStep() bool {
	return m.current >= len(m.fields)
}

func (m *FormModel) cycleChoice(forward bool) {
	n := len(m.fields[m.current].Choices)
	if forward {
		m.choice[m.current] = (m.choice[m.current] + 1) % n
	} else {
		m.choice[m.current] = (m.choice[m.current] + n - 1) % n
	}
	m.inputs[m.current].SetValue(m.fields[m.current].Choices[m.choice[m.current]])
}

func (m FormModel) validateCurrent() error {
	if m.onSubmitStep() {
		return nil
	}
	return validateField(m.fields[m.current], m.inputs[m.current].Value())
}

func validateField(f Field, value string) error {
	if f.Required && strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", f.Label)
	}
	if f.Validate != nil && strings.TrimSpace(value) != "" {
		return f.Validate(value)
	}
	return nil
}

// handleEnter processes the Enter key
func (m FormModel) handleEnter() (tea.Model, tea.Cmd) {
	m.validationErr = ""

	if m.onSubmitStep() {
		return m.startSubmit()
	}
	if err := m.validateCurrent(); err != nil {
		m.validationErr = err.Error()
		return m, nil
	}
	return m.nextStep()
}

func (m FormModel) nextStep() (FormModel, tea.Cmd) {
	m.validationErr = ""
	if m.onSubmitStep() {
		return m, nil
	}
	m.inputs[m.current].Blur()
	m.current++
	if !m.onSubmitStep() {
		m.inputs[m.current].Focus()
	}
	m.shimmer.Reset()
	return m, textinput.Blink
}

func (m FormModel) prevStep() (FormModel, tea.Cmd) {
	m.validationErr = ""
	if m.current == 0 {
		return m, nil
	}
	if !m.onSubmitStep() {
		m.inputs[m.current].Blur()
	}
	m.current--
	m.inputs[m.current].Focus()
	m.shimmer.Reset()
	return m, textinput.Blink
}

func (m FormModel) hasChanges() bool {
	for i, f := range m.fields {
		initial := f.Initial
		if len(f.Choices) > 0 {
			initial = m.fields[i].Choices[0]
			for _, c := range f.Choices {
				if strings.EqualFold(c, f.Initial) {
					initial = c
				}
			}
		}
		if strings.TrimSpace(m.inputs[i].Value()) != strings.TrimSpace(initial) {
			return true
		}
	}
	return false
}

// startSubmit validates every field, then runs the submit action in the background
func (m FormModel) startSubmit() (tea.Model, tea.Cmd) {
	for i, f := range m.fields {
		if err := validateField(f, m.inputs[i].Value()); err != nil {
			m.current = i
			for j := range m.inputs {
				m.inputs[j].Blur()
			}
			m.inputs[i].Focus()
			m.validationErr = err.Error()
			return m, textinput.Blink
		}
	}

	m.submitting = true
	m.validationErr = ""
	m.serverErrs = nil
	values := m.Values()
	submit := m.submit

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		msg, err := submit(context.Background(), values)
		return submitDoneMsg{message: msg, err: err}
	})
}

func (m FormModel) handleSaveChoice() (tea.Model, tea.Cmd) {
	m.showSaveModal = false
	if m.saveModalChoice {
		return m.startSubmit()
	}
	m.cancelled = true
	return m, tea.Quit
}

// describeError splits an error into a headline and per-field lines
func describeError(err error) (string, []string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		headline := apiErr.Description
		if headline == "" {
			headline = apiErr.Kind.String() + " error"
		}
		return headline, apiErr.FieldMessages()
	}
	return err.Error(), nil
}

// View renders the TUI
func (m FormModel) View() string {
	if m.cancelled || m.completed {
		return ""
	}

	if m.width < 85 {
		return m.renderSmallLayout()
	}

	rightWidth := 50
	leftWidth := m.width - rightWidth - 4

	leftStyle := lipgloss.NewStyle().
		Width(leftWidth).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)

	rightStyle := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height - 2).
		Padding(1)

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(m.renderWizard()),
		" ",
		rightStyle.Render(m.renderSummary(rightWidth-4)),
	)

	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return mainView
}

func (m FormModel) renderSmallLayout() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1)
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return style.Render(m.renderWizard())
}

func (m FormModel) renderWizard() string {
	var b strings.Builder

	b.WriteString(headerStyle.MarginBottom(1).Render(m.title))
	b.WriteString("\n\n")

	current := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	skipped := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	future := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	for i, f := range m.fields {
		hasValue := strings.TrimSpace(m.inputs[i].Value()) != ""
		switch {
		case i == m.current:
			b.WriteString(current.Render("▶ " + f.Label))
		case i < m.current && hasValue:
			b.WriteString(done.Render("✓ " + f.Label))
		case i < m.current:
			b.WriteString(skipped.Render("  " + f.Label))
		default:
			b.WriteString(future.Render("  " + f.Label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.onSubmitStep() {
		b.WriteString(current.Render("▶ 💾 Submit"))
	} else {
		b.WriteString(future.Render("  💾 Submit"))
	}
	b.WriteString("\n\n")

	if m.onSubmitStep() {
		if m.submitting {
			b.WriteString(m.spinner.View() + " Sending...")
		} else {
			b.WriteString("Press Enter to submit")
		}
	} else {
		f := m.fields[m.current]
		label := f.Label
		if f.Icon != "" {
			label = f.Icon + " " + label
		}
		b.WriteString(label + "\n")
		if len(f.Choices) > 0 {
			b.WriteString(m.renderChoices(m.current))
		} else {
			b.WriteString(m.inputs[m.current].View())
		}
	}

	if m.validationErr != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("❌ " + m.validationErr))
	}
	for _, line := range m.serverErrs {
		b.WriteString("\n")
		b.WriteString(errorStyle.UnsetBold().Render("   " + line))
	}

	b.WriteString("\n\n")
	help := "Enter: Next | Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"
	if !m.onSubmitStep() && len(m.fields[m.current].Choices) > 0 {
		help = "←/→: Choose | " + help
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m FormModel) renderChoices(i int) string {
	selected := lipgloss.NewStyle().
		Background(lipgloss.Color(ColorAccentBright)).
		Foreground(lipgloss.Color("#000000")).
		Bold(true).
		Padding(0, 1)
	plain := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Padding(0, 1)

	var parts []string
	for j, c := range m.fields[i].Choices {
		if j == m.choice[i] {
			parts = append(parts, selected.Render(c))
		} else {
			parts = append(parts, plain.Render(c))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// renderSummary renders the live summary card
func (m FormModel) renderSummary(width int) string {
	var card strings.Builder

	headline := "taskhub"
	if len(m.fields) > 0 && !m.fields[0].Password {
		if v := strings.TrimSpace(m.inputs[0].Value()); v != "" {
			headline = v
		}
	}
	titleBox := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Center).
		Width(width - 4)
	card.WriteString(titleBox.Render(m.shimmer.RenderShimmerText(headline, width-8)))
	card.WriteString("\n")

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	for i, f := range m.fields {
		v := m.inputs[i].Value()
		switch {
		case v == "":
			v = mutedStyle.Render("-")
		case f.Password:
			v = strings.Repeat("•", len([]rune(v)))
		}
		card.WriteString(fmt.Sprintf("%s %s\n", label.Render(f.Label+":"), truncate(v, width)))
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width).
		Padding(1)
	return cardStyle.Render(card.String())
}

// renderSaveModal renders the submit confirmation modal overlay
func (m FormModel) renderSaveModal() string {
	var content strings.Builder
	content.WriteString("Submit before leaving?\n\n")

	yesStyle := lipgloss.NewStyle().Padding(0, 2)
	noStyle := lipgloss.NewStyle().Padding(0, 2)
	if m.saveModalChoice {
		yesStyle = yesStyle.
			Background(lipgloss.Color(ColorAccentBright)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
	} else {
		noStyle = noStyle.
			Background(lipgloss.Color(ColorError)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
	}

	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, yesStyle.Render("Yes"), "   ", noStyle.Render("No")))
	content.WriteString("\n\n")
	content.WriteString("← → or Y/N to choose, Enter to confirm\nEsc to go back")

	modal := lipgloss.NewStyle().
		Width(50).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center).
		Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
