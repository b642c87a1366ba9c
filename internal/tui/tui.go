package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// run starts a full-screen program and returns its final model
func run[M tea.Model](model M) (M, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return model, err
	}

	m, ok := finalModel.(M)
	if !ok {
		return model, fmt.Errorf("unexpected model type %T", finalModel)
	}
	return m, nil
}

// RunForm shows a form until it is submitted or cancelled
func RunForm(title string, fields []Field, submit SubmitFunc, shimmer ShimmerConfig) (FormModel, error) {
	return run(NewFormModel(title, fields, submit, shimmer))
}

// RunTasks shows the task browser
func RunTasks(title string, source TaskSource, readOnly bool, shimmer ShimmerConfig) (TasksModel, error) {
	return run(NewTasksModel(title, source, readOnly, shimmer))
}

// RunExplore shows the search explorer
func RunExplore(model ExploreModel) (ExploreModel, error) {
	return run(model)
}
