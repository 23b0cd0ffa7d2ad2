package ui

import tea "github.com/charmbracelet/bubbletea"

// Run blocks until the player quits the terminal UI.
func Run(engine enginePort, prefs themePort) error {
	model := NewModel(engine, prefs)
	defer model.Close()

	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
