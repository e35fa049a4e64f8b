package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	deckStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	frontStyle = lipgloss.NewStyle().
			Bold(true)

	answerLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true)

	doneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	gradeStyles = map[string]lipgloss.Style{
		"Again": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"Hard":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"Good":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"Easy":  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
)
