// Package ui holds harbor's terminal presentation: shared lipgloss styles
// and the interactive service selector used by dock.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	SuccessStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	DimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
)
