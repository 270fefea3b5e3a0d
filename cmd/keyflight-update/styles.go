package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")).Width(20)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	notesStyle   = lipgloss.NewStyle().PaddingLeft(2)
)
