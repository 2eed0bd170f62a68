// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "github.com/charmbracelet/lipgloss"

// Status line styles. lipgloss drops the colors when output is not a terminal.
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E")).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB84D"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)
)
