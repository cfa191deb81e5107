package main

import (
	"fmt"

	"pelicanstore/pkg/credential"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Style definitions
var (
	primaryColor = lipgloss.Color("#FF79C6") // Pink
	accentColor  = lipgloss.Color("#50FA7B") // Green
	mutedColor   = lipgloss.Color("#6272A4") // Comment
	bgLightColor = lipgloss.Color("#44475A") // Current Line
	fgColor      = lipgloss.Color("#F8F8F2") // Foreground

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Background(bgLightColor).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// renderMappings renders the credential mapping table, longest prefix
// first, matching the lookup order.
func renderMappings(federationHost string, mappings *credential.Table) string {
	title := titleStyle.Render(fmt.Sprintf("Token Mappings (federation: %s)", federationHost))

	if mappings.Len() == 0 {
		return title + "\n" + mutedStyle.Render("no token mappings configured; access is anonymous")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(bgLightColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return rowStyle.Copy().Foreground(fgColor)
		})

	t.Headers("URL PREFIX", "TOKEN FILE")

	for _, m := range mappings.Entries() {
		prefix := m.Prefix
		if prefix == "" {
			prefix = "(default)"
		}
		t.Row(prefix, m.TokenPath)
	}

	return title + "\n" + t.Render()
}
