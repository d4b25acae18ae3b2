package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.endpoint != "" {
		b.WriteString(styles.MutedText.Render("Endpoint: " + m.endpoint))
		b.WriteString("\n")
	}
	if m.pollEvery > 0 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("Refresh: every %s", m.pollEvery)))
		b.WriteString("\n")
	}
	bell := "off"
	if m.bell {
		bell = "on"
	}
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("Theme: %s  Bell: %s", m.theme.Name, bell)))

	modal := styles.Modal.Width(56)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
