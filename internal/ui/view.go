package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/waitwatch/internal/state"
	"github.com/five82/waitwatch/internal/waitlist"
)

const (
	maxRowWidth = 36
	minRowWidth = 20
)

// renderMain renders the option list with its header, alert and footer.
func (m Model) renderMain() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	for i, opt := range m.options {
		b.WriteString(m.renderOption(i, opt))
		b.WriteString("\n")
	}

	if m.snapshot.Loading {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(styles.MutedText.Render(" Updating..."))
		b.WriteString("\n")
	}

	if m.alert {
		b.WriteString("\n")
		b.WriteString(m.renderAlert())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(styles.AccentText.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderHeader renders the logo and the current selection summary.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	parts := []string{styles.Logo.Render("WAITWATCH")}
	if m.snapshot.HasSelection() {
		parts = append(parts, styles.Text.Render(m.snapshot.Selected.Label()))
	} else {
		parts = append(parts, styles.WarningText.Render("Waiting for server..."))
	}
	if !m.snapshot.UpdatedAt.IsZero() {
		parts = append(parts, styles.FaintText.Render(m.snapshot.UpdatedAt.Format("15:04:05")))
	}
	return strings.Join(parts, "  ")
}

func (m Model) rowWidth() int {
	w := m.width - 2
	if w > maxRowWidth {
		w = maxRowWidth
	}
	if w < minRowWidth {
		w = minRowWidth
	}
	return w
}

// renderOption renders one bucket button. The selected bucket turns black
// with a check mark, matching the watch face it replaces.
func (m Model) renderOption(i int, opt waitlist.Option) string {
	styles := m.theme.Styles()
	width := m.rowWidth()
	selected := m.snapshot.Selected == opt.ID

	bg := m.theme.OptionColor(opt.Color)
	left := "  " + opt.Label
	right := ""
	if selected {
		bg = m.theme.Selected
		left = "✓ " + opt.Label
		right = "SELECTED"
		if m.flash {
			bg = m.theme.Success
		}
	}

	inner := width - 2 // Row padding
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	content := left + strings.Repeat(" ", gap) + right

	style := styles.Row.Background(lipgloss.Color(bg)).Width(width)
	if m.disabled() {
		style = style.Faint(true)
	}

	marker := "  "
	if i == m.cursor {
		marker = styles.AccentText.Render("› ")
	}
	return marker + style.Render(content)
}

// renderAlert renders the status message box.
func (m Model) renderAlert() string {
	styles := m.theme.Styles()
	msg := m.snapshot.Message

	title := styles.Text.Bold(true).Render("Update Status")
	body := msg.Text
	border := m.theme.Border
	switch msg.Level {
	case state.LevelSuccess:
		body = styles.SuccessText.Render(body)
		border = m.theme.Success
	case state.LevelError:
		body = styles.DangerText.Render(body)
		border = m.theme.Danger
	}
	ok := styles.FaintText.Render(fmt.Sprintf("[ OK ] %s", m.keys.Dismiss.Help().Key))

	return styles.Alert.
		BorderForeground(lipgloss.Color(border)).
		Width(m.rowWidth()).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body, ok))
}
