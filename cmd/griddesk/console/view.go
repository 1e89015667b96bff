package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"griddesk/internal/catalog"
	"griddesk/internal/notify"
)

// View renders the active page between a header and a footer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("griddesk"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Content.Render(m.spin.View() + " Loading..."))
	case m.mode == SiteListView:
		b.WriteString(m.siteList.View())
	case m.mode == SitePageView:
		b.WriteString(m.renderSitePage())
	case m.mode == DeviceListView:
		b.WriteString(m.deviceList.View())
	case m.mode == DevicePageView:
		b.WriteString(m.renderDevicePage())
	case m.mode == HelpView:
		b.WriteString(m.helpView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderSitePage() string {
	if m.site == nil {
		return m.styles.Muted.Render("No site loaded")
	}
	var parts []string
	title := fmt.Sprintf("%s  %s", m.site.Name, m.styles.Subtitle.Render(m.site.Status))
	parts = append(parts, m.styles.Title.Render(title))

	width := m.width
	if width <= 0 {
		width = 80
	}
	for i, c := range m.siteCards {
		parts = append(parts, c.View(m.styles, width, i == m.focusCard))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderDevicePage() string {
	if m.device == nil {
		return m.styles.Muted.Render("No device loaded")
	}
	header := fmt.Sprintf("%s  %s", m.device.Name,
		m.styles.Subtitle.Render(catalog.DisplayName(m.device.Category)))
	if m.device.Decommissioned() {
		header += "  " + m.styles.Warning.Render("decommissioned")
	}
	parts := []string{m.styles.Title.Render(header)}

	width := m.width
	if width <= 0 {
		width = 80
	}
	for i, c := range m.deviceCards {
		parts = append(parts, c.View(m.styles, width, i == m.focusDevice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderFooter() string {
	hint := "? help  q quit"
	switch m.mode {
	case SiteListView:
		hint = "enter open site  ? help  q quit"
	case SitePageView:
		hint = "e edit  tab next card  d devices  r refresh  esc back"
	case DeviceListView:
		hint = "enter open device  esc back"
	case DevicePageView:
		hint = "e edit  tab next card  esc back"
	case HelpView:
		hint = "esc back"
	}

	toast := ""
	if n, ok := m.notifier.Latest(); ok {
		switch n.Level {
		case notify.LevelSuccess:
			toast = m.styles.Success.Render("✓ " + n.Message)
		case notify.LevelError:
			toast = m.styles.Error.Render("✗ " + n.Message)
		default:
			toast = m.styles.Info.Render(n.Message)
		}
	}
	if toast != "" {
		return m.styles.Footer.Render(toast + "   " + hint)
	}
	return m.styles.Footer.Render(hint)
}

const helpMarkdown = `# griddesk

Terminal back-office console for the solar fleet.

## Navigation

| Key | Action |
| --- | ------ |
| enter | open the selected site or device |
| d | device list for the current site |
| tab / shift+tab | move focus between cards |
| r | refresh the current site, bypassing the snapshot cache |
| esc | back |
| q | quit |

## Editing

Press **e** on a focused card to edit it. While editing:

- **tab** moves between fields, validation runs on every keystroke
- **enter** saves when the form is valid and dirty
- **esc** cancels and restores the last saved values

A successful save refreshes the whole site so every card shows
authoritative data. A failed save keeps your input so nothing is lost.
`

func (m Model) renderHelp() string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(40, m.width-6)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
