package card

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"griddesk/internal/ui"
)

// View renders the card. View mode shows the committed values with the edit
// affordance on the title row; edit mode shows the live inputs with inline
// errors and the Save/Cancel actions gated by the reflected state.
func (c Card) View(st ui.Styles, width int, focused bool) string {
	var b strings.Builder

	title := st.CardTitle.Render(c.title)
	switch {
	case c.mode == ModeView && c.editAllowed:
		title += "  " + st.EditHint.Render("[e] "+c.TestID())
	case c.mode == ModeView:
		title += "  " + st.Muted.Render("read-only")
	}
	b.WriteString(title)
	b.WriteString("\n")

	labelWidth := 0
	for _, f := range c.form.Schema.Fields {
		if len(f.Label) > labelWidth {
			labelWidth = len(f.Label)
		}
	}
	label := func(s string) string {
		return st.FieldLabel.Render(padRight(s, labelWidth))
	}

	for i, f := range c.form.Schema.Fields {
		b.WriteString("\n")
		if c.mode == ModeView {
			value := c.form.DisplayValue(i)
			if value == "" {
				value = st.Muted.Render("—")
			} else {
				value = st.FieldValue.Render(value)
			}
			b.WriteString(label(f.Label) + "  " + value)
			continue
		}

		cursor := "  "
		if i == c.form.FocusIndex() {
			cursor = st.EditHint.Render("> ")
		}
		b.WriteString(cursor + label(f.Label) + "  " + c.form.InputView(i))
		if errMsg := c.form.Error(i); errMsg != "" {
			b.WriteString("\n" + strings.Repeat(" ", labelWidth+4) + st.FieldError.Render(errMsg))
		}
	}

	if c.mode == ModeEdit {
		b.WriteString("\n\n")
		if c.form.State().Submitting {
			b.WriteString(st.Muted.Render("Saving..."))
		} else {
			b.WriteString(button(st, "Save", c.SaveEnabled()) + " " + button(st, "Cancel", c.CancelEnabled()))
		}
	}

	frame := st.CardFrame
	if focused {
		frame = st.CardFrameFocused
	}
	if width > 4 {
		frame = frame.Width(width - 2)
	}
	return frame.Render(b.String())
}

func button(st ui.Styles, text string, enabled bool) string {
	if enabled {
		return st.ButtonEnabled.Render(" " + text + " ")
	}
	return st.ButtonDisabled.Render(" " + text + " ")
}

func padRight(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
