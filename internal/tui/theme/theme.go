package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title     lipgloss.Style
	ModePill  lipgloss.Style
	Section   lipgloss.Style
	MetaLabel lipgloss.Style
	MetaValue lipgloss.Style
	StateIdle lipgloss.Style
	StateWarn lipgloss.Style
	StateLoad lipgloss.Style

	Card        lipgloss.Style
	CardFocused lipgloss.Style
	CardTitle   lipgloss.Style
	Branding    lipgloss.Style
	Thumbnail   lipgloss.Style
	Destination lipgloss.Style
	Dismiss     lipgloss.Style
	SlotError   lipgloss.Style
	Notice      lipgloss.Style
	MiniTab     lipgloss.Style
	Toggle      lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cpSurface2).
		Padding(0, 1)

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:  lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:   lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		MetaLabel: lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue: lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle: lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn: lipgloss.NewStyle().Foreground(cpRed),
		StateLoad: lipgloss.NewStyle().Foreground(cpPeach),

		Card:        card,
		CardFocused: card.BorderForeground(cpMauve),
		CardTitle:   lipgloss.NewStyle().Bold(true).Foreground(cpText),
		Branding:    lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0),
		Thumbnail:   lipgloss.NewStyle().Foreground(cpOverlay1).Faint(true),
		Destination: lipgloss.NewStyle().Foreground(cpBlue).Faint(true),
		Dismiss:     lipgloss.NewStyle().Foreground(cpOverlay1),
		SlotError:   lipgloss.NewStyle().Foreground(cpRed),
		Notice:      lipgloss.NewStyle().Foreground(cpYellow),
		MiniTab:     lipgloss.NewStyle().Foreground(cpSurface0).Background(cpMauve).Bold(true).Padding(0, 1),
		Toggle:      lipgloss.NewStyle().Foreground(cpLavender),
	}
}

// CardStyle picks the border for a card depending on focus.
func (t Theme) CardStyle(focused bool) lipgloss.Style {
	if focused {
		return t.CardFocused
	}
	return t.Card
}

// StateLabel colors a phase label the way the status line shows it.
func (t Theme) StateLabel(state string) string {
	switch state {
	case "error", "empty":
		return t.StateWarn.Render(state)
	case "loading":
		return t.StateLoad.Render(state)
	default:
		return t.StateIdle.Render(state)
	}
}
