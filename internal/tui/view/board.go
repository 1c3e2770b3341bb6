package view

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/sponsored-cli/internal/recommend"
	tuistate "github.com/glabrego/sponsored-cli/internal/tui/state"
	tuitheme "github.com/glabrego/sponsored-cli/internal/tui/theme"
	"github.com/glabrego/sponsored-cli/internal/widget"
)

const (
	desktopCardWidth = 34
	maxGridColumns   = 5

	loadingText     = "Loading recommendations..."
	slotLoadingText = "Loading a new recommendation..."
	slotErrorText   = "Could not load a new recommendation."
)

// SlotState is the display state of a single card.
type SlotState int

const (
	SlotReady SlotState = iota
	SlotLoading
	SlotFailed
)

type slot struct {
	rec   recommend.Recommendation
	token string
	state SlotState
}

// Card is what a rendered slot shows. Branding is only present when the
// record carries one.
type Card struct {
	Slot        int
	ID          string
	Title       string
	Destination string
	Thumbnail   string
	Branding    string
	HasBranding bool
	State       SlotState
}

// Board is the terminal surface of the widget.
type Board struct {
	theme tuitheme.Theme

	created  bool
	mode     widget.ViewportMode
	rebuilds int

	loading      bool
	errorMsg     string
	errorVisible bool
	emptyMsg     string
	emptyVisible bool

	slots []*slot
	focus int

	collapsed  bool
	tabVisible bool
	toggle     bool
}

// NewBoard returns an empty board. Regions are created on first use.
func NewBoard(th tuitheme.Theme) *Board {
	return &Board{theme: th}
}

// EnsureRegions creates the widget regions once for mode.
func (b *Board) EnsureRegions(mode widget.ViewportMode) {
	if b.created {
		return
	}
	b.created = true
	b.mode = mode
}

// Rebuild discards every region and recreates them for mode in the
// loading state.
func (b *Board) Rebuild(mode widget.ViewportMode) {
	b.created = true
	b.mode = mode
	b.rebuilds++
	b.loading = true
	b.errorVisible = false
	b.emptyVisible = false
	b.slots = nil
	b.focus = 0
}

func (b *Board) SetLoading(visible bool) { b.loading = visible }

// ShowError shows message with the Try Again affordance.
func (b *Board) ShowError(message string) {
	b.errorMsg = message
	b.errorVisible = true
}

func (b *Board) HideError() { b.errorVisible = false }

// ShowEmpty replaces the grid with message.
func (b *Board) ShowEmpty(message string) {
	b.emptyMsg = message
	b.emptyVisible = true
}

// ClearGrid removes every card and resets focus.
func (b *Board) ClearGrid() {
	b.slots = nil
	b.emptyVisible = false
	b.focus = 0
}

// AppendItem adds a ready card after the last slot.
func (b *Board) AppendItem(rec recommend.Recommendation) {
	b.slots = append(b.slots, &slot{rec: rec})
}

func (b *Board) find(i int) *slot {
	if i < 0 || i >= len(b.slots) {
		return nil
	}
	return b.slots[i]
}

// SlotToken returns the replacement token held by slot i.
func (b *Board) SlotToken(i int) (string, bool) {
	s := b.find(i)
	if s == nil {
		return "", false
	}
	return s.token, true
}

// MarkSlotLoading shows the loading placeholder in slot i and records token.
func (b *Board) MarkSlotLoading(i int, token string) bool {
	s := b.find(i)
	if s == nil {
		return false
	}
	s.token = token
	s.state = SlotLoading
	return true
}

// ReplaceSlot swaps the card in slot i for rec and clears its token.
func (b *Board) ReplaceSlot(i int, rec recommend.Recommendation) bool {
	s := b.find(i)
	if s == nil {
		return false
	}
	*s = slot{rec: rec}
	return true
}

// MarkSlotError shows the failure message in slot i.
func (b *Board) MarkSlotError(i int) bool {
	s := b.find(i)
	if s == nil {
		return false
	}
	s.state = SlotFailed
	return true
}

// SetCollapsed hides the grid behind the mobile tab when true.
func (b *Board) SetCollapsed(collapsed bool) { b.collapsed = collapsed }

// SetTabVisible shows or hides the collapsed tab.
func (b *Board) SetTabVisible(visible bool) { b.tabVisible = visible }

// SetToggleInstalled enables the toggle hint on the mobile tab.
func (b *Board) SetToggleInstalled(install bool) { b.toggle = install }

// Mode returns the mode the regions were last built for.
func (b *Board) Mode() widget.ViewportMode { return b.mode }

// Rebuilds counts calls to Rebuild.
func (b *Board) Rebuilds() int { return b.rebuilds }

// Collapsed reports whether the grid is hidden behind the tab.
func (b *Board) Collapsed() bool { return b.collapsed }

// MoveFocus cycles the focused card.
func (b *Board) MoveFocus(delta int) {
	b.focus = tuistate.WrapCursor(b.focus, delta, len(b.slots))
}

// Focused returns the card under focus.
func (b *Board) Focused() (Card, bool) {
	if len(b.slots) == 0 || (b.mode == widget.ModeMobile && b.collapsed) {
		return Card{}, false
	}
	i := tuistate.ClampCursor(b.focus, len(b.slots))
	return cardFor(i, b.slots[i]), true
}

// Cards reads back every slot in display order.
func (b *Board) Cards() []Card {
	out := make([]Card, 0, len(b.slots))
	for i, s := range b.slots {
		out = append(out, cardFor(i, s))
	}
	return out
}

func cardFor(i int, s *slot) Card {
	branding := strings.TrimSpace(s.rec.Branding)
	return Card{
		Slot:        i,
		ID:          s.rec.ID,
		Title:       s.rec.Title,
		Destination: s.rec.Destination,
		Thumbnail:   s.rec.Thumbnail(),
		Branding:    branding,
		HasBranding: branding != "",
		State:       s.state,
	}
}

// Render draws the widget for a terminal of width columns. spinner is the
// current loading frame.
func (b *Board) Render(width int, spinner string) string {
	if !b.created || width < 1 {
		return ""
	}
	if b.mode == widget.ModeMobile && b.collapsed {
		if b.tabVisible {
			return b.theme.MiniTab.Render("▲ Sponsored  t show")
		}
		return ""
	}

	header := b.theme.Section.Render("Sponsored")
	if b.toggle {
		header += "  " + b.theme.Toggle.Render("t hide")
	}
	parts := []string{header}
	if b.loading {
		parts = append(parts, strings.TrimSpace(spinner+" "+loadingText))
	}
	if b.errorVisible {
		parts = append(parts, b.theme.SlotError.Render(b.errorMsg)+"  "+b.theme.MetaLabel.Render("r Try Again"))
	}
	if b.emptyVisible {
		parts = append(parts, b.theme.MetaValue.Render(b.emptyMsg)+"  "+b.theme.MetaLabel.Render("r Retry"))
	}
	if len(b.slots) > 0 {
		parts = append(parts, b.renderGrid(width))
	}
	return strings.Join(parts, "\n")
}

func (b *Board) renderGrid(width int) string {
	focus := tuistate.ClampCursor(b.focus, len(b.slots))
	if b.mode == widget.ModeMobile {
		cards := make([]string, 0, len(b.slots))
		for i := range b.slots {
			cards = append(cards, b.renderCard(i, width, i == focus))
		}
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	cols := tuistate.GridColumns(width, desktopCardWidth, min(maxGridColumns, len(b.slots)))
	cardWidth := width / cols
	rows := make([]string, 0, len(b.slots)/cols+1)
	for start := 0; start < len(b.slots); start += cols {
		end := min(start+cols, len(b.slots))
		row := make([]string, 0, cols)
		for i := start; i < end; i++ {
			row = append(row, b.renderCard(i, cardWidth, i == focus))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (b *Board) renderCard(i, width int, focused bool) string {
	style := b.theme.CardStyle(focused)
	inner := max(1, width-style.GetHorizontalFrameSize())
	card := cardFor(i, b.slots[i])

	lines := make([]string, 0, 5)
	switch card.State {
	case SlotLoading:
		lines = append(lines, b.theme.MetaLabel.Render(slotLoadingText))
	case SlotFailed:
		lines = append(lines,
			b.theme.SlotError.Render(slotErrorText),
			b.theme.MetaLabel.Render("r Retry"),
		)
	default:
		lines = append(lines, b.theme.CardTitle.Render(card.Title))
		if card.HasBranding {
			lines = append(lines, b.theme.Branding.Render(card.Branding))
		}
		lines = append(lines,
			b.theme.Thumbnail.Render("▣ "+shortURL(card.Thumbnail)),
			b.theme.Destination.Render("→ "+shortURL(card.Destination)),
		)
	}
	if focused {
		lines = append(lines, b.theme.Dismiss.Render("✕ x dismiss · enter open"))
	}
	return style.Width(inner + style.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
}

// shortURL keeps the host and path of u, which is enough to recognise a
// link in a narrow card.
func shortURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return u
	}
	return parsed.Host + parsed.EscapedPath()
}
