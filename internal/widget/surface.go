package widget

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/sponsored-cli/internal/recommend"
)

// Provider supplies recommendations. An empty result is not an error; an
// error means the call itself failed.
type Provider interface {
	Fetch(ctx context.Context, count int) ([]recommend.Recommendation, error)
}

// Navigator opens a destination in a new browsing context.
type Navigator interface {
	Open(destination string) error
}

// Surface is where the widget draws. Slots are addressed by their position
// in display order, which is also their index in State.Items, so two slots
// showing the same recommendation stay distinct. A slot carries the loading
// token of the replacement currently targeting it, if any.
type Surface interface {
	// EnsureRegions creates the loading, error, empty and grid regions on
	// first use and is a no-op afterwards.
	EnsureRegions(mode ViewportMode)
	// Rebuild discards and recreates every region for mode.
	Rebuild(mode ViewportMode)

	SetLoading(visible bool)
	ShowError(message string)
	HideError()
	ShowEmpty(message string)

	ClearGrid()
	AppendItem(rec recommend.Recommendation)
	SlotToken(slot int) (string, bool)
	MarkSlotLoading(slot int, token string) bool
	ReplaceSlot(slot int, rec recommend.Recommendation) bool
	MarkSlotError(slot int) bool

	SetCollapsed(collapsed bool)
	SetTabVisible(visible bool)
	SetToggleInstalled(installed bool)
}

// Host is what a ResponsiveBehavior may call back into.
type Host interface {
	Rerender()
}

// ResponsiveBehavior is an optional capability applied after every
// successful load. Implementations that also expose Mode() decide the mode
// regions are created for, and those exposing Update receive messages the
// controller does not handle itself.
type ResponsiveBehavior interface {
	Apply(host Host) tea.Cmd
}

type modeReporter interface {
	Mode() ViewportMode
}

type messageHandler interface {
	Update(msg tea.Msg) (tea.Cmd, bool)
}
