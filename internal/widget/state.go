package widget

import "github.com/glabrego/sponsored-cli/internal/recommend"

// Phase is the controller's coarse lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseEmpty
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseEmpty:
		return "empty"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

type ViewportMode int

const (
	ModeDesktop ViewportMode = iota
	ModeMobile
)

func (m ViewportMode) String() string {
	if m == ModeMobile {
		return "mobile"
	}
	return "desktop"
}

// Visibility only matters in mobile mode.
type Visibility int

const (
	Expanded Visibility = iota
	Collapsed
)

func (v Visibility) String() string {
	if v == Collapsed {
		return "collapsed"
	}
	return "expanded"
}

// State is a snapshot of the controller's lifecycle.
type State struct {
	Phase      Phase
	Items      []recommend.Recommendation
	RetryCount int
	Err        error
}
