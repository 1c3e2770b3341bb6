package widget

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
)

const (
	listenerResize    = "resize"
	listenerDirection = "scroll-direction"
	listenerEndOfPage = "scroll-end-of-page"
)

// ResponsiveConfig holds the responsive thresholds in logical pixels.
type ResponsiveConfig struct {
	Breakpoint      int
	ScrollThreshold int
	CollapseOffset  int
	ExpandDelta     int
	BottomProximity int
	TabDelay        time.Duration
}

// DefaultResponsiveConfig returns the stock breakpoint and scroll thresholds.
func DefaultResponsiveConfig() ResponsiveConfig {
	return ResponsiveConfig{
		Breakpoint:      750,
		ScrollThreshold: 20,
		CollapseOffset:  100,
		ExpandDelta:     30,
		BottomProximity: 100,
		TabDelay:        300 * time.Millisecond,
	}
}

type tabRevealMsg struct {
	seq int
}

// Responsive keeps the viewport mode and, in mobile mode, the
// collapsed/expanded visibility of the widget.
type Responsive struct {
	cfg       ResponsiveConfig
	surface   Surface
	log       logr.Logger
	listeners *Listeners
	host      Host

	width         int
	mode          ViewportMode
	visibility    Visibility
	lastScrollTop int
	tabSeq        int
	tabVisible    bool
	rebuilds      int

	after func(time.Duration, tea.Msg) tea.Cmd
}

// NewResponsive returns a behavior bound to surface. Call SetWidth before
// the first load.
func NewResponsive(cfg ResponsiveConfig, surface Surface, logger logr.Logger) *Responsive {
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	return &Responsive{
		cfg:       cfg,
		surface:   surface,
		log:       logger.WithName("responsive"),
		listeners: NewListeners(),
		after:     tick,
	}
}

// SetWidth records the initial width without triggering a rebuild.
func (r *Responsive) SetWidth(width int) {
	r.width = width
	r.mode = r.modeFor(width)
}

// Mode returns the layout mode for the last known width.
func (r *Responsive) Mode() ViewportMode { return r.mode }

// Visibility reports whether the mobile widget is collapsed or expanded.
func (r *Responsive) Visibility() Visibility { return r.visibility }

// TabVisible reports whether the collapsed tab is currently shown.
func (r *Responsive) TabVisible() bool { return r.tabVisible }

// Listeners returns the registry of installed resize and scroll handlers.
func (r *Responsive) Listeners() *Listeners { return r.listeners }

// Rebuilds counts structural rebuilds caused by breakpoint crossings.
func (r *Responsive) Rebuilds() int { return r.rebuilds }

func (r *Responsive) modeFor(width int) ViewportMode {
	if width <= r.cfg.Breakpoint {
		return ModeMobile
	}
	return ModeDesktop
}

// Apply installs the resize listener and the mode-specific affordances. It
// runs after every successful load.
func (r *Responsive) Apply(host Host) tea.Cmd {
	r.host = host
	r.listeners.Install(listenerResize, EventResize, r.handleResize)
	if next := r.modeFor(r.width); next != r.mode {
		return r.transition(next)
	}
	return r.installModeFeatures()
}

// Resize feeds a new viewport width to the installed listeners.
func (r *Responsive) Resize(width int) tea.Cmd {
	r.width = width
	return r.listeners.Dispatch(ResizeEvent{Width: width})
}

// Scroll feeds a page scroll position to the installed listeners.
func (r *Responsive) Scroll(ev ScrollEvent) tea.Cmd {
	return r.listeners.Dispatch(ev)
}

// Update handles the delayed mini tab reveal.
func (r *Responsive) Update(msg tea.Msg) (tea.Cmd, bool) {
	m, ok := msg.(tabRevealMsg)
	if !ok {
		return nil, false
	}
	if m.seq == r.tabSeq && r.mode == ModeMobile && r.visibility == Collapsed {
		r.tabVisible = true
		r.surface.SetTabVisible(true)
	}
	return nil, true
}

func (r *Responsive) handleResize(ev Event) tea.Cmd {
	resize, ok := ev.(ResizeEvent)
	if !ok {
		return nil
	}
	next := r.modeFor(resize.Width)
	if next == r.mode {
		return nil
	}
	return r.transition(next)
}

func (r *Responsive) transition(next ViewportMode) tea.Cmd {
	r.log.Info("viewport mode changed", "from", r.mode, "to", next, "width", r.width)
	r.mode = next
	if next == ModeDesktop {
		r.removeScrollHandlers()
		r.hideTab()
	}
	r.rebuilds++
	r.surface.Rebuild(next)
	if r.host != nil {
		r.host.Rerender()
	}
	return r.installModeFeatures()
}

func (r *Responsive) installModeFeatures() tea.Cmd {
	r.visibility = Expanded
	r.surface.SetCollapsed(false)
	r.hideTab()
	if r.mode != ModeMobile {
		r.surface.SetToggleInstalled(false)
		return nil
	}
	r.surface.SetToggleInstalled(true)
	r.setupScrollBehavior()
	return nil
}

func (r *Responsive) setupScrollBehavior() {
	r.removeScrollHandlers()
	r.lastScrollTop = 0
	r.listeners.Install(listenerDirection, EventScroll, r.handleDirection)
	r.listeners.Install(listenerEndOfPage, EventScroll, r.handleEndOfPage)
}

func (r *Responsive) removeScrollHandlers() {
	r.listeners.Remove(listenerDirection, listenerEndOfPage)
}

// handleDirection collapses on a downward scroll past the collapse offset
// and expands only on a larger upward scroll.
func (r *Responsive) handleDirection(ev Event) tea.Cmd {
	scroll, ok := ev.(ScrollEvent)
	if !ok || r.mode != ModeMobile {
		return nil
	}
	current := scroll.Offset
	delta := current - r.lastScrollTop
	if abs(delta) <= r.cfg.ScrollThreshold {
		return nil
	}

	var cmd tea.Cmd
	switch {
	case delta > 0 && current > r.cfg.CollapseOffset:
		if r.visibility != Collapsed {
			cmd = r.collapse()
		}
	case delta < 0 && -delta > r.cfg.ExpandDelta:
		r.expand()
	}
	r.lastScrollTop = current
	return cmd
}

func (r *Responsive) handleEndOfPage(ev Event) tea.Cmd {
	scroll, ok := ev.(ScrollEvent)
	if !ok || r.mode != ModeMobile {
		return nil
	}
	if scroll.Offset+scroll.ViewportHeight >= scroll.PageHeight-r.cfg.BottomProximity {
		r.expand()
	}
	return nil
}

// Toggle is the manual affordance: it collapses an expanded widget and
// re-expands a collapsed one through the mini tab.
func (r *Responsive) Toggle() tea.Cmd {
	if r.mode != ModeMobile {
		return nil
	}
	if r.visibility == Collapsed {
		r.expand()
		return nil
	}
	return r.collapse()
}

func (r *Responsive) collapse() tea.Cmd {
	r.visibility = Collapsed
	r.surface.SetCollapsed(true)
	r.tabSeq++
	return r.after(r.cfg.TabDelay, tabRevealMsg{seq: r.tabSeq})
}

func (r *Responsive) expand() {
	if r.visibility == Expanded && !r.tabVisible {
		return
	}
	r.visibility = Expanded
	r.surface.SetCollapsed(false)
	r.hideTab()
}

func (r *Responsive) hideTab() {
	r.tabSeq++
	r.tabVisible = false
	r.surface.SetTabVisible(false)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
