// Package widget holds the sponsored-recommendation widget controller: the
// load lifecycle with its bounded empty-result retry, the per-item
// replacement flow, and the responsive collapse/expand behavior.
//
// All state lives on the Bubble Tea update loop. Provider calls and timed
// delays run as commands whose results come back as messages through
// Update, so nothing here needs a lock.
package widget

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/glabrego/sponsored-cli/internal/recommend"
	"github.com/glabrego/sponsored-cli/internal/retry"
)

const (
	DefaultCount        = 5
	DefaultMaxRetries   = 5
	DefaultRetryDelay   = time.Second
	DefaultFetchTimeout = 10 * time.Second

	errorMessage = "Failed to load recommendations. Please try again later."
	emptyMessage = "No sponsored content available at the moment."
)

// Options configures a Controller. Replace has no default: its attempt
// bound must be set explicitly.
type Options struct {
	Count        int
	MaxRetries   int
	RetryDelay   time.Duration
	FetchTimeout time.Duration
	Replace      retry.Policy
	Behavior     ResponsiveBehavior
	Logger       logr.Logger
}

// Controller owns the widget state and drives loads, rebuilds and
// per-slot replacements against a Surface.
type Controller struct {
	provider  Provider
	surface   Surface
	navigator Navigator
	behavior  ResponsiveBehavior
	log       logr.Logger

	count        int
	load         retry.Policy
	replace      retry.Policy
	fetchTimeout time.Duration

	state      State
	generation int
	tickets    map[string]string
	failed     map[int]recommend.Recommendation
	notice     string

	after    func(time.Duration, tea.Msg) tea.Cmd
	sleep    retry.Sleeper
	newToken func() string
}

// NewController validates opts and returns a controller in the idle phase.
func NewController(provider Provider, surface Surface, navigator Navigator, opts Options) (*Controller, error) {
	if provider == nil {
		return nil, errors.New("widget: provider is required")
	}
	if surface == nil {
		return nil, errors.New("widget: surface is required")
	}
	if err := opts.Replace.Validate(); err != nil {
		return nil, fmt.Errorf("widget: replacement %w", err)
	}
	if opts.Count < 1 {
		opts.Count = DefaultCount
	}
	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("widget: max retries must not be negative: %d", opts.MaxRetries)
	}
	if opts.RetryDelay < 0 {
		return nil, fmt.Errorf("widget: retry delay must not be negative: %s", opts.RetryDelay)
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	return &Controller{
		provider:     provider,
		surface:      surface,
		navigator:    navigator,
		behavior:     opts.Behavior,
		log:          logger.WithName("widget"),
		count:        opts.Count,
		load:         retry.Policy{MaxAttempts: opts.MaxRetries + 1, Delay: opts.RetryDelay},
		replace:      opts.Replace,
		fetchTimeout: opts.FetchTimeout,
		tickets:      make(map[string]string),
		failed:       make(map[int]recommend.Recommendation),
		after:        tick,
		newToken:     uuid.NewString,
	}, nil
}

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

type loadResultMsg struct {
	generation int
	count      int
	items      []recommend.Recommendation
	err        error
}

type loadRetryMsg struct {
	generation int
	count      int
}

type openResultMsg struct {
	id  string
	err error
}

// State returns a copy of the current lifecycle state.
func (c *Controller) State() State {
	s := c.state
	s.Items = append([]recommend.Recommendation(nil), c.state.Items...)
	return s
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase { return c.state.Phase }

// Notice is the latest user-facing status from an open action.
func (c *Controller) Notice() string { return c.notice }

// TakeNotice returns the pending notice and clears it.
func (c *Controller) TakeNotice() string {
	notice := c.notice
	c.notice = ""
	return notice
}

// ItemAt returns the recommendation displayed in slot.
func (c *Controller) ItemAt(slot int) (recommend.Recommendation, bool) {
	if slot < 0 || slot >= len(c.state.Items) {
		return recommend.Recommendation{}, false
	}
	return c.state.Items[slot], true
}

func (c *Controller) mode() ViewportMode {
	if r, ok := c.behavior.(modeReporter); ok {
		return r.Mode()
	}
	return ModeDesktop
}

// Start loads the configured number of recommendations.
func (c *Controller) Start() tea.Cmd {
	return c.Initialize(c.count, false)
}

// Initialize requests count recommendations. A fresh call (continuation
// false) resets the retry counter and supersedes any load still in flight;
// a continuation keeps both.
func (c *Controller) Initialize(count int, continuation bool) tea.Cmd {
	if !continuation {
		c.state.RetryCount = 0
		c.state.Err = nil
		c.generation++
	}
	c.surface.EnsureRegions(c.mode())
	c.surface.HideError()

	c.state.Phase = PhaseLoading
	c.surface.SetLoading(true)
	c.log.V(1).Info("loading recommendations", "count", count, "retry", c.state.RetryCount)
	return c.fetchCmd(c.generation, count)
}

func (c *Controller) fetchCmd(generation, count int) tea.Cmd {
	provider := c.provider
	timeout := c.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		items, err := provider.Fetch(ctx, count)
		return loadResultMsg{generation: generation, count: count, items: items, err: err}
	}
}

// Retry is the manual "try again" action of the empty and error states.
func (c *Controller) Retry() tea.Cmd {
	if c.state.Phase != PhaseEmpty && c.state.Phase != PhaseError {
		return nil
	}
	c.surface.ClearGrid()
	return c.Initialize(c.count, false)
}

// Update handles the controller's own messages and reports whether msg was
// one of them. Unhandled messages are offered to the responsive behavior.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case loadResultMsg:
		return c.handleLoad(msg), true
	case loadRetryMsg:
		if msg.generation != c.generation {
			return nil, true
		}
		return c.Initialize(msg.count, true), true
	case replaceResultMsg:
		return c.handleReplace(msg), true
	case openResultMsg:
		if msg.err != nil {
			c.log.Error(msg.err, "open recommendation failed", "id", msg.id)
			c.notice = "Could not open recommendation: " + msg.err.Error()
		} else {
			c.notice = "Opened recommendation in browser"
		}
		return nil, true
	}
	if h, ok := c.behavior.(messageHandler); ok {
		return h.Update(msg)
	}
	return nil, false
}

func (c *Controller) handleLoad(msg loadResultMsg) tea.Cmd {
	if msg.generation != c.generation {
		c.log.V(1).Info("discarding superseded load result", "generation", msg.generation)
		return nil
	}

	if msg.err != nil {
		c.state.Phase = PhaseError
		c.state.Err = &TransportError{Op: "load recommendations", Err: msg.err}
		c.log.Error(msg.err, "load recommendations failed")
		c.surface.SetLoading(false)
		c.surface.ShowError(errorMessage)
		return nil
	}

	if len(msg.items) == 0 {
		if c.load.Allows(c.state.RetryCount) {
			c.state.RetryCount++
			c.log.Info("no sponsored recommendations, retrying", "attempt", c.state.RetryCount, "delay", c.load.Delay)
			return c.after(c.load.Delay, loadRetryMsg{generation: msg.generation, count: msg.count})
		}
		c.state.Phase = PhaseEmpty
		c.state.Items = nil
		c.state.Err = ErrEmptyResult
		c.log.Info("max retries reached without recommendations", "retries", c.state.RetryCount)
		c.renderEmpty()
		c.surface.SetLoading(false)
		return nil
	}

	c.state.Phase = PhaseLoaded
	c.state.Items = append([]recommend.Recommendation(nil), msg.items...)
	c.state.Err = nil
	c.renderItems()
	c.surface.SetLoading(false)
	if c.behavior != nil {
		return c.behavior.Apply(c)
	}
	return nil
}

func (c *Controller) renderItems() {
	c.surface.ClearGrid()
	c.failed = make(map[int]recommend.Recommendation)
	for _, rec := range c.state.Items {
		c.surface.AppendItem(rec)
	}
}

func (c *Controller) renderEmpty() {
	c.surface.ClearGrid()
	c.failed = make(map[int]recommend.Recommendation)
	c.surface.ShowEmpty(emptyMessage)
}

// Rerender repaints the current state after a structural rebuild.
func (c *Controller) Rerender() {
	switch c.state.Phase {
	case PhaseLoaded:
		c.renderItems()
		c.surface.SetLoading(false)
	case PhaseEmpty:
		c.renderEmpty()
		c.surface.SetLoading(false)
	case PhaseError:
		c.surface.SetLoading(false)
		c.surface.ShowError(errorMessage)
	case PhaseLoading:
		c.surface.SetLoading(true)
	}
}

// Open navigates to the destination of the recommendation in slot.
func (c *Controller) Open(slot int) tea.Cmd {
	rec, ok := c.ItemAt(slot)
	if !ok || c.navigator == nil {
		return nil
	}
	navigator := c.navigator
	return func() tea.Msg {
		return openResultMsg{id: rec.ID, err: navigator.Open(rec.Destination)}
	}
}
