package widget

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/sponsored-cli/internal/recommend"
	"github.com/glabrego/sponsored-cli/internal/retry"
)

type fakeSlot struct {
	rec     recommend.Recommendation
	token   string
	loading bool
	failed  bool
}

type fakeSurface struct {
	created      bool
	ensured      int
	rebuilds     int
	mode         ViewportMode
	loading      bool
	errorMsg     string
	errorVisible bool
	emptyMsg     string
	emptyVisible bool
	slots        []*fakeSlot
	collapsed    bool
	tabVisible   bool
	toggle       bool
}

func (s *fakeSurface) EnsureRegions(mode ViewportMode) {
	if s.created {
		return
	}
	s.created = true
	s.ensured++
	s.mode = mode
}

func (s *fakeSurface) Rebuild(mode ViewportMode) {
	s.created = true
	s.rebuilds++
	s.mode = mode
	s.loading = true
	s.errorVisible = false
	s.emptyVisible = false
	s.slots = nil
}

func (s *fakeSurface) SetLoading(visible bool) { s.loading = visible }

func (s *fakeSurface) ShowError(message string) {
	s.errorMsg = message
	s.errorVisible = true
}

func (s *fakeSurface) HideError() { s.errorVisible = false }

func (s *fakeSurface) ShowEmpty(message string) {
	s.emptyMsg = message
	s.emptyVisible = true
}

func (s *fakeSurface) ClearGrid() {
	s.slots = nil
	s.emptyVisible = false
}

func (s *fakeSurface) AppendItem(rec recommend.Recommendation) {
	s.slots = append(s.slots, &fakeSlot{rec: rec})
}

func (s *fakeSurface) slot(i int) *fakeSlot {
	if i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i]
}

func (s *fakeSurface) SlotToken(i int) (string, bool) {
	slot := s.slot(i)
	if slot == nil {
		return "", false
	}
	return slot.token, true
}

func (s *fakeSurface) MarkSlotLoading(i int, token string) bool {
	slot := s.slot(i)
	if slot == nil {
		return false
	}
	slot.token = token
	slot.loading = true
	slot.failed = false
	return true
}

func (s *fakeSurface) ReplaceSlot(i int, rec recommend.Recommendation) bool {
	slot := s.slot(i)
	if slot == nil {
		return false
	}
	*slot = fakeSlot{rec: rec}
	return true
}

func (s *fakeSurface) MarkSlotError(i int) bool {
	slot := s.slot(i)
	if slot == nil {
		return false
	}
	slot.loading = false
	slot.failed = true
	return true
}

func (s *fakeSurface) SetCollapsed(collapsed bool) { s.collapsed = collapsed }
func (s *fakeSurface) SetTabVisible(visible bool)  { s.tabVisible = visible }
func (s *fakeSurface) SetToggleInstalled(ok bool)  { s.toggle = ok }

func (s *fakeSurface) ids() []string {
	out := make([]string, 0, len(s.slots))
	for _, slot := range s.slots {
		out = append(out, slot.rec.ID)
	}
	return out
}

type providerResponse struct {
	items []recommend.Recommendation
	err   error
}

// scriptedProvider replays responses in order and returns an empty list
// once the script runs out.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []providerResponse
	counts    []int
}

func (p *scriptedProvider) push(items []recommend.Recommendation, err error) *scriptedProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, providerResponse{items: items, err: err})
	return p
}

func (p *scriptedProvider) pushEmpty(n int) *scriptedProvider {
	for i := 0; i < n; i++ {
		p.push(nil, nil)
	}
	return p
}

func (p *scriptedProvider) Fetch(_ context.Context, count int) ([]recommend.Recommendation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts = append(p.counts, count)
	if len(p.responses) == 0 {
		return nil, nil
	}
	r := p.responses[0]
	p.responses = p.responses[1:]
	return r.items, r.err
}

func (p *scriptedProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.counts)
}

type fakeNavigator struct {
	opened []string
	err    error
}

func (n *fakeNavigator) Open(destination string) error {
	n.opened = append(n.opened, destination)
	return n.err
}

// delayRecorder replaces tea.Tick so scheduled messages are delivered as
// soon as the command runs.
type delayRecorder struct {
	delays []time.Duration
}

func (d *delayRecorder) after(delay time.Duration, msg tea.Msg) tea.Cmd {
	d.delays = append(d.delays, delay)
	return func() tea.Msg { return msg }
}

func recs(ids ...string) []recommend.Recommendation {
	out := make([]recommend.Recommendation, 0, len(ids))
	for _, id := range ids {
		out = append(out, recommend.Recommendation{
			ID:          id,
			Title:       "Title " + id,
			Destination: "https://example.com/" + id,
			Origin:      recommend.OriginSponsored,
		})
	}
	return out
}

type testRig struct {
	ctrl     *Controller
	surface  *fakeSurface
	provider *scriptedProvider
	nav      *fakeNavigator
	delays   *delayRecorder
}

func newRig(t *testing.T, opts Options) *testRig {
	t.Helper()
	rig := &testRig{
		surface:  &fakeSurface{},
		provider: &scriptedProvider{},
		nav:      &fakeNavigator{},
		delays:   &delayRecorder{},
	}
	if opts.Replace.MaxAttempts == 0 {
		opts.Replace = retry.Policy{MaxAttempts: 3, Delay: time.Second}
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	ctrl, err := NewController(rig.provider, rig.surface, rig.nav, opts)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}
	ctrl.after = rig.delays.after
	ctrl.sleep = func(context.Context, time.Duration) error { return nil }
	tokens := 0
	ctrl.newToken = func() string {
		tokens++
		return fmt.Sprintf("token-%d", tokens)
	}
	rig.ctrl = ctrl
	return rig
}

// drain runs cmd and feeds every resulting message back through the
// controller until no work is left.
func drain(t *testing.T, c *Controller, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		follow, handled := c.Update(msg)
		if !handled {
			t.Fatalf("controller did not handle %T", msg)
		}
		queue = append(queue, follow)
	}
}
