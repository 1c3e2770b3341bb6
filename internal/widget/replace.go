package widget

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/sponsored-cli/internal/recommend"
	"github.com/glabrego/sponsored-cli/internal/retry"
)

type replaceResultMsg struct {
	slot     int
	old      recommend.Recommendation
	token    string
	items    []recommend.Recommendation
	attempts int
	err      error
}

// Replacing reports whether a replacement ticket is open for id.
func (c *Controller) Replacing(id string) bool {
	_, ok := c.tickets[id]
	return ok
}

// Replace swaps the recommendation old shown in slot for a freshly fetched
// one. Only that slot changes, even when another slot shows the same id. A
// second request for an id that already has an open ticket is rejected with
// ErrDuplicateReplacement.
func (c *Controller) Replace(slot int, old recommend.Recommendation) (tea.Cmd, error) {
	if _, busy := c.tickets[old.ID]; busy {
		c.log.Info("replacement already in progress, ignoring duplicate request", "id", old.ID, "slot", slot)
		return nil, ErrDuplicateReplacement
	}
	if slot < 0 || slot >= len(c.state.Items) || c.state.Items[slot].ID != old.ID {
		return nil, fmt.Errorf("%w: %d (%s)", ErrSlotNotFound, slot, old.ID)
	}

	token := c.newToken()
	if !c.surface.MarkSlotLoading(slot, token) {
		return nil, fmt.Errorf("%w: %d (%s)", ErrSlotNotFound, slot, old.ID)
	}
	c.tickets[old.ID] = token
	delete(c.failed, slot)
	c.log.V(1).Info("replacing recommendation", "id", old.ID, "slot", slot, "token", token)
	return c.replaceCmd(slot, old, token), nil
}

// RetrySlot re-runs the failed replacement of slot.
func (c *Controller) RetrySlot(slot int) (tea.Cmd, error) {
	old, ok := c.failed[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSlotNotFound, slot)
	}
	return c.Replace(slot, old)
}

// FailedSlot reports whether slot shows a replacement error.
func (c *Controller) FailedSlot(slot int) bool {
	_, ok := c.failed[slot]
	return ok
}

func (c *Controller) replaceCmd(slot int, old recommend.Recommendation, token string) tea.Cmd {
	provider := c.provider
	policy := c.replace
	timeout := c.fetchTimeout
	sleep := c.sleep
	return func() tea.Msg {
		fetchOne := func(ctx context.Context) ([]recommend.Recommendation, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return provider.Fetch(attemptCtx, 1)
		}
		res, err := retry.DoWithSleeper(context.Background(), policy, sleep, fetchOne, nonEmpty)
		return replaceResultMsg{slot: slot, old: old, token: token, items: res.Value, attempts: res.Attempts, err: err}
	}
}

func nonEmpty(items []recommend.Recommendation) bool {
	return len(items) > 0
}

func (c *Controller) handleReplace(msg replaceResultMsg) tea.Cmd {
	defer c.closeTicket(msg.old.ID, msg.token)

	current, ok := c.surface.SlotToken(msg.slot)
	if !ok || current != msg.token {
		c.log.Info("discarding replacement result", "id", msg.old.ID, "slot", msg.slot, "reason", ErrStaleReplacement)
		return nil
	}

	if msg.err != nil || len(msg.items) == 0 {
		err := msg.err
		if err == nil || errors.Is(err, retry.ErrExhausted) {
			err = ErrEmptyResult
		} else {
			err = &TransportError{Op: "replace recommendation", Err: err}
		}
		c.log.Error(err, "replacement failed", "id", msg.old.ID, "slot", msg.slot, "attempts", msg.attempts)
		c.surface.MarkSlotError(msg.slot)
		c.failed[msg.slot] = msg.old
		return nil
	}

	next := c.pickReplacement(msg.slot, msg.old, msg.items)
	c.surface.ReplaceSlot(msg.slot, next)
	if msg.slot < len(c.state.Items) {
		c.state.Items[msg.slot] = next
	}
	c.log.V(1).Info("replaced recommendation", "old", msg.old.ID, "new", next.ID, "slot", msg.slot)
	return nil
}

// pickReplacement prefers a candidate that is neither the dismissed record
// nor already shown in another slot. Without one, a second candidate still
// beats a repeat of the dismissed id.
func (c *Controller) pickReplacement(slot int, old recommend.Recommendation, candidates []recommend.Recommendation) recommend.Recommendation {
	for _, candidate := range candidates {
		if candidate.ID != old.ID && !c.shownElsewhere(slot, candidate.ID) {
			return candidate
		}
	}
	if candidates[0].ID == old.ID && len(candidates) > 1 {
		return candidates[1]
	}
	return candidates[0]
}

func (c *Controller) shownElsewhere(slot int, id string) bool {
	for i, item := range c.state.Items {
		if i != slot && item.ID == id {
			return true
		}
	}
	return false
}

func (c *Controller) closeTicket(id, token string) {
	if c.tickets[id] == token {
		delete(c.tickets, id)
	}
}
