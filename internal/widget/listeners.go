package widget

import tea "github.com/charmbracelet/bubbletea"

type EventKind int

const (
	EventResize EventKind = iota
	EventScroll
)

type Event interface {
	Kind() EventKind
}

// ResizeEvent carries the new viewport width in logical pixels.
type ResizeEvent struct {
	Width int
}

func (ResizeEvent) Kind() EventKind { return EventResize }

// ScrollEvent carries the page scroll position in logical pixels.
type ScrollEvent struct {
	Offset         int
	ViewportHeight int
	PageHeight     int
}

func (ScrollEvent) Kind() EventKind { return EventScroll }

type Handler func(Event) tea.Cmd

type listener struct {
	kind EventKind
	fn   Handler
}

// Listeners is a registry of named event handlers. Installing under an
// existing name replaces the previous handler, so repeated setup never
// stacks duplicates.
type Listeners struct {
	byName map[string]listener
	order  []string
}

// NewListeners returns an empty registry.
func NewListeners() *Listeners {
	return &Listeners{byName: make(map[string]listener)}
}

// Install registers fn under name, replacing any handler already there.
func (l *Listeners) Install(name string, kind EventKind, fn Handler) {
	if _, exists := l.byName[name]; !exists {
		l.order = append(l.order, name)
	}
	l.byName[name] = listener{kind: kind, fn: fn}
}

// Remove is a no-op for names that are not installed.
func (l *Listeners) Remove(names ...string) {
	for _, name := range names {
		if _, exists := l.byName[name]; !exists {
			continue
		}
		delete(l.byName, name)
		for i, n := range l.order {
			if n == name {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

func (l *Listeners) Installed(name string) bool {
	_, ok := l.byName[name]
	return ok
}

func (l *Listeners) Count(kind EventKind) int {
	n := 0
	for _, h := range l.byName {
		if h.kind == kind {
			n++
		}
	}
	return n
}

// Dispatch runs every handler registered for the event's kind in
// installation order.
func (l *Listeners) Dispatch(ev Event) tea.Cmd {
	var cmds []tea.Cmd
	for _, name := range append([]string(nil), l.order...) {
		h, ok := l.byName[name]
		if !ok || h.kind != ev.Kind() {
			continue
		}
		if cmd := h.fn(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}
