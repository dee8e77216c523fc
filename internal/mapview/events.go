package mapview

import (
	"slices"

	"github.com/Garsondee/fogmap/internal/geo"
)

// EventKind identifies a map notification.
type EventKind int

const (
	EventMove EventKind = iota
	EventZoom
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventZoom:
		return "zoom"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event carries the camera and viewport as they were when it fired.
type Event struct {
	Kind   EventKind
	Camera geo.Camera
	Width  int
	Height int
}

// On registers fn for events of kind k. The returned cancel func removes the
// subscription; calling it more than once is harmless.
func (m *Map) On(k EventKind, fn func(Event)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	id := m.nextID
	m.nextID++
	if m.subs[k] == nil {
		m.subs[k] = make(map[int]func(Event))
	}
	m.subs[k][id] = fn
	return func() {
		delete(m.subs[k], id)
	}
}

// Subscribers returns how many handlers are registered for k.
func (m *Map) Subscribers(k EventKind) int {
	return len(m.subs[k])
}

// emit delivers ev to handlers in registration order.
func (m *Map) emit(ev Event) {
	subs := m.subs[ev.Kind]
	if len(subs) == 0 {
		return
	}
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := subs[id]; ok {
			fn(ev)
		}
	}
}
