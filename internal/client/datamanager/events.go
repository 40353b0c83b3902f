package datamanager

import (
	"time"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

// Event reports a successful write. Section is empty when the whole
// document was replaced (import or reset).
type Event struct {
	Section   models.Section
	Timestamp time.Time
}

// Subscribe registers fn for update events and returns a function that
// removes it. Callbacks run synchronously on the writer's goroutine.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify(e Event) {
	m.subMu.RLock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
