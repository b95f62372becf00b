package session

import "github.com/chirpsocial/sessionkit/pkg/identity"

// Change describes one applied state transition.
type Change struct {
	From     State
	To       State
	Identity identity.Identity
}

// OnIdentityChange registers a listener invoked on every state transition,
// in applied order. The returned function removes the listener; calling it
// more than once is safe.
func (m *Manager) OnIdentityChange(listener func(Change)) (unsubscribe func()) {
	m.listenerMu.Lock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = listener
	m.listenerMu.Unlock()

	return func() {
		m.listenerMu.Lock()
		delete(m.listeners, id)
		m.listenerMu.Unlock()
	}
}

// enqueue appends a change to the dispatch queue. Always called under
// m.mu, which gives the queue the same total order as applied transitions.
func (m *Manager) enqueue(change Change) {
	m.queueMu.Lock()
	m.queue = append(m.queue, change)
	m.queueCond.Signal()
	m.queueMu.Unlock()
}

// dispatchLoop delivers queued changes to listeners one at a time, in
// order, outside the manager lock so listeners may call back into the
// manager. Runs until Close.
func (m *Manager) dispatchLoop() {
	for {
		m.queueMu.Lock()
		for len(m.queue) == 0 && !m.draining {
			m.queueCond.Wait()
		}
		if len(m.queue) == 0 && m.draining {
			m.queueMu.Unlock()
			return
		}
		change := m.queue[0]
		m.queue = m.queue[1:]
		m.queueMu.Unlock()

		m.listenerMu.Lock()
		targets := make([]func(Change), 0, len(m.listeners))
		for _, listener := range m.listeners {
			targets = append(targets, listener)
		}
		m.listenerMu.Unlock()

		for _, listener := range targets {
			listener(change)
		}
	}
}
