// Package notifier provides a per-session broadcast mechanism for SSE updates.
package notifier

import "sync"

// Notifier pings the listeners of one browser session when that session's
// selected model changes. Listeners receive an empty struct and should
// re-read the session.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[string]map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives pings for session id.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe(id string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	set, ok := n.listeners[id]
	if !ok {
		set = make(map[chan struct{}]struct{})
		n.listeners[id] = set
	}
	set[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(id string, ch chan struct{}) {
	n.mu.Lock()
	if set, ok := n.listeners[id]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(n.listeners, id)
		}
	}
	n.mu.Unlock()
	close(ch)
}

// Broadcast pings every listener of session id.
// A listener whose channel is full already has a ping pending and is skipped.
func (n *Notifier) Broadcast(id string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners[id] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Listeners returns the number of listeners for session id.
func (n *Notifier) Listeners(id string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners[id])
}
