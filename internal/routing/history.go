package routing

import (
	"context"
	"sync"

	"github.com/spec-kit/pos-terminal/internal/events"
)

// Navigator abstracts the client-side location so the gatekeeper can be
// tested without a rendering layer.
type Navigator interface {
	Current() string
	Push(path string)
	Replace(path string)
}

// History is an in-memory navigation stack that announces every location
// change on the dispatcher.
type History struct {
	mu         sync.Mutex
	stack      []string
	dispatcher events.Dispatcher
}

// NewHistory starts a history at the given path.
func NewHistory(dispatcher events.Dispatcher, initial string) *History {
	if initial == "" {
		initial = RouteRoot
	}
	return &History{stack: []string{initial}, dispatcher: dispatcher}
}

// Current returns the active path.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[len(h.stack)-1]
}

// Push navigates to path, keeping the previous entry on the stack.
func (h *History) Push(path string) {
	h.mu.Lock()
	if h.stack[len(h.stack)-1] == path {
		h.mu.Unlock()
		return
	}
	h.stack = append(h.stack, path)
	h.mu.Unlock()
	h.announce(path)
}

// Replace navigates to path, replacing the current entry.
func (h *History) Replace(path string) {
	h.mu.Lock()
	if h.stack[len(h.stack)-1] == path {
		h.mu.Unlock()
		return
	}
	h.stack[len(h.stack)-1] = path
	h.mu.Unlock()
	h.announce(path)
}

// Back pops the current entry when there is somewhere to go back to.
func (h *History) Back() {
	h.mu.Lock()
	if len(h.stack) < 2 {
		h.mu.Unlock()
		return
	}
	h.stack = h.stack[:len(h.stack)-1]
	path := h.stack[len(h.stack)-1]
	h.mu.Unlock()
	h.announce(path)
}

func (h *History) announce(path string) {
	if h.dispatcher == nil {
		return
	}
	_ = h.dispatcher.Publish(context.Background(),
		events.New(events.EventLocationChanged, events.LocationChangedPayload{Path: path}))
}
