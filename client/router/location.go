package router

import "sync"

// MemoryLocation is an in-process Location with a history stack. The terminal
// shell uses it in place of a browser hash; tests drive it directly.
type MemoryLocation struct {
	mu      sync.Mutex
	history []string
}

// NewMemoryLocation starts at the root token, optionally seeded with a deep
// link (the token a user bookmarked).
func NewMemoryLocation(initial string) *MemoryLocation {
	return &MemoryLocation{history: []string{initial}}
}

func (l *MemoryLocation) Token() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history[len(l.history)-1]
}

func (l *MemoryLocation) Push(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, token)
}

func (l *MemoryLocation) Replace(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history[len(l.history)-1] = token
}

// Back pops one history entry, like the browser back button. Returns false at
// the root of the stack.
func (l *MemoryLocation) Back() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.history) <= 1 {
		return false
	}
	l.history = l.history[:len(l.history)-1]
	return true
}
