// Package notify implements the ephemeral status message channel: at most
// one message at a time, auto-dismissed, replaced immediately by newer posts.
package notify

import (
	"sync"
	"time"
)

// Severity classifies a notification.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "success"
}

// Notification is one ephemeral status message.
type Notification struct {
	Severity Severity
	Message  string
}

// DefaultDuration is how long a message stays visible unless replaced.
const DefaultDuration = 2500 * time.Millisecond

// Channel shows at most one notification at a time. Posting replaces the
// visible message and restarts the dismiss timer. Dismissal is idempotent: a
// timer firing after a manual close is a no-op, guarded by a generation
// counter.
type Channel struct {
	mu       sync.Mutex
	current  *Notification
	gen      uint64
	duration time.Duration
	onChange func(*Notification)
}

// New creates a channel with the given display duration; zero means
// DefaultDuration.
func New(duration time.Duration) *Channel {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Channel{duration: duration}
}

// SetListener registers a callback invoked with the new notification on every
// post and with nil on dismissal. Used by the shell to render messages.
func (c *Channel) SetListener(fn func(*Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Post replaces the visible notification and restarts the dismiss timer.
func (c *Channel) Post(severity Severity, message string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	n := &Notification{Severity: severity, Message: message}
	c.current = n
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(n)
	}

	time.AfterFunc(c.duration, func() {
		c.dismissGen(gen)
	})
}

// Success posts a success message.
func (c *Channel) Success(message string) {
	c.Post(SeveritySuccess, message)
}

// Error posts an error message.
func (c *Channel) Error(message string) {
	c.Post(SeverityError, message)
}

// Dismiss clears the visible notification. Safe to call redundantly.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	c.gen++
	c.current = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}

// dismissGen clears the notification only if it is still the one the timer
// was armed for.
func (c *Channel) dismissGen(gen uint64) {
	c.mu.Lock()
	if c.gen != gen || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}

// Current returns the visible notification, or nil.
func (c *Channel) Current() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	cp := *c.current
	return &cp
}
