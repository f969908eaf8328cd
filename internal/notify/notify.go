// Package notify provides transient user-facing notifications.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeSuccess = "success"
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeDanger  = "danger"
)

// Options configures one notification.
type Options struct {
	Title  string `json:"title,omitempty"`
	Type   string `json:"type"`
	Sticky bool   `json:"sticky"`
}

// Notification is a message as shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Title     string    `json:"title,omitempty"`
	Type      string    `json:"type"`
	Sticky    bool      `json:"sticky"`
	CreatedAt time.Time `json:"created_at"`
}

// Service displays notifications.
type Service interface {
	Add(message string, opts Options) Notification
}

// Center keeps the notifications currently on screen. Non-sticky ones
// disappear after TTL; sticky ones stay until dismissed.
type Center struct {
	TTL time.Duration
	Now func() time.Time

	mu    sync.Mutex
	items []Notification
}

// NewCenter returns a Center whose non-sticky notifications live for ttl.
func NewCenter(ttl time.Duration) *Center {
	return &Center{TTL: ttl, Now: time.Now}
}

func (c *Center) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Add records a notification and returns it.
func (c *Center) Add(message string, opts Options) Notification {
	if opts.Type == "" {
		opts.Type = TypeInfo
	}
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Title:     opts.Title,
		Type:      opts.Type,
		Sticky:    opts.Sticky,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
	return n
}

// Active returns the notifications still visible, oldest first, and drops
// the expired ones.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.items[:0]
	for _, n := range c.items {
		if n.Sticky || c.TTL <= 0 || now.Sub(n.CreatedAt) < c.TTL {
			kept = append(kept, n)
		}
	}
	c.items = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a notification by id. It reports whether it was there.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Recorder collects notifications for a single request so they can be
// returned to the HTTP client.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Add records a notification.
func (r *Recorder) Add(message string, opts Options) Notification {
	if opts.Type == "" {
		opts.Type = TypeInfo
	}
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Title:     opts.Title,
		Type:      opts.Type,
		Sticky:    opts.Sticky,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
	return n
}

// Notifications returns what was recorded, never nil.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}
