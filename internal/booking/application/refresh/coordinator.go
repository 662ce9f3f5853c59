// Package refresh serializes schedule reloads against in-flight edits.
// A reload requested while the user is editing is held back and replayed
// once the edit closes, so the view never refreshes out from under an
// open form.
package refresh

import (
	"context"
	"sync"
)

// Coordinator gates reload execution on editing state. Safe for
// concurrent use.
type Coordinator struct {
	mu      sync.Mutex
	editing bool
	pending func()
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// BeginEditing marks an edit session open. Reloads requested from now on
// are deferred.
func (c *Coordinator) BeginEditing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
}

// EndEditing closes the edit session and runs the most recently deferred
// reload, if any.
func (c *Coordinator) EndEditing() {
	c.mu.Lock()
	c.editing = false
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	if pending != nil {
		pending()
	}
}

// Request runs the reload immediately when idle. During an edit it is
// queued instead, and a newer request replaces an older queued one, so
// at most one reload replays on close.
func (c *Coordinator) Request(reload func()) {
	c.mu.Lock()
	if c.editing {
		c.pending = reload
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	reload()
}

// Guard wraps a confirmation prompt so that, while the prompt is open,
// reload requests are held back the same way as for any other edit
// surface. Deferred reloads run after the prompt resolves.
func (c *Coordinator) Guard(confirm func(context.Context, string) (bool, error)) func(context.Context, string) (bool, error) {
	return func(ctx context.Context, message string) (bool, error) {
		c.BeginEditing()
		defer c.EndEditing()
		return confirm(ctx, message)
	}
}

// Editing reports whether an edit session is open.
func (c *Coordinator) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}
