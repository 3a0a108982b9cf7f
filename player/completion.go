package player

// completion is a one-shot finish callback. Once fired or cancelled it never
// runs again.
type completion struct {
	fn   func()
	done bool
}

func newCompletion(fn func()) *completion {
	return &completion{fn: fn}
}

// fire runs the callback unless it already ran or was cancelled.
func (c *completion) fire() {
	if c == nil || c.done {
		return
	}
	c.done = true
	if c.fn != nil {
		c.fn()
	}
}

// cancel discards the callback without running it.
func (c *completion) cancel() {
	if c == nil {
		return
	}
	c.done = true
	c.fn = nil
}
