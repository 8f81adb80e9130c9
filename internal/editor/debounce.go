package editor

import (
	"sync"
	"time"
)

// Debouncer is the autosave scheduler: a single pending timer per session.
// Every qualifying edit restarts the quiet period; the callback runs exactly
// once per expiry.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger cancels any pending timer and starts a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Cancel stops the pending timer, if any. Select flushes synchronously, so
// the timer for the item being left must not fire afterwards.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
