package editor

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	t.Run("burst of triggers fires once", func(t *testing.T) {
		var fired atomic.Int32
		d := NewDebouncer(30*time.Millisecond, func() { fired.Add(1) })

		for i := 0; i < 5; i++ {
			d.Trigger()
			time.Sleep(5 * time.Millisecond)
		}

		time.Sleep(150 * time.Millisecond)
		if got := fired.Load(); got != 1 {
			t.Errorf("fired %d times, want 1", got)
		}
	})

	t.Run("cancel stops the pending timer", func(t *testing.T) {
		var fired atomic.Int32
		d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })

		d.Trigger()
		d.Cancel()

		time.Sleep(100 * time.Millisecond)
		if got := fired.Load(); got != 0 {
			t.Errorf("fired %d times after cancel", got)
		}
	})

	t.Run("retrigger after expiry fires again", func(t *testing.T) {
		var fired atomic.Int32
		d := NewDebouncer(10*time.Millisecond, func() { fired.Add(1) })

		d.Trigger()
		time.Sleep(60 * time.Millisecond)
		d.Trigger()
		time.Sleep(60 * time.Millisecond)

		if got := fired.Load(); got != 2 {
			t.Errorf("fired %d times, want 2", got)
		}
	})
}
