package client

import (
	"sync"
	"time"
)

// SearchDebounce is how long search input must be quiet before a fetch fires.
const SearchDebounce = 500 * time.Millisecond

// Debouncer coalesces rapid calls: fn runs once after d of quiescence, and
// every new call restarts the clock. Safe for concurrent use.
type Debouncer struct {
	d time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(d time.Duration) *Debouncer {
	return &Debouncer{d: d}
}

// NewSearchDebouncer returns a debouncer tuned for search-as-you-type input.
func NewSearchDebouncer() *Debouncer {
	return NewDebouncer(SearchDebounce)
}

// Do schedules fn after the quiescence window, canceling any pending call.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.d, fn)
}

// Stop cancels any pending call without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
