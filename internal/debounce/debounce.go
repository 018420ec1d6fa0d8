// Package debounce delays work until a key has been quiet for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

type pending struct {
	timer *time.Timer
	fn    func()
	gen   uint64
}

// Debouncer runs the most recent function scheduled for a key once no new call
// for that key has arrived within the delay. Keys are independent.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	pending map[string]*pending
}

// New returns a Debouncer with the given delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pending),
	}
}

// Trigger schedules fn for key, replacing and restarting any pending call.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	d.gen++
	gen := d.gen
	p := &pending{fn: fn, gen: gen}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(key, gen) })
	d.pending[key] = p
}

func (d *Debouncer) fire(key string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		// replaced or cancelled after the timer already fired
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	p.fn()
}

// Cancel drops the pending call for key. Reports whether one was pending.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

// Flush runs the pending call for key immediately on the caller's goroutine.
// Reports whether one was pending.
func (d *Debouncer) Flush(key string) bool {
	d.mu.Lock()
	p, ok := d.pending[key]
	if ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
	d.mu.Unlock()

	if ok {
		p.fn()
	}
	return ok
}

// FlushAll runs every pending call. Used on shutdown.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	all := make([]*pending, 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		all = append(all, p)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, p := range all {
		p.fn()
	}
}

// Pending reports whether a call is scheduled for key.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}
