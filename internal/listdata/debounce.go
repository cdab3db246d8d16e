package listdata

import (
	"sync"
	"time"
)

const DefaultSearchDebounce = 500 * time.Millisecond

// Debouncer вызывает fn с последним значением, когда Trigger не звали delay подряд.
type Debouncer[V any] struct {
	delay time.Duration
	fn    func(V)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer[V any](delay time.Duration, fn func(V)) *Debouncer[V] {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &Debouncer[V]{delay: delay, fn: fn}
}

func (d *Debouncer[V]) Trigger(v V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// таймер мог сработать одновременно с новым Trigger
		fire := gen == d.gen && !d.stopped
		d.mu.Unlock()
		if fire {
			d.fn(v)
		}
	})
}

// Stop отменяет отложенный вызов; последующие Trigger игнорируются.
func (d *Debouncer[V]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
