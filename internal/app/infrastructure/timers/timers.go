package timers

import (
	"sync"
	"time"
)

// Debouncer runs a task once calls to Trigger stop arriving for delay.
// Each Trigger replaces the pending task, so the last one wins.
type Debouncer struct {
	delay time.Duration

	mutex   sync.Mutex
	timer   *time.Timer
	pending func()
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(task func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}

	d.pending = task
	if d.delay <= 0 {
		d.pending = nil
		go task()
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mutex.Lock()
	task := d.pending
	d.pending = nil
	d.timer = nil
	d.mutex.Unlock()

	if task != nil {
		task()
	}
}

// Flush runs the pending task now, if any.
func (d *Debouncer) Flush() {
	d.mutex.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	task := d.pending
	d.pending = nil
	d.mutex.Unlock()

	if task != nil {
		task()
	}
}

// Stop drops the pending task; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
