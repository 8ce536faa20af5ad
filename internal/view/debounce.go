package view

import (
	"sort"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period applied to search input
const DefaultDebounce = 300 * time.Millisecond

// Scheduler arms callbacks after a delay. The returned cancel function
// reports whether the callback was stopped before running.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func() bool)
}

type clockScheduler struct{}

// ClockScheduler schedules on the wall clock via time.AfterFunc
func ClockScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Debouncer forwards the last pushed value once no new value arrived for the
// configured delay. Every Push re-arms the timer.
type Debouncer struct {
	mu        sync.Mutex
	scheduler Scheduler
	delay     time.Duration
	deliver   func(string)

	cancel  func() bool
	seq     uint64
	pending bool
	value   string
}

// NewDebouncer creates a debouncer delivering settled values to deliver
func NewDebouncer(scheduler Scheduler, delay time.Duration, deliver func(string)) *Debouncer {
	if scheduler == nil {
		scheduler = ClockScheduler()
	}
	return &Debouncer{
		scheduler: scheduler,
		delay:     delay,
		deliver:   deliver,
	}
}

// Push records a new raw value and restarts the quiet period
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.seq++
	seq := d.seq
	d.value = value
	d.pending = true
	d.cancel = d.scheduler.AfterFunc(d.delay, func() { d.fire(seq) })
}

// fire delivers the value unless a later Push superseded this timer
func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.cancel = nil
	value := d.value
	d.mu.Unlock()

	d.deliver(value)
}

// Flush delivers a pending value immediately
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	seq := d.seq
	d.mu.Unlock()

	d.fire(seq)
}

// Stop drops a pending value without delivering it
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.seq++
	d.pending = false
	d.cancel = nil
}

// Pending reports whether a value is waiting for its quiet period
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// ManualScheduler is a deterministic Scheduler driven by Advance
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	next  uint64
	tasks []*manualTask
}

type manualTask struct {
	id       uint64
	at       time.Duration
	fn       func()
	canceled bool
	fired    bool
}

// NewManualScheduler creates a scheduler whose clock only moves on Advance
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	task := &manualTask{id: s.next, at: s.now + d, fn: fn}
	s.tasks = append(s.tasks, task)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if task.fired || task.canceled {
			return false
		}
		task.canceled = true
		return true
	}
}

// Advance moves the clock forward and runs every callback that became due,
// in due-time order, on the calling goroutine.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTask
	remaining := s.tasks[:0]
	for _, t := range s.tasks {
		switch {
		case t.canceled:
		case t.at <= s.now:
			t.fired = true
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].id < due[j].id
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of armed, not yet fired callbacks
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}
