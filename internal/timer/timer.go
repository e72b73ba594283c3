// Package timer runs callbacks on the loop goroutine once their deadline
// has passed. Nothing fires on its own: the owner calls Advance once per
// loop iteration.
package timer

import (
	"container/heap"
	"time"
)

// ID identifies a scheduled callback.
type ID uint64

type entry struct {
	id       ID
	deadline time.Time
	interval time.Duration
	fn       func()
	index    int
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].id < h[j].id
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler orders callbacks by deadline. It is not safe for concurrent use.
type Scheduler struct {
	now     func() time.Time
	entries entryHeap
	byID    map[ID]*entry
	nextID  ID
	onPanic func(id ID, v any)
}

// New returns a scheduler reading time from now; nil uses time.Now.
func New(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now, byID: make(map[ID]*entry)}
}

// AfterFunc runs fn once, on the first Advance at or after d from now.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) ID {
	return s.schedule(d, 0, fn)
}

// Every runs fn repeatedly, every interval. A non-positive interval is
// treated as one nanosecond so the callback runs once per Advance.
func (s *Scheduler) Every(interval time.Duration, fn func()) ID {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return s.schedule(interval, interval, fn)
}

func (s *Scheduler) schedule(d, interval time.Duration, fn func()) ID {
	if fn == nil {
		return 0
	}
	s.nextID++
	e := &entry{id: s.nextID, deadline: s.now().Add(d), interval: interval, fn: fn}
	heap.Push(&s.entries, e)
	s.byID[e.id] = e
	return e.id
}

// Cancel removes a pending callback and reports whether it was pending.
func (s *Scheduler) Cancel(id ID) bool {
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	if e.index >= 0 {
		heap.Remove(&s.entries, e.index)
	}
	return true
}

// Len reports the number of pending callbacks.
func (s *Scheduler) Len() int { return len(s.entries) }

// OnPanic sets the function told about a callback that panicked. The
// panic is recovered either way and the remaining callbacks still run.
func (s *Scheduler) OnPanic(fn func(id ID, v any)) { s.onPanic = fn }

// NextDeadline returns the earliest pending deadline.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	if len(s.entries) == 0 {
		return time.Time{}, false
	}
	return s.entries[0].deadline, true
}

// Advance runs every callback whose deadline is not after now and returns
// how many ran. A repeating callback runs at most once per call.
func (s *Scheduler) Advance() int {
	now := s.now()
	var rearm []*entry
	ran := 0
	for len(s.entries) > 0 && !s.entries[0].deadline.After(now) {
		e := heap.Pop(&s.entries).(*entry)
		if e.interval > 0 {
			rearm = append(rearm, e)
		} else {
			delete(s.byID, e.id)
		}
		s.run(e)
		ran++
	}
	for _, e := range rearm {
		// Cancelled from inside a callback.
		if _, ok := s.byID[e.id]; !ok {
			continue
		}
		e.deadline = now.Add(e.interval)
		heap.Push(&s.entries, e)
	}
	return ran
}

func (s *Scheduler) run(e *entry) {
	defer func() {
		if v := recover(); v != nil && s.onPanic != nil {
			s.onPanic(e.id, v)
		}
	}()
	e.fn()
}
