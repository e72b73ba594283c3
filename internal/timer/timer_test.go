package timer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time      { return c.t }
func (c *fakeClock) add(d time.Duration) { c.t = c.t.Add(d) }

func TestAdvance_RunsDueInDeadlineOrder(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := New(clock.now)

	var got []string
	s.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })

	if n := s.Advance(); n != 0 {
		t.Fatalf("expected nothing due yet, got %d", n)
	}
	clock.add(20 * time.Millisecond)
	if n := s.Advance(); n != 2 {
		t.Fatalf("expected 2 callbacks, got %d", n)
	}
	clock.add(time.Second)
	s.Advance()

	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty scheduler, got %d", s.Len())
	}
}

func TestEvery_RearmsAndCancel(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := New(clock.now)

	ticks := 0
	id := s.Every(time.Second, func() { ticks++ })

	for i := 0; i < 3; i++ {
		clock.add(time.Second)
		s.Advance()
	}
	if ticks != 3 {
		t.Fatalf("expected 3 ticks, got %d", ticks)
	}

	if !s.Cancel(id) {
		t.Fatalf("expected cancel to find the timer")
	}
	if s.Cancel(id) {
		t.Fatalf("expected second cancel to report false")
	}
	clock.add(time.Second)
	s.Advance()
	if ticks != 3 {
		t.Fatalf("expected no ticks after cancel, got %d", ticks)
	}
}

func TestEvery_CancelFromCallback(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := New(clock.now)

	var id ID
	ticks := 0
	id = s.Every(time.Millisecond, func() {
		ticks++
		s.Cancel(id)
	})

	clock.add(time.Millisecond)
	s.Advance()
	clock.add(time.Millisecond)
	s.Advance()

	if ticks != 1 {
		t.Fatalf("expected a single tick, got %d", ticks)
	}
	if _, ok := s.NextDeadline(); ok {
		t.Fatalf("expected no pending deadline")
	}
}

func TestAdvance_PanicDoesNotLoseBatch(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := New(clock.now)

	var panicked []ID
	s.OnPanic(func(id ID, v any) { panicked = append(panicked, id) })

	ticks := 0
	tick := s.Every(10*time.Millisecond, func() { ticks++ })
	bad := s.AfterFunc(10*time.Millisecond, func() { panic("boom") })
	later := false
	s.AfterFunc(10*time.Millisecond, func() { later = true })

	clock.add(10 * time.Millisecond)
	if n := s.Advance(); n != 3 {
		t.Fatalf("expected 3 callbacks, got %d", n)
	}
	if !later || ticks != 1 {
		t.Fatalf("expected the rest of the batch to run, got later=%v ticks=%d", later, ticks)
	}
	if diff := cmp.Diff([]ID{bad}, panicked); diff != "" {
		t.Fatalf("panic report mismatch (-want +got):\n%s", diff)
	}

	clock.add(10 * time.Millisecond)
	s.Advance()
	if ticks != 2 {
		t.Fatalf("expected repeating timer %d re-armed after the panic, got %d ticks", tick, ticks)
	}
}
