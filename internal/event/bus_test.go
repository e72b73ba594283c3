package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testEvent struct {
	key int
	val string
}

func (e testEvent) EventKey() int { return e.key }

type recorder struct {
	name string
	got  *[]string
}

func (r *recorder) HandleEvent(ev Event) {
	*r.got = append(*r.got, r.name+":"+ev.(testEvent).val)
}

func TestProcessEvents_FIFOAndRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.AddHandler(1, &recorder{name: "a", got: &got})
	bus.AddHandler(1, &recorder{name: "b", got: &got})
	bus.AddHandler(2, &recorder{name: "c", got: &got})

	bus.Post(testEvent{key: 1, val: "x"})
	bus.Post(testEvent{key: 2, val: "y"})
	bus.Post(testEvent{key: 1, val: "z"})
	bus.ProcessEvents()

	want := []string{"a:x", "b:x", "c:y", "a:z", "b:z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dispatch order mismatch (-want +got):\n%s", diff)
	}
	if bus.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", bus.Len())
	}
}

func TestPost_DoesNotDispatch(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.AddFunc(1, func(Event) { calls++ })
	bus.Post(testEvent{key: 1})
	if calls != 0 {
		t.Fatalf("expected no dispatch before ProcessEvents, got %d", calls)
	}
	bus.ProcessEvents()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestAddHandler_DuplicateIsNoop(t *testing.T) {
	bus := NewBus()
	var got []string
	h := &recorder{name: "a", got: &got}
	bus.AddHandler(1, h)
	bus.AddHandler(1, h)

	bus.Post(testEvent{key: 1, val: "x"})
	bus.ProcessEvents()

	if len(got) != 1 {
		t.Fatalf("expected single delivery, got %v", got)
	}
	if n := bus.Handlers(1); n != 1 {
		t.Fatalf("expected 1 registration, got %d", n)
	}
}

func TestRemoveHandler_CountsAndPrunes(t *testing.T) {
	bus := NewBus()
	var got []string
	h := &recorder{name: "a", got: &got}
	bus.AddHandler(1, h)

	if n := bus.RemoveHandler(2, h); n != 0 {
		t.Fatalf("expected 0 removed from unknown key, got %d", n)
	}
	if n := bus.RemoveHandler(1, h); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if _, ok := bus.handlers[1]; ok {
		t.Fatalf("expected empty key to be pruned")
	}

	bus.Post(testEvent{key: 1, val: "x"})
	bus.ProcessEvents()
	if len(got) != 0 {
		t.Fatalf("expected no delivery after removal, got %v", got)
	}
}

func TestDetach_RemovesFromAllKeys(t *testing.T) {
	bus := NewBus()
	calls := 0
	h := bus.AddFunc(1, func(Event) { calls++ })
	bus.AddHandler(2, h)
	bus.AddHandler(3, h)

	if n := bus.Detach(h); n != 3 {
		t.Fatalf("expected 3 registrations removed, got %d", n)
	}
	for key := 1; key <= 3; key++ {
		bus.Post(testEvent{key: key})
	}
	bus.ProcessEvents()
	if calls != 0 {
		t.Fatalf("expected no calls after detach, got %d", calls)
	}
}

func TestProcessEvents_DrainsReentrantPosts(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.AddFunc(1, func(ev Event) {
		e := ev.(testEvent)
		order = append(order, e.val)
		if e.val == "first" {
			bus.Post(testEvent{key: 1, val: "nested"})
		}
	})

	bus.Post(testEvent{key: 1, val: "first"})
	bus.Post(testEvent{key: 1, val: "second"})
	bus.ProcessEvents()

	want := []string{"first", "second", "nested"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessEvents_RemovalDuringDispatch(t *testing.T) {
	bus := NewBus()
	var got []string
	second := &recorder{name: "b", got: &got}
	bus.AddFunc(1, func(Event) {
		got = append(got, "a")
		bus.RemoveHandler(1, second)
	})
	bus.AddHandler(1, second)

	bus.Post(testEvent{key: 1, val: "x"})
	bus.Post(testEvent{key: 1, val: "y"})
	bus.ProcessEvents()

	// The first dispatch already holds its snapshot; the second does not
	// see the removed handler.
	want := []string{"a", "b:x", "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestClear_DropsPending(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.AddFunc(1, func(Event) { calls++ })
	bus.Post(testEvent{key: 1})
	bus.Post(testEvent{key: 1})
	bus.Clear()
	bus.ProcessEvents()
	if calls != 0 {
		t.Fatalf("expected cleared events to be dropped, got %d calls", calls)
	}
}

func TestRemoveAllHandlers_KeepsQueue(t *testing.T) {
	bus := NewBus()
	bus.AddFunc(1, func(Event) {})
	bus.Post(testEvent{key: 1})
	bus.RemoveAllHandlers()
	if bus.Len() != 1 {
		t.Fatalf("expected pending event to survive, got %d", bus.Len())
	}
	bus.ProcessEvents()
	if bus.Len() != 0 {
		t.Fatalf("expected queue drained, got %d", bus.Len())
	}
}

func TestProcessEvents_PanicLeavesRemainderQueued(t *testing.T) {
	bus := NewBus()
	bus.AddFunc(1, func(ev Event) {
		if ev.(testEvent).val == "boom" {
			panic("handler failure")
		}
	})
	bus.Post(testEvent{key: 1, val: "boom"})
	bus.Post(testEvent{key: 1, val: "after"})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to escape ProcessEvents")
			}
		}()
		bus.ProcessEvents()
	}()

	if bus.Len() != 1 {
		t.Fatalf("expected 1 event left queued, got %d", bus.Len())
	}
}
