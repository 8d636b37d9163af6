package engine

import (
	"sync"
	"testing"
)

func TestInboxOrder(t *testing.T) {
	q := newInbox()
	q.push(PointerMove(epoch, 1, 1))
	q.push(Resize(epoch, 10, 10))
	q.push(PointerLeave(epoch))

	got := q.drain()
	want := []EventKind{EventPointerMove, EventResize, EventPointerLeave}
	if len(got) != len(want) {
		t.Fatalf("drained %d events, want %d", len(got), len(want))
	}
	for i, ev := range got {
		if ev.Kind != want[i] {
			t.Errorf("event %d = %v, want %v", i, ev.Kind, want[i])
		}
	}
	if n := len(q.drain()); n != 0 {
		t.Errorf("second drain returned %d events", n)
	}
}

func TestInboxOverflowDropsMoves(t *testing.T) {
	q := newInbox()
	q.push(Resize(epoch, 10, 10))
	for i := 0; i < inboxCapacity+10; i++ {
		q.push(PointerMove(epoch, float64(i), 0))
	}

	got := q.drain()
	if len(got) != inboxCapacity {
		t.Fatalf("drained %d events, want %d", len(got), inboxCapacity)
	}
	if got[0].Kind != EventResize {
		t.Errorf("resize was dropped, first event is %v", got[0].Kind)
	}
	if last := got[len(got)-1]; last.Pos.X != float64(inboxCapacity+9) {
		t.Errorf("newest move lost, last x = %v", last.Pos.X)
	}
	if n := q.reset(); n != 11 {
		t.Errorf("dropped = %d, want 11", n)
	}
}

func TestInboxConcurrentPush(t *testing.T) {
	q := newInbox()
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.push(Resize(epoch, 1, 1))
			}
		}()
	}
	wg.Wait()

	if n := len(q.drain()); n != 200 {
		t.Errorf("drained %d events, want 200", n)
	}
}
