package engine

import "sync"

// inboxCapacity bounds the events buffered between two frames.
// Older pointer moves are the first to go when it overflows.
const inboxCapacity = 256

// inbox is a multi-producer queue drained by the frame thread.
// Hosts push from any goroutine; only the frame callback consumes.
type inbox struct {
	mu      sync.Mutex
	events  []Event
	spare   []Event
	dropped int
}

func newInbox() *inbox {
	return &inbox{
		events: make([]Event, 0, inboxCapacity),
		spare:  make([]Event, 0, inboxCapacity),
	}
}

// push appends an event. When full the oldest pointer move makes room;
// with no pointer move queued the new event is dropped.
func (q *inbox) push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) >= inboxCapacity {
		i := q.oldestMove()
		if i < 0 {
			q.dropped++
			return
		}
		copy(q.events[i:], q.events[i+1:])
		q.events = q.events[:len(q.events)-1]
		q.dropped++
	}
	q.events = append(q.events, ev)
}

func (q *inbox) oldestMove() int {
	for i, ev := range q.events {
		if ev.Kind == EventPointerMove {
			return i
		}
	}
	return -1
}

// drain returns every queued event in arrival order. The slice is only
// valid until the next drain.
func (q *inbox) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.events
	q.events = q.spare[:0]
	q.spare = out
	return out
}

// reset discards queued events and returns how many were dropped on overflow.
func (q *inbox) reset() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = q.events[:0]
	n := q.dropped
	q.dropped = 0
	return n
}
