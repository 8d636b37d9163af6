// Package host provides engine hosts for a raylib window and a tcell terminal.
package host

import (
	"sync"
	"time"

	"github.com/pthm-cable/backdrop/engine"
)

type request struct {
	id engine.FrameID
	fn engine.FrameFunc
}

// frameQueue holds pending frame requests until the host's next refresh.
type frameQueue struct {
	next    engine.FrameID
	pending []request
	running []request
}

func (q *frameQueue) request(fn engine.FrameFunc) engine.FrameID {
	q.next++
	q.pending = append(q.pending, request{id: q.next, fn: fn})
	return q.next
}

func (q *frameQueue) cancel(id engine.FrameID) {
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// run fires every request pending at call time. Requests made by the
// callbacks wait for the next run.
func (q *frameQueue) run(now time.Time) int {
	q.running, q.pending = q.pending, q.running[:0]
	for _, r := range q.running {
		r.fn(now)
	}
	n := len(q.running)
	clear(q.running)
	q.running = q.running[:0]
	return n
}

func (q *frameQueue) len() int {
	return len(q.pending)
}

// sinks fans host events out to subscribers. Emit may be called from any goroutine.
type sinks struct {
	mu   sync.Mutex
	next int
	subs map[int]func(engine.Event)
}

func (s *sinks) subscribe(fn func(engine.Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(engine.Event))
	}
	id := s.next
	s.next++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *sinks) emit(ev engine.Event) {
	s.mu.Lock()
	subs := make([]func(engine.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (s *sinks) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
