// Package scheduler runs cancellable one-shot timers keyed by order ID.
// Lifecycle deadlines (payment timeout, review timeout) are registered
// here and cancelled when the order moves on before the deadline fires.
package scheduler

import (
	"context"
	"sync"
	"time"
)

type Scheduler struct {
	mu      sync.Mutex
	timers  map[int64]*time.Timer
	stopped bool
}

func New() *Scheduler {
	return &Scheduler{
		timers: map[int64]*time.Timer{},
	}
}

// Schedule registers fn to run after d. A second Schedule for the same
// key replaces the pending timer. The callback must tolerate firing
// after the order has already moved on; cancellation is best-effort.
func (s *Scheduler) Schedule(key int64, d time.Duration, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}

	s.timers[key] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, key)
		stopped := s.stopped
		s.mu.Unlock()

		if stopped {
			return
		}
		fn(context.Background())
	})
}

// Cancel drops the pending timer for key. It reports whether a timer was
// still pending.
func (s *Scheduler) Cancel(key int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[key]
	if !ok {
		return false
	}
	delete(s.timers, key)
	return t.Stop()
}

// Stop cancels all pending timers and rejects further scheduling.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
