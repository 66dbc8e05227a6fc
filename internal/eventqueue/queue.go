package eventqueue

import (
	"sync"
	"time"

	"github.com/parksense/parksense/core/model"
)

// Queue is an unbounded FIFO hand-off buffer between the simulation driver and
// the ledger submitter. Push never blocks; Pop waits up to a timeout for an
// item so the consumer can periodically re-check its stop condition.
//
// The queue is the only structure shared between the two execution contexts.
type Queue struct {
	mu    sync.Mutex
	items []model.ParkingEvent
	wake  chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends the event to the tail. It never blocks and never fails.
func (q *Queue) Push(ev model.ParkingEvent) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop returns the head of the queue in enqueue order. It blocks up to timeout
// waiting for an item and reports false if the queue stayed empty.
func (q *Queue) Pop(timeout time.Duration) (model.ParkingEvent, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, true
		}
		q.mu.Unlock()
		select {
		case <-q.wake:
		case <-timer.C:
			return model.ParkingEvent{}, false
		}
	}
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
