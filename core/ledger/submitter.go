package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/parksense/parksense/core/logger"
	"github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/internal/eventqueue"
)

const (
	// maxAttempts bounds delivery at two tries per event. A failing event is
	// dropped rather than re-queued so one bad slot cannot stall the consumer.
	maxAttempts = 2

	defaultBackoff    = 2 * time.Second
	defaultPopTimeout = time.Second
)

// Submitter drains the event queue and delivers each event to the ledger with
// a bounded retry policy. It is the sole consumer of the queue.
type Submitter struct {
	client     Client
	queue      *eventqueue.Queue
	log        logger.Logger
	sink       metrics.Sink
	backoff    time.Duration
	popTimeout time.Duration

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(context.Context, time.Duration)
}

// NewSubmitter creates a Submitter. The client must be usable: callers are
// expected to have verified the external command at startup.
func NewSubmitter(client Client, queue *eventqueue.Queue, log logger.Logger, sink metrics.Sink) (*Submitter, error) {
	if client == nil {
		return nil, errors.New("ledger client is required")
	}
	if queue == nil {
		return nil, errors.New("event queue is required")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Submitter{
		client:     client,
		queue:      queue,
		log:        log,
		sink:       sink,
		backoff:    defaultBackoff,
		popTimeout: defaultPopTimeout,
		sleep:      sleepCtx,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Run consumes the queue until ctx is canceled. Each pop uses a short timeout
// so the loop observes cancellation without a hard stop primitive.
func (s *Submitter) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			s.log.Infof("ledger submitter stopped")
			return
		}
		ev, ok := s.queue.Pop(s.popTimeout)
		if !ok {
			continue
		}
		// An in-flight delivery is bounded by the client's own timeout, not
		// by cancellation: the current item is always drained before exit.
		s.Deliver(context.Background(), ev)
		if err := s.sink.RecordQueueDepth(s.queue.Len()); err != nil {
			s.log.Warnf("record queue depth: %v", err)
		}
	}
}

// Deliver runs the submit-retry sequence for a single event: one attempt, and
// on failure one more after a fixed backoff. After the second failure the
// event is dropped and only logged; it is never re-queued.
func (s *Submitter) Deliver(ctx context.Context, ev model.ParkingEvent) metrics.SubmissionResult {
	start := time.Now()
	res := metrics.SubmissionResult{Event: ev}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res.Attempts = attempt
		if err = s.client.Submit(ctx, ev); err == nil {
			res.Success = true
			break
		}
		if attempt < maxAttempts {
			s.log.Warnf("retrying ledger update for %s: %v", ev.SlotID, err)
			s.sleep(ctx, s.backoff)
		}
	}
	res.Latency = time.Since(start)
	if res.Success {
		s.log.Infof("ledger updated: %s -> %t", ev.SlotID, ev.Occupied)
	} else {
		s.log.Errorf("dropping event for %s after %d attempts: %v", ev.SlotID, res.Attempts, err)
	}
	if serr := s.sink.RecordSubmission(res); serr != nil {
		s.log.Warnf("record submission: %v", serr)
	}
	return res
}
