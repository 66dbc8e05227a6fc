package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/infra/logger"
	"github.com/parksense/parksense/internal/eventqueue"
)

type stubClient struct {
	mu       sync.Mutex
	attempts int
	failures int // number of leading calls that fail
}

func (c *stubClient) Submit(_ context.Context, ev model.ParkingEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.attempts <= c.failures {
		return &SubmissionError{SlotID: ev.SlotID, Output: "endorsement failure", Err: errors.New("exit status 1")}
	}
	return nil
}

func (c *stubClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func newTestSubmitter(t *testing.T, c Client) (*Submitter, *eventqueue.Queue) {
	t.Helper()
	q := eventqueue.New()
	s, err := NewSubmitter(c, q, logger.NopLogger{}, nil)
	require.NoError(t, err)
	s.sleep = func(context.Context, time.Duration) {}
	s.popTimeout = 10 * time.Millisecond
	return s, q
}

func TestDeliverSucceedsFirstTry(t *testing.T) {
	c := &stubClient{}
	s, _ := newTestSubmitter(t, c)
	res := s.Deliver(context.Background(), model.ParkingEvent{SlotID: "lot-001"})
	require.True(t, res.Success)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, 1, c.calls())
}

func TestDeliverRetriesOnceThenSucceeds(t *testing.T) {
	c := &stubClient{failures: 1}
	s, _ := newTestSubmitter(t, c)
	res := s.Deliver(context.Background(), model.ParkingEvent{SlotID: "lot-002"})
	require.True(t, res.Success)
	require.Equal(t, 2, res.Attempts)
	require.Equal(t, 2, c.calls())
}

func TestDeliverDropsAfterSecondFailure(t *testing.T) {
	c := &stubClient{failures: 10}
	s, q := newTestSubmitter(t, c)
	res := s.Deliver(context.Background(), model.ParkingEvent{SlotID: "lot-003"})
	require.False(t, res.Success)
	require.Equal(t, 2, res.Attempts)
	require.Equal(t, 2, c.calls(), "exactly two attempts, no more")
	require.Equal(t, 0, q.Len(), "failed event must not be re-queued")
}

func TestNewSubmitterRequiresClient(t *testing.T) {
	_, err := NewSubmitter(nil, eventqueue.New(), logger.NopLogger{}, nil)
	require.Error(t, err)
}

func TestRunDrainsQueueAndStops(t *testing.T) {
	c := &stubClient{}
	s, q := newTestSubmitter(t, c)
	q.Push(model.ParkingEvent{SlotID: "lot-001"})
	q.Push(model.ParkingEvent{SlotID: "lot-002"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return c.calls() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("submitter did not observe cancellation")
	}
	require.Equal(t, 0, q.Len())
}
