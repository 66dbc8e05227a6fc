package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/core/model"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	ev := model.ParkingEvent{SlotID: "lot-001", Type: model.EventArrival}
	require.NoError(t, sink.RecordEvent(ev, true))
	require.NoError(t, sink.RecordEvent(ev, false))
	require.NoError(t, sink.RecordSubmission(coremetrics.SubmissionResult{
		Event: ev, Attempts: 2, Success: true, Latency: 50 * time.Millisecond,
	}))
	require.NoError(t, sink.RecordQueueDepth(3))
	require.NoError(t, sink.RecordCycle(coremetrics.CycleStats{OccupiedSlots: 4, ActiveSensors: 9, AvgBattery: 88.5}))

	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.events.WithLabelValues("arrival", "true")); got != 1 {
		t.Fatalf("expected 1 qualified arrival, got %v", got)
	}
	if got := testutil.ToFloat64(ps.queueDepth); got != 3 {
		t.Fatalf("expected depth 3, got %v", got)
	}
	if got := testutil.ToFloat64(ps.occupied); got != 4 {
		t.Fatalf("expected 4 occupied, got %v", got)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
}
