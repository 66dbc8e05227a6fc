package metrics

import (
	"time"

	"github.com/parksense/parksense/core/model"
)

// SubmissionResult records the outcome of one ledger delivery attempt sequence.
type SubmissionResult struct {
	Event    model.ParkingEvent
	Attempts int
	Success  bool
	Latency  time.Duration
}

// CycleStats is a per-cycle snapshot of the fleet.
type CycleStats struct {
	Cycle           int
	TotalSensors    int
	ActiveSensors   int
	OccupiedSlots   int
	EventsEmitted   int
	EventsQualified int
	AvgBattery      float64
	AvgConfidence   float64
	Time            time.Time
}

// Sink receives simulation and delivery observations. Implementations must be
// safe for use from both the driver and the submitter goroutine.
type Sink interface {
	RecordEvent(ev model.ParkingEvent, qualified bool) error
	RecordSubmission(res SubmissionResult) error
	RecordCycle(stats CycleStats) error
	RecordQueueDepth(depth int) error
}

// NopSink discards all observations.
type NopSink struct{}

func (NopSink) RecordEvent(model.ParkingEvent, bool) error { return nil }
func (NopSink) RecordSubmission(SubmissionResult) error    { return nil }
func (NopSink) RecordCycle(CycleStats) error               { return nil }
func (NopSink) RecordQueueDepth(int) error                 { return nil }
