package metrics

import (
	coremetrics "github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/core/model"
)

// MultiSink fans observations out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordEvent forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordEvent(ev model.ParkingEvent, qualified bool) error {
	for _, s := range m.Sinks {
		if err := s.RecordEvent(ev, qualified); err != nil {
			return err
		}
	}
	return nil
}

// RecordSubmission forwards the submission result.
func (m *MultiSink) RecordSubmission(res coremetrics.SubmissionResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordSubmission(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordCycle forwards the cycle snapshot.
func (m *MultiSink) RecordCycle(stats coremetrics.CycleStats) error {
	for _, s := range m.Sinks {
		if err := s.RecordCycle(stats); err != nil {
			return err
		}
	}
	return nil
}

// RecordQueueDepth forwards the queue depth.
func (m *MultiSink) RecordQueueDepth(depth int) error {
	for _, s := range m.Sinks {
		if err := s.RecordQueueDepth(depth); err != nil {
			return err
		}
	}
	return nil
}
