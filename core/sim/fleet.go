package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/parksense/parksense/core/logger"
	"github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/internal/eventqueue"
)

// Confidence handling constants. Corrupted readings lose a fixed penalty, a
// state transition costs a small random jitter, and only readings above the
// submission threshold reach the ledger.
const (
	confidenceSubmitThreshold = 0.75
	corruptionPenalty         = 0.2
	corruptionFloor           = 0.5
	transitionJitterMax       = 0.1
	transitionFloor           = 0.7
)

// Fleet owns the sensor set and advances it one cycle at a time. All sensor
// mutation happens on the driver's goroutine; the mutex only guards read
// snapshots taken by the status API.
type Fleet struct {
	mu      sync.Mutex
	sensors []*model.Sensor
	history []model.ParkingEvent
	queue   *eventqueue.Queue
	rng     *rand.Rand
	cfg     Config
	log     logger.Logger
	sink    metrics.Sink
}

// NewFleet allocates the sensors, assigns locations round-robin from the
// catalog and emits one unconditional Initialization event per sensor so the
// ledger holds a baseline record for every slot.
func NewFleet(cfg Config, rng *rand.Rand, queue *eventqueue.Queue, log logger.Logger, sink metrics.Sink) *Fleet {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	f := &Fleet{queue: queue, rng: rng, cfg: cfg, log: log, sink: sink}
	now := time.Now()
	for i := 0; i < cfg.Sensors; i++ {
		s := &model.Sensor{
			ID:            fmt.Sprintf("IOT-%03d", i+1),
			SlotID:        fmt.Sprintf("lot-%03d", i+1),
			Location:      cfg.Locations[i%len(cfg.Locations)],
			BatteryLevel:  80 + rng.Float64()*20,
			Status:        model.StatusActive,
			Occupied:      rng.Intn(2) == 1,
			Confidence:    0.85 + rng.Float64()*0.14,
			LastReadingAt: now,
		}
		f.sensors = append(f.sensors, s)
		ev := model.NewParkingEvent(s, model.EventInitialization, s.Confidence, now)
		f.history = append(f.history, ev)
		f.queue.Push(ev)
		f.recordEvent(ev, true)
	}
	log.Infof("created %d sensors across %d locations", cfg.Sensors, len(cfg.Locations))
	return f
}

// Step advances every sensor by one cycle and returns the events emitted this
// cycle. A sensor produces at most one transition event per cycle.
func (f *Fleet) Step(now time.Time) []model.ParkingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var emitted []model.ParkingEvent
	for _, s := range f.sensors {
		f.updateHealth(s)
		ev, ok := f.transition(s, now)
		if !ok {
			continue
		}
		f.emit(ev)
		emitted = append(emitted, ev)
	}
	return emitted
}

// updateHealth drains the battery, re-derives the status and models transient
// reading corruption independent of battery health.
func (f *Fleet) updateHealth(s *model.Sensor) {
	s.BatteryLevel -= f.cfg.BatteryDrainRate
	if s.BatteryLevel < 0 {
		s.BatteryLevel = 0
	}
	s.Status = model.StatusForBattery(s.BatteryLevel)
	if f.rng.Float64() < f.cfg.SensorErrorRate {
		s.Confidence -= corruptionPenalty
		if s.Confidence < corruptionFloor {
			s.Confidence = corruptionFloor
		}
	}
}

// transition applies the occupancy state machine. Offline sensors do not
// report transitions.
func (f *Fleet) transition(s *model.Sensor, now time.Time) (model.ParkingEvent, bool) {
	if s.Status == model.StatusOffline {
		return model.ParkingEvent{}, false
	}
	var typ model.EventType
	switch {
	case s.Occupied && f.rng.Float64() < f.cfg.DepartureRate:
		s.Occupied = false
		typ = model.EventDeparture
	case !s.Occupied && f.rng.Float64() < f.cfg.ArrivalRate:
		s.Occupied = true
		typ = model.EventArrival
	default:
		return model.ParkingEvent{}, false
	}
	s.LastReadingAt = now
	conf := s.Confidence - f.rng.Float64()*transitionJitterMax
	if conf < transitionFloor {
		conf = transitionFloor
	}
	return model.NewParkingEvent(s, typ, conf, now), true
}

// Heartbeats emits one heartbeat event per sensor with its current reading.
// Heartbeats are produced on demand only, never as part of Step.
func (f *Fleet) Heartbeats(now time.Time) []model.ParkingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]model.ParkingEvent, 0, len(f.sensors))
	for _, s := range f.sensors {
		ev := model.NewParkingEvent(s, model.EventHeartbeat, s.Confidence, now)
		f.emit(ev)
		events = append(events, ev)
	}
	return events
}

// emit applies the qualification filter: every event lands in history, only
// confident ones are forwarded to the ledger queue.
func (f *Fleet) emit(ev model.ParkingEvent) {
	qualified := ev.Confidence > confidenceSubmitThreshold
	f.history = append(f.history, ev)
	if qualified {
		f.queue.Push(ev)
		f.log.Infof("%s: %s at %s", ev.Type, ev.SlotID, ev.Location)
	} else {
		f.log.Debugf("discarding low-confidence %s for %s (%.2f)", ev.Type, ev.SlotID, ev.Confidence)
	}
	f.recordEvent(ev, qualified)
}

func (f *Fleet) recordEvent(ev model.ParkingEvent, qualified bool) {
	if err := f.sink.RecordEvent(ev, qualified); err != nil {
		f.log.Warnf("record event: %v", err)
	}
}

// Snapshot returns a copy of the current sensor states.
func (f *Fleet) Snapshot() []model.Sensor {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Sensor, len(f.sensors))
	for i, s := range f.sensors {
		out[i] = *s
	}
	return out
}

// History returns a copy of all events emitted so far, qualifying or not.
func (f *Fleet) History() []model.ParkingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ParkingEvent(nil), f.history...)
}

// RecentEvents returns up to n events, newest first.
func (f *Fleet) RecentEvents(n int) []model.ParkingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n > len(f.history) {
		n = len(f.history)
	}
	out := make([]model.ParkingEvent, 0, n)
	for i := len(f.history) - 1; i >= len(f.history)-n; i-- {
		out = append(out, f.history[i])
	}
	return out
}

// Stats summarizes the fleet at the end of a cycle.
func (f *Fleet) Stats(cycle int, emitted, qualified int, now time.Time) metrics.CycleStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := metrics.CycleStats{
		Cycle:           cycle,
		TotalSensors:    len(f.sensors),
		EventsEmitted:   emitted,
		EventsQualified: qualified,
		Time:            now,
	}
	battery := make([]float64, 0, len(f.sensors))
	confidence := make([]float64, 0, len(f.sensors))
	for _, s := range f.sensors {
		if s.Status == model.StatusActive {
			st.ActiveSensors++
		}
		if s.Occupied {
			st.OccupiedSlots++
		}
		battery = append(battery, s.BatteryLevel)
		confidence = append(confidence, s.Confidence)
	}
	if len(battery) > 0 {
		st.AvgBattery = stat.Mean(battery, nil)
		st.AvgConfidence = stat.Mean(confidence, nil)
	}
	return st
}
