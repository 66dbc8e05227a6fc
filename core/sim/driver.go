package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/parksense/parksense/core/ledger"
	"github.com/parksense/parksense/core/logger"
	"github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/internal/eventqueue"
)

// DriverState tracks the lifecycle of a simulation run.
type DriverState int32

const (
	StateIdle DriverState = iota
	StateRunning
	StateStopping
	StateStopped
)

// String returns a human-readable representation of the state.
func (s DriverState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Driver owns the cycle clock and the lifecycle of the fleet and the
// submitter. A driver runs once; a new run needs a fresh fleet and driver.
type Driver struct {
	fleet     *Fleet
	submitter *ledger.Submitter
	queue     *eventqueue.Queue
	cfg       Config
	log       logger.Logger
	sink      metrics.Sink

	mu     sync.Mutex
	state  DriverState
	report *Report
}

// NewDriver wires the fleet, queue and submitter together.
func NewDriver(cfg Config, fleet *Fleet, queue *eventqueue.Queue, submitter *ledger.Submitter, log logger.Logger, sink metrics.Sink) *Driver {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Driver{fleet: fleet, submitter: submitter, queue: queue, cfg: cfg, log: log, sink: sink}
}

// State reports the current lifecycle state.
func (d *Driver) State() DriverState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Report returns the run report once the driver has stopped.
func (d *Driver) Report() *Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report
}

func (d *Driver) setState(s DriverState) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Run executes the simulation until the configured duration or cycle budget
// elapses, or ctx is canceled. The submitter runs concurrently and is joined
// before the report is built. Ledger failures never stop the cycle loop.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	d.mu.Lock()
	if d.state != StateIdle {
		d.mu.Unlock()
		return nil, fmt.Errorf("driver already ran (state %s)", d.state)
	}
	d.state = StateRunning
	d.mu.Unlock()

	subCtx, stopSubmitter := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.submitter.Run(subCtx)
	}()

	interval := time.Duration(d.cfg.CycleIntervalSeconds * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if d.cfg.Cycles == 0 {
		timer := time.NewTimer(time.Duration(d.cfg.DurationMinutes) * time.Minute)
		defer timer.Stop()
		deadline = timer.C
	}

	d.log.Infof("simulation started: %d sensors, interval %s", d.cfg.Sensors, interval)
	cycle := 0
loop:
	for {
		select {
		case <-ctx.Done():
			d.log.Infof("stop requested")
			break loop
		case <-deadline:
			d.log.Infof("duration elapsed")
			break loop
		case now := <-ticker.C:
			cycle++
			events := d.fleet.Step(now)
			qualified := 0
			for _, ev := range events {
				if ev.Confidence > confidenceSubmitThreshold {
					qualified++
				}
			}
			stats := d.fleet.Stats(cycle, len(events), qualified, now)
			if err := d.sink.RecordCycle(stats); err != nil {
				d.log.Warnf("record cycle: %v", err)
			}
			if err := d.sink.RecordQueueDepth(d.queue.Len()); err != nil {
				d.log.Warnf("record queue depth: %v", err)
			}
			if cycle%10 == 0 {
				d.log.Infof("cycle %d: %d active sensors, %d occupied slots, %d new events",
					cycle, stats.ActiveSensors, stats.OccupiedSlots, len(events))
			}
			if d.cfg.Cycles > 0 && cycle >= d.cfg.Cycles {
				break loop
			}
		}
	}

	d.setState(StateStopping)
	stopSubmitter()
	wg.Wait()
	d.setState(StateStopped)

	report := BuildReport(d.fleet.Snapshot(), d.fleet.History(), time.Now())
	d.mu.Lock()
	d.report = &report
	d.mu.Unlock()
	d.log.Infof("simulation completed: %d cycles, %d events", cycle, report.EventStatistics.TotalEvents)
	return &report, nil
}
