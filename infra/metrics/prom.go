package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/core/model"
)

// PromSink records fleet and submission activity in Prometheus metrics.
type PromSink struct {
	events      *prometheus.CounterVec
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	queueDepth  prometheus.Gauge
	occupied    prometheus.Gauge
	active      prometheus.Gauge
	avgBattery  prometheus.Gauge
}

// NewPromSink registers parking metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusAddr.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_events_total",
			Help: "Total number of parking events emitted by the fleet",
		}, []string{"event_type", "qualified"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_submissions_total",
			Help: "Total number of ledger delivery sequences",
		}, []string{"success"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_submission_seconds",
			Help:    "Time spent delivering one event including retries",
			Buckets: prometheus.DefBuckets,
		}, []string{"success"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_queue_depth",
			Help: "Number of events waiting for ledger delivery",
		}),
		occupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parking_occupied_slots",
			Help: "Occupied slots at the end of the last cycle",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parking_active_sensors",
			Help: "Sensors in active status at the end of the last cycle",
		}),
		avgBattery: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parking_avg_battery_pct",
			Help: "Average fleet battery level in percent",
		}),
	}
	for _, c := range []prometheus.Collector{s.events, s.submissions, s.latency, s.queueDepth, s.occupied, s.active, s.avgBattery} {
		if err := register(reg, c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			return err
		}
	}
	return nil
}

// RecordEvent counts an emitted event by type and qualification.
func (s *PromSink) RecordEvent(ev model.ParkingEvent, qualified bool) error {
	s.events.WithLabelValues(ev.Type.String(), strconv.FormatBool(qualified)).Inc()
	return nil
}

// RecordSubmission counts a delivery sequence and observes its latency.
func (s *PromSink) RecordSubmission(res coremetrics.SubmissionResult) error {
	ok := strconv.FormatBool(res.Success)
	s.submissions.WithLabelValues(ok).Inc()
	s.latency.WithLabelValues(ok).Observe(res.Latency.Seconds())
	return nil
}

// RecordCycle updates the fleet gauges.
func (s *PromSink) RecordCycle(stats coremetrics.CycleStats) error {
	s.occupied.Set(float64(stats.OccupiedSlots))
	s.active.Set(float64(stats.ActiveSensors))
	s.avgBattery.Set(stats.AvgBattery)
	return nil
}

// RecordQueueDepth sets the queue depth gauge.
func (s *PromSink) RecordQueueDepth(depth int) error {
	s.queueDepth.Set(float64(depth))
	return nil
}
