package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/infra/logger"
)

// InfluxSink writes fleet observations to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordEvent writes the event as a point tagged by type and location.
func (s *InfluxSink) RecordEvent(ev model.ParkingEvent, qualified bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("parking_event").
		AddTag("sensor_id", ev.SensorID).
		AddTag("slot_id", ev.SlotID).
		AddTag("location", ev.Location).
		AddTag("event_type", ev.Type.String()).
		AddTag("qualified", strconv.FormatBool(qualified)).
		AddField("occupied", ev.Occupied).
		AddField("confidence", ev.Confidence).
		SetTime(ev.Timestamp)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSubmission persists the result of one delivery sequence.
func (s *InfluxSink) RecordSubmission(res coremetrics.SubmissionResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("ledger_submission").
		AddTag("slot_id", res.Event.SlotID).
		AddTag("success", strconv.FormatBool(res.Success)).
		AddField("attempts", res.Attempts).
		AddField("latency_ms", res.Latency.Milliseconds()).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCycle writes a per-cycle fleet snapshot.
func (s *InfluxSink) RecordCycle(stats coremetrics.CycleStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_cycle").
		AddField("cycle", stats.Cycle).
		AddField("total_sensors", stats.TotalSensors).
		AddField("active_sensors", stats.ActiveSensors).
		AddField("occupied_slots", stats.OccupiedSlots).
		AddField("events_emitted", stats.EventsEmitted).
		AddField("events_qualified", stats.EventsQualified).
		AddField("avg_battery", stats.AvgBattery).
		AddField("avg_confidence", stats.AvgConfidence).
		SetTime(stats.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordQueueDepth writes the queue depth.
func (s *InfluxSink) RecordQueueDepth(depth int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("event_queue").
		AddField("depth", depth).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }
