package sim

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/parksense/parksense/core/model"
)

// Report is the JSON-serializable summary of one simulation run. It is handed
// to the reporting collaborator and not interpreted further by the core.
type Report struct {
	RunID             string                   `json:"run_id"`
	SimulationSummary SimulationSummary        `json:"simulation_summary"`
	ParkingStatus     ParkingStatus            `json:"parking_status"`
	EventStatistics   EventStatistics          `json:"event_statistics"`
	LocationBreakdown map[string]LocationStats `json:"location_breakdown"`
	Timestamp         time.Time                `json:"timestamp"`
}

type SimulationSummary struct {
	TotalSensors      int     `json:"total_sensors"`
	ActiveSensors     int     `json:"active_sensors"`
	LowBatterySensors int     `json:"low_battery_sensors"`
	OfflineSensors    int     `json:"offline_sensors"`
	SensorHealthPct   float64 `json:"sensor_health_pct"`
}

type ParkingStatus struct {
	OccupiedSlots    int     `json:"occupied_slots"`
	FreeSlots        int     `json:"free_slots"`
	OccupancyRatePct float64 `json:"occupancy_rate_pct"`
}

type EventStatistics struct {
	TotalEvents   int     `json:"total_events"`
	Arrivals      int     `json:"arrivals"`
	Departures    int     `json:"departures"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgBatteryPct float64 `json:"avg_battery_pct"`
}

type LocationStats struct {
	TotalSlots       int     `json:"total_slots"`
	OccupiedSlots    int     `json:"occupied_slots"`
	ActiveSensors    int     `json:"active_sensors"`
	OccupancyRatePct float64 `json:"occupancy_rate_pct"`
}

// BuildReport aggregates the final sensor states and the full event history.
func BuildReport(sensors []model.Sensor, history []model.ParkingEvent, now time.Time) Report {
	r := Report{
		RunID:             uuid.NewString(),
		LocationBreakdown: make(map[string]LocationStats),
		Timestamp:         now,
	}

	battery := make([]float64, 0, len(sensors))
	confidence := make([]float64, 0, len(sensors))
	for _, s := range sensors {
		r.SimulationSummary.TotalSensors++
		switch s.Status {
		case model.StatusActive:
			r.SimulationSummary.ActiveSensors++
		case model.StatusLowBattery:
			r.SimulationSummary.LowBatterySensors++
		case model.StatusOffline:
			r.SimulationSummary.OfflineSensors++
		}
		if s.Occupied {
			r.ParkingStatus.OccupiedSlots++
		} else {
			r.ParkingStatus.FreeSlots++
		}
		battery = append(battery, s.BatteryLevel)
		confidence = append(confidence, s.Confidence)

		loc := r.LocationBreakdown[s.Location]
		loc.TotalSlots++
		if s.Occupied {
			loc.OccupiedSlots++
		}
		if s.Status == model.StatusActive {
			loc.ActiveSensors++
		}
		r.LocationBreakdown[s.Location] = loc
	}

	if n := r.SimulationSummary.TotalSensors; n > 0 {
		r.SimulationSummary.SensorHealthPct = pct(r.SimulationSummary.ActiveSensors, n)
		r.ParkingStatus.OccupancyRatePct = pct(r.ParkingStatus.OccupiedSlots, n)
		r.EventStatistics.AvgConfidence = stat.Mean(confidence, nil)
		r.EventStatistics.AvgBatteryPct = stat.Mean(battery, nil)
	}
	for name, loc := range r.LocationBreakdown {
		loc.OccupancyRatePct = pct(loc.OccupiedSlots, loc.TotalSlots)
		r.LocationBreakdown[name] = loc
	}

	r.EventStatistics.TotalEvents = len(history)
	for _, ev := range history {
		switch ev.Type {
		case model.EventArrival:
			r.EventStatistics.Arrivals++
		case model.EventDeparture:
			r.EventStatistics.Departures++
		}
	}
	return r
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
