package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parksense/parksense/core/model"
)

func TestBuildReport(t *testing.T) {
	sensors := []model.Sensor{
		{ID: "IOT-001", Location: "Mall Entrance", Status: model.StatusActive, Occupied: true, BatteryLevel: 90, Confidence: 0.9},
		{ID: "IOT-002", Location: "Mall Entrance", Status: model.StatusLowBattery, Occupied: false, BatteryLevel: 10, Confidence: 0.8},
		{ID: "IOT-003", Location: "Mall Exit", Status: model.StatusOffline, Occupied: true, BatteryLevel: 2, Confidence: 0.7},
		{ID: "IOT-004", Location: "Mall Exit", Status: model.StatusActive, Occupied: false, BatteryLevel: 98, Confidence: 0.98},
	}
	history := []model.ParkingEvent{
		{Type: model.EventInitialization},
		{Type: model.EventArrival},
		{Type: model.EventArrival},
		{Type: model.EventDeparture},
		{Type: model.EventHeartbeat},
	}
	now := time.Now()
	r := BuildReport(sensors, history, now)

	require.NotEmpty(t, r.RunID)
	require.Equal(t, now, r.Timestamp)

	require.Equal(t, 4, r.SimulationSummary.TotalSensors)
	require.Equal(t, 2, r.SimulationSummary.ActiveSensors)
	require.Equal(t, 1, r.SimulationSummary.LowBatterySensors)
	require.Equal(t, 1, r.SimulationSummary.OfflineSensors)
	require.InDelta(t, 50, r.SimulationSummary.SensorHealthPct, 1e-9)

	require.Equal(t, 2, r.ParkingStatus.OccupiedSlots)
	require.Equal(t, 2, r.ParkingStatus.FreeSlots)
	require.InDelta(t, 50, r.ParkingStatus.OccupancyRatePct, 1e-9)

	require.Equal(t, 5, r.EventStatistics.TotalEvents)
	require.Equal(t, 2, r.EventStatistics.Arrivals)
	require.Equal(t, 1, r.EventStatistics.Departures)
	require.InDelta(t, 50, r.EventStatistics.AvgBatteryPct, 1e-9)
	require.InDelta(t, 0.845, r.EventStatistics.AvgConfidence, 1e-9)

	entrance := r.LocationBreakdown["Mall Entrance"]
	require.Equal(t, 2, entrance.TotalSlots)
	require.Equal(t, 1, entrance.OccupiedSlots)
	require.Equal(t, 1, entrance.ActiveSensors)
	require.InDelta(t, 50, entrance.OccupancyRatePct, 1e-9)
}

func TestBuildReportEmptyFleet(t *testing.T) {
	r := BuildReport(nil, nil, time.Now())
	require.Equal(t, 0, r.SimulationSummary.TotalSensors)
	require.Equal(t, 0.0, r.ParkingStatus.OccupancyRatePct)
	require.Empty(t, r.LocationBreakdown)
}
