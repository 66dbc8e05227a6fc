package export

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/core/sim"
)

func sampleReport() sim.Report {
	return sim.Report{
		RunID: "run-42",
		SimulationSummary: sim.SimulationSummary{
			TotalSensors: 3, ActiveSensors: 2, LowBatterySensors: 1, SensorHealthPct: 66.7,
		},
		ParkingStatus:     sim.ParkingStatus{OccupiedSlots: 2, FreeSlots: 1, OccupancyRatePct: 66.7},
		EventStatistics:   sim.EventStatistics{TotalEvents: 5, Arrivals: 3, Departures: 2},
		LocationBreakdown: map[string]sim.LocationStats{"Mall Entrance": {TotalSlots: 3, OccupiedSlots: 2}},
		Timestamp:         time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded sim.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "run-42", decoded.RunID)
	require.Equal(t, 2, decoded.ParkingStatus.OccupiedSlots)
	require.Contains(t, decoded.LocationBreakdown, "Mall Entrance")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	events := []model.ParkingEvent{
		{SensorID: "IOT-001", SlotID: "lot-001", Location: "Mall Exit", Type: model.EventArrival, Occupied: true, Confidence: 0.9},
	}
	require.NoError(t, WriteCSV(&buf, events))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[1], "arrival")
	require.Contains(t, lines[1], "lot-001")
}

func TestSaveReport(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveReport(dir, sampleReport())
	require.NoError(t, err)
	require.Contains(t, path, "parksense_report_20260828_120000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "run-42")
}
