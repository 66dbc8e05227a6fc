package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/core/sim"
)

// WriteJSON writes the run report to w in indented JSON format.
func WriteJSON(w io.Writer, report sim.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteCSV writes the event history to w with one row per event.
func WriteCSV(w io.Writer, events []model.ParkingEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sensor_id", "slot_id", "location", "event_type", "occupied", "confidence", "timestamp"}); err != nil {
		return err
	}
	for _, ev := range events {
		rec := []string{
			ev.SensorID,
			ev.SlotID,
			ev.Location,
			ev.Type.String(),
			strconv.FormatBool(ev.Occupied),
			strconv.FormatFloat(ev.Confidence, 'f', -1, 64),
			ev.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveReport persists the report to a timestamped JSON file under dir and
// returns the file path.
func SaveReport(dir string, report sim.Report) (string, error) {
	name := "parksense_report_" + report.Timestamp.Format("20060102_150405") + ".json"
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteJSON(f, report); err != nil {
		return "", err
	}
	return path, nil
}
