package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/core/sim"
)

// FleetView is the read-only projection of the fleet served by the API.
type FleetView interface {
	Snapshot() []model.Sensor
	RecentEvents(n int) []model.ParkingEvent
}

// RunView exposes the driver lifecycle and the final report.
type RunView interface {
	State() sim.DriverState
	Report() *sim.Report
}

const recentActivityLimit = 20

type handler struct {
	fleet    FleetView
	run      RunView
	queueLen func() int
}

// NewHandler returns the read-only status API. It never mutates simulation
// state; every response is built from a snapshot.
func NewHandler(fleet FleetView, run RunView, queueLen func() int) http.Handler {
	h := &handler{fleet: fleet, run: run, queueLen: queueLen}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", h.get(h.status))
	mux.HandleFunc("/api/system-overview", h.get(h.systemOverview))
	mux.HandleFunc("/api/parking-slots", h.get(h.parkingSlots))
	mux.HandleFunc("/api/recent-activity", h.get(h.recentActivity))
	mux.HandleFunc("/api/report", h.get(h.report))
	return mux
}

func (h *handler) get(fn func() (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		data, err := fn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": data}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (h *handler) status() (any, error) {
	return map[string]any{
		"state":         h.run.State().String(),
		"total_sensors": len(h.fleet.Snapshot()),
		"queue_depth":   h.queueLen(),
		"timestamp":     time.Now().UTC(),
	}, nil
}

func (h *handler) systemOverview() (any, error) {
	sensors := h.fleet.Snapshot()
	var active, occupied int
	for _, s := range sensors {
		if s.Status == model.StatusActive {
			active++
		}
		if s.Occupied {
			occupied++
		}
	}
	total := len(sensors)
	overview := map[string]any{
		"total_slots":     total,
		"occupied_slots":  occupied,
		"available_slots": total - occupied,
		"active_sensors":  active,
	}
	if total > 0 {
		overview["occupancy_rate"] = float64(occupied) / float64(total) * 100
		overview["sensor_health"] = float64(active) / float64(total) * 100
	}
	return overview, nil
}

type slotEntry struct {
	SensorID     string    `json:"sensor_id"`
	Location     string    `json:"location"`
	Occupied     bool      `json:"occupied"`
	Status       string    `json:"status"`
	BatteryLevel float64   `json:"battery_level"`
	Confidence   float64   `json:"confidence"`
	LastUpdate   time.Time `json:"last_update"`
}

func (h *handler) parkingSlots() (any, error) {
	slots := make(map[string]slotEntry)
	for _, s := range h.fleet.Snapshot() {
		slots[s.SlotID] = slotEntry{
			SensorID:     s.ID,
			Location:     s.Location,
			Occupied:     s.Occupied,
			Status:       s.Status.String(),
			BatteryLevel: s.BatteryLevel,
			Confidence:   s.Confidence,
			LastUpdate:   s.LastReadingAt,
		}
	}
	return slots, nil
}

func (h *handler) recentActivity() (any, error) {
	return h.fleet.RecentEvents(recentActivityLimit), nil
}

func (h *handler) report() (any, error) {
	if r := h.run.Report(); r != nil {
		return r, nil
	}
	return nil, errNoReport
}

var errNoReport = &notReadyError{}

type notReadyError struct{}

func (*notReadyError) Error() string { return "report not ready" }
