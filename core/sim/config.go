package sim

import "fmt"

// DefaultLocations is the catalog of named zones assigned round-robin at
// fleet creation.
var DefaultLocations = []string{
	"Mall Entrance", "Mall Exit", "Ground Floor A", "Ground Floor B",
	"First Floor A", "First Floor B", "Second Floor A", "Second Floor B",
	"VIP Section", "Disabled Parking", "Electric Vehicle", "Visitor Parking",
}

// Config holds parameters for the sensor fleet simulation.
type Config struct {
	// Sensors is the fleet size, one sensor per slot.
	Sensors int `json:"sensors"`
	// DurationMinutes bounds the run in wall-clock time. Ignored if Cycles > 0.
	DurationMinutes int `json:"duration_minutes"`
	// Cycles runs exactly this many cycles when positive.
	Cycles int `json:"cycles"`
	// CycleIntervalSeconds is the pause between cycles.
	CycleIntervalSeconds float64 `json:"cycle_interval_seconds"`
	// ArrivalRate is the per-cycle probability that a free slot becomes occupied.
	ArrivalRate float64 `json:"arrival_rate"`
	// DepartureRate is the per-cycle probability that an occupied slot frees up.
	DepartureRate float64 `json:"departure_rate"`
	// SensorErrorRate is the per-cycle probability of a corrupted reading.
	SensorErrorRate float64 `json:"sensor_error_rate"`
	// BatteryDrainRate is the battery percentage lost per cycle.
	BatteryDrainRate float64 `json:"battery_drain_rate"`
	// Seed makes the run reproducible when non-zero.
	Seed int64 `json:"seed"`
	// Locations overrides the default zone catalog.
	Locations []string `json:"locations"`
}

// SetDefaults applies the original deployment parameters.
func (c *Config) SetDefaults() {
	if c.Sensors == 0 {
		c.Sensors = 20
	}
	if c.DurationMinutes == 0 {
		c.DurationMinutes = 10
	}
	if c.CycleIntervalSeconds == 0 {
		c.CycleIntervalSeconds = 6
	}
	if c.ArrivalRate == 0 {
		c.ArrivalRate = 0.1
	}
	if c.DepartureRate == 0 {
		c.DepartureRate = 0.05
	}
	if c.SensorErrorRate == 0 {
		c.SensorErrorRate = 0.02
	}
	if c.BatteryDrainRate == 0 {
		c.BatteryDrainRate = 0.001
	}
	if len(c.Locations) == 0 {
		c.Locations = DefaultLocations
	}
}

// Validate checks that rates are probabilities and sizes are positive.
func (c Config) Validate() error {
	if c.Sensors <= 0 {
		return fmt.Errorf("sensors must be positive")
	}
	for name, r := range map[string]float64{
		"arrival_rate":      c.ArrivalRate,
		"departure_rate":    c.DepartureRate,
		"sensor_error_rate": c.SensorErrorRate,
	} {
		if r < 0 || r > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, r)
		}
	}
	if c.BatteryDrainRate < 0 {
		return fmt.Errorf("battery_drain_rate must not be negative")
	}
	if c.CycleIntervalSeconds <= 0 {
		return fmt.Errorf("cycle_interval_seconds must be positive")
	}
	return nil
}
