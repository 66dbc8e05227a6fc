package model

import "time"

// SensorStatus describes the health of a sensor as derived from its battery level.
type SensorStatus int

const (
	StatusActive SensorStatus = iota
	StatusLowBattery
	StatusOffline
)

// Battery thresholds in percent. The offline threshold is the tighter one and
// must be evaluated first when deriving a status.
const (
	OfflineThreshold    = 5.0
	LowBatteryThreshold = 20.0
)

// String returns a human-readable representation of the status.
func (s SensorStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusLowBattery:
		return "low_battery"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// StatusForBattery derives the sensor status from a battery level.
// The offline check precedes the low-battery check so both states are reachable.
func StatusForBattery(level float64) SensorStatus {
	switch {
	case level < OfflineThreshold:
		return StatusOffline
	case level < LowBatteryThreshold:
		return StatusLowBattery
	default:
		return StatusActive
	}
}

// Sensor represents a battery-powered occupancy sensor bound to one parking slot.
// Sensors are created once at fleet initialization and mutated in place by the
// fleet only; they are never removed during a run.
type Sensor struct {
	ID            string
	SlotID        string
	Location      string
	BatteryLevel  float64 // percent, 0-100, non-increasing
	Status        SensorStatus
	Occupied      bool
	Confidence    float64 // reading reliability, 0-1
	LastReadingAt time.Time
}
