package model

import (
	"encoding/json"
	"time"
)

// EventType classifies a parking event.
type EventType int

const (
	EventInitialization EventType = iota
	EventArrival
	EventDeparture
	EventHeartbeat
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventInitialization:
		return "initialization"
	case EventArrival:
		return "arrival"
	case EventDeparture:
		return "departure"
	case EventHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the event type as its string form.
func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ParkingEvent is an immutable snapshot of a sensor reading at the moment of a
// state change. It is produced by the fleet and consumed once by the submitter.
type ParkingEvent struct {
	SensorID   string    `json:"sensor_id"`
	SlotID     string    `json:"slot_id"`
	Location   string    `json:"location"`
	Occupied   bool      `json:"occupied"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	Type       EventType `json:"event_type"`
}

// NewParkingEvent builds an event from the sensor's current state.
func NewParkingEvent(s *Sensor, typ EventType, confidence float64, at time.Time) ParkingEvent {
	return ParkingEvent{
		SensorID:   s.ID,
		SlotID:     s.SlotID,
		Location:   s.Location,
		Occupied:   s.Occupied,
		Timestamp:  at,
		Confidence: confidence,
		Type:       typ,
	}
}
