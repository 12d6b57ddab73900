package persistence

import (
	"encoding/json"
	"time"
)

// Event types written to the outbox alongside log changes.
const (
	EventVisitorTimeIn  = "visitor_log.time_in"
	EventVisitorTimeOut = "visitor_log.time_out"
	EventVehicleEntry   = "vehicle_log.entry"
	EventVehicleExit    = "vehicle_log.exit"
)

// LogEvent is the JSON body of an outbox message.
type LogEvent struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	OccurredAt int64           `json:"occurred_at"`
	Record     json.RawMessage `json:"record"`
}

type visitorLogRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	ContactNumber    string `json:"contactNumber"`
	HomeOwnerToVisit string `json:"homeOwnerToVisit"`
	PurposeOfVisit   string `json:"purposeOfVisit"`
	TimeIn           int64  `json:"timeIn"`
	TimeOut          *int64 `json:"timeOut,omitempty"`
}

type vehicleLogRecord struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicleId"`
	PlateNumber string `json:"plateNumber"`
	Category    string `json:"category"`
	Entry       int64  `json:"entry"`
	Exit        *int64 `json:"exit,omitempty"`
}

// VisitorLogEvent encodes a visitor log change.
func VisitorLogEvent(eventType string, log VisitorLog, at time.Time) ([]byte, error) {
	return encodeEvent(eventType, log.ID, at, visitorLogRecord{
		ID:               log.ID,
		Name:             log.Name,
		Address:          log.Address,
		ContactNumber:    log.ContactNumber,
		HomeOwnerToVisit: log.HomeOwnerToVisit,
		PurposeOfVisit:   log.PurposeOfVisit,
		TimeIn:           log.TimeIn.UnixMilli(),
		TimeOut:          millisPtr(log.TimeOut),
	})
}

// VehicleLogEvent encodes a vehicle log change.
func VehicleLogEvent(eventType string, log VehicleLog, at time.Time) ([]byte, error) {
	return encodeEvent(eventType, log.ID, at, vehicleLogRecord{
		ID:          log.ID,
		VehicleID:   log.VehicleID,
		PlateNumber: log.PlateNumber,
		Category:    log.Category,
		Entry:       log.Entry.UnixMilli(),
		Exit:        millisPtr(log.Exit),
	})
}

func encodeEvent(eventType, id string, at time.Time, record any) ([]byte, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return json.Marshal(LogEvent{
		Type:       eventType,
		ID:         id,
		OccurredAt: at.UnixMilli(),
		Record:     raw,
	})
}

func millisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
