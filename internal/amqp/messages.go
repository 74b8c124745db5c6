package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentSaved   = "appointment.saved"
	EventAppointmentDeleted = "appointment.deleted"
)

// AppointmentEvent announces a committed appointment write. It carries only
// the id; consumers load the current row themselves.
type AppointmentEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	AppointmentID int64     `json:"appointmentId"`
	Timestamp     time.Time `json:"timestamp"`
}

var ErrInvalidEvent = errors.New("invalid appointment event")

// NewAppointmentEvent creates an event with a fresh id
func NewAppointmentEvent(eventType string, appointmentID int64) *AppointmentEvent {
	return &AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		AppointmentID: appointmentID,
		Timestamp:     time.Now().UTC(),
	}
}

func (m *AppointmentEvent) Validate() error {
	if m.AppointmentID <= 0 {
		return ErrInvalidEvent
	}
	switch m.Type {
	case EventAppointmentSaved, EventAppointmentDeleted:
		return nil
	}
	return ErrInvalidEvent
}

// ToJSON converts the message to JSON bytes
func (m *AppointmentEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AppointmentEventFromJSON decodes and validates an event body
func AppointmentEventFromJSON(data []byte) (*AppointmentEvent, error) {
	var msg AppointmentEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
