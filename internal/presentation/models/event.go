package models

import "time"

// EventType classifies a presentation event.
type EventType string

const (
	EventInternalSuccess EventType = "internal-success"
	EventInternalFailed  EventType = "internal-failed"
	EventEUCertSuccess   EventType = "eu-cert-success"
	EventSHCCertSuccess  EventType = "shc-cert-success"
)

// Event is the notification published for every presentation request. The
// same shape is the JSON error body returned to clients.
type Event struct {
	Date   time.Time `json:"date"`
	Source string    `json:"source"`
	Type   EventType `json:"type"`
	Extra  string    `json:"extra"`
}
