package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// HospitalEventType represents the type of hospital event
type HospitalEventType string

const (
	HospitalEventTypeCreated HospitalEventType = "hospital_created"
)

// HospitalEvent is published on the event bus when a hospital record changes,
// so response caches can be invalidated without coupling writers to readers.
type HospitalEvent struct {
	ID         string            `json:"id"`
	HospitalID string            `json:"hospital_id"`
	EventType  HospitalEventType `json:"event_type"`
	Name       string            `json:"name,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewHospitalEvent creates a new hospital event
func NewHospitalEvent(hospitalID string, eventType HospitalEventType, name string) *HospitalEvent {
	return &HospitalEvent{
		ID:         generateEventID(),
		HospitalID: hospitalID,
		EventType:  eventType,
		Name:       name,
		Timestamp:  time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
