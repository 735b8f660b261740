package api

import (
	"time"

	"cast-receiver/internal/device"
)

// EventClassChanged is the websocket event type for device class changes
const EventClassChanged = "device_class_changed"

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// DeviceResponse describes the current device classification
type DeviceResponse struct {
	Class         device.Class         `json:"class"`
	LastEvaluated *time.Time           `json:"lastEvaluated,omitempty"`
	Profile       device.StreamProfile `json:"profile"`
}

// ClassChangeEvent is the payload of EventClassChanged messages
type ClassChangeEvent struct {
	OldClass device.Class         `json:"oldClass"`
	NewClass device.Class         `json:"newClass"`
	Profile  device.StreamProfile `json:"profile"`
}

// ErrorResponse is the body of every API error
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}
