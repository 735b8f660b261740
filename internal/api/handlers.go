package api

import (
	"encoding/json"
	"net/http"
	"time"

	"cast-receiver/internal/device"
	"cast-receiver/internal/logging"

	"github.com/sirupsen/logrus"
)

// Handlers contains the HTTP handlers for the API
type Handlers struct {
	logger    *logrus.Logger
	detector  ClassDetector
	wsManager *WebSocketManager
}

// NewHandlers creates a new handlers instance
func NewHandlers(logger *logrus.Logger, detector ClassDetector, wsManager *WebSocketManager) *Handlers {
	return &Handlers{
		logger:    logger,
		detector:  detector,
		wsManager: wsManager,
	}
}

// HealthCheck reports that the receiver API is up
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, h.logger, HealthResponse{
		Status:    "ok",
		Version:   logging.Version,
		Timestamp: time.Now().UTC(),
	}, http.StatusOK)
}

// GetDevice returns the cached device class and its stream profile
func (h *Handlers) GetDevice(w http.ResponseWriter, r *http.Request) {
	if h.detector == nil {
		writeErrorResponse(w, h.logger, "Device detector not available", "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable)
		return
	}

	class := h.detector.CurrentClass()
	resp := DeviceResponse{
		Class:   class,
		Profile: device.ProfileFor(class),
	}
	if evaluated := h.detector.LastEvaluated(); !evaluated.IsZero() {
		resp.LastEvaluated = &evaluated
	}

	writeJSONResponse(w, h.logger, resp, http.StatusOK)
}

// GetProfile returns only the stream profile of the current device class
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	if h.detector == nil {
		writeErrorResponse(w, h.logger, "Device detector not available", "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable)
		return
	}

	writeJSONResponse(w, h.logger, device.ProfileFor(h.detector.CurrentClass()), http.StatusOK)
}

// WebSocket upgrades the connection and subscribes it to class change events
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	if err := h.wsManager.HandleWebSocketConnection(w, r); err != nil {
		// The upgrader has already written an HTTP error
		h.logger.WithError(err).Debug("WebSocket upgrade rejected")
	}
}

// writeJSONResponse writes data as a JSON response
func writeJSONResponse(w http.ResponseWriter, logger *logrus.Logger, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes a JSON error response
func writeErrorResponse(w http.ResponseWriter, logger *logrus.Logger, message, code string, statusCode int) {
	writeJSONResponse(w, logger, ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}, statusCode)
}
