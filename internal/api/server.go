package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cast-receiver/internal/config"
	"cast-receiver/internal/device"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ClassDetector exposes the cached device classification
type ClassDetector interface {
	CurrentClass() device.Class
	LastEvaluated() time.Time
}

// Server represents the HTTP API server
type Server struct {
	config     *config.APIServerConfig
	logger     *logrus.Logger
	router     *mux.Router
	httpServer *http.Server
	handlers   *Handlers
	wsManager  *WebSocketManager
}

// NewServer creates a new API server instance
func NewServer(cfg *config.APIServerConfig, logger *logrus.Logger, detector ClassDetector) *Server {
	wsManager := NewWebSocketManager(logger)

	server := &Server{
		config:    cfg,
		logger:    logger,
		router:    mux.NewRouter(),
		wsManager: wsManager,
		handlers:  NewHandlers(logger, detector, wsManager),
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      server.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return server
}

// Start serves HTTP until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"addr":         s.httpServer.Addr,
		"auth_enabled": s.config.JWTSecret != "",
	}).Info("Starting API server")

	s.wsManager.Start(ctx)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("API server shutting down")
		return s.Shutdown()
	case err := <-errChan:
		s.wsManager.Stop()
		return fmt.Errorf("server error: %w", err)
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.wsManager.Stop()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Error("Error during server shutdown")
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// NotifyClassChange pushes a class change to websocket subscribers.
// It has the signature of device.WithClassChangeCallback.
func (s *Server) NotifyClassChange(oldClass, newClass device.Class) {
	s.wsManager.BroadcastEvent(EventClassChanged, ClassChangeEvent{
		OldClass: oldClass,
		NewClass: newClass,
		Profile:  device.ProfileFor(newClass),
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Health endpoint (no auth required)
	api.HandleFunc("/health", s.handlers.HealthCheck).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authenticationMiddleware)
	protected.HandleFunc("/device", s.handlers.GetDevice).Methods("GET")
	protected.HandleFunc("/device/profile", s.handlers.GetProfile).Methods("GET")
	protected.HandleFunc("/ws", s.handlers.WebSocket).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, s.logger, "Endpoint not found", "NOT_FOUND", http.StatusNotFound)
	})
}
