package receiver

import (
	"context"
	"fmt"
	"sync"

	"cast-receiver/internal/api"
	"cast-receiver/internal/config"
	"cast-receiver/internal/credentials"
	"cast-receiver/internal/device"
	"cast-receiver/internal/logging"

	"github.com/sirupsen/logrus"
)

// Manager wires the receiver components together
type Manager struct {
	config *config.Config
	logger *logrus.Logger

	// Only touched from the goroutine that owns the Manager; the store is not
	// safe for concurrent use.
	servers *credentials.Store[credentials.ServerConfig]

	oracle    device.CapabilityOracle
	detector  *device.Detector
	apiServer *api.Server

	onClassChange func(oldClass, newClass device.Class)
}

// ManagerOption is a functional option for configuring the Manager
type ManagerOption func(*Manager)

// WithOracle replaces the capability oracle built from configuration
func WithOracle(oracle device.CapabilityOracle) ManagerOption {
	return func(m *Manager) {
		m.oracle = oracle
	}
}

// WithClassChangeCallback registers an extra listener for device class changes
func WithClassChangeCallback(callback func(oldClass, newClass device.Class)) ManagerOption {
	return func(m *Manager) {
		m.onClassChange = callback
	}
}

// NewManager creates a receiver manager from configuration
func NewManager(cfg *config.Config, logger *logrus.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		config:  cfg,
		logger:  logger,
		servers: credentials.NewStore[credentials.ServerConfig](),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.oracle == nil {
		m.oracle = device.NewStaticOracle(cfg.DeviceCapabilities()...)
	}

	if rejected := credentials.Seed(m.servers, cfg.Servers); len(rejected) > 0 {
		logger.WithField("server_ids", rejected).Warn("Duplicate server credentials ignored")
	}
	logger.WithField("servers", m.servers.Len()).Info("Server credentials loaded")

	detectorOpts := []device.DetectorOption{
		device.WithClassChangeCallback(m.classChanged),
	}
	if class, ok := cfg.ClassOverride(); ok {
		logger.WithField("device_class", class).Info("Device class pinned by configuration")
		detectorOpts = append(detectorOpts, device.WithOverride(class))
	}
	m.detector = device.NewDetectorFactory(logger, cfg.Interval()).CreateDetector(m.oracle, detectorOpts...)

	if cfg.APIServer.Enabled {
		m.apiServer = api.NewServer(&cfg.APIServer, logger, m.detector)
	}

	return m
}

// Servers returns the credential store seeded from configuration
func (m *Manager) Servers() *credentials.Store[credentials.ServerConfig] {
	return m.servers
}

// Detector returns the device class detector
func (m *Manager) Detector() *device.Detector {
	return m.detector
}

// APIServer returns the HTTP API server, or nil when it is disabled
func (m *Manager) APIServer() *api.Server {
	return m.apiServer
}

// Run starts the detector and the API server and blocks until ctx is done or
// a component fails
func (m *Manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := logging.NewServiceLogger(m.logger, "receiver")
	log.WithFields(logrus.Fields{
		"api_enabled": m.apiServer != nil,
		"servers":     m.servers.ServerIDs(),
	}).Info("Receiver starting")

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				errChan <- fmt.Errorf("%s: %w", name, err)
				cancel()
			}
		}()
	}

	start("detector", m.detector.Start)
	if m.apiServer != nil {
		start("api server", m.apiServer.Start)
	}

	wg.Wait()
	close(errChan)

	if err, ok := <-errChan; ok {
		log.WithError(err).Error("Receiver stopped with error")
		return err
	}

	log.Info("Receiver stopped")
	return nil
}

func (m *Manager) classChanged(oldClass, newClass device.Class) {
	if m.apiServer != nil {
		m.apiServer.NotifyClassChange(oldClass, newClass)
	}
	if m.onClassChange != nil {
		m.onClassChange(oldClass, newClass)
	}
}
