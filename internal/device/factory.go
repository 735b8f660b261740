package device

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DetectorFactory provides a convenient way to create detectors
type DetectorFactory struct {
	logger   *logrus.Logger
	interval time.Duration
}

// NewDetectorFactory creates a new detector factory
func NewDetectorFactory(logger *logrus.Logger, interval time.Duration) *DetectorFactory {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &DetectorFactory{
		logger:   logger,
		interval: interval,
	}
}

// CreateDetector creates a detector backed by the given oracle
func (f *DetectorFactory) CreateDetector(oracle CapabilityOracle, opts ...DetectorOption) *Detector {
	base := []DetectorOption{
		WithLogger(f.logger),
		WithOracle(oracle),
		WithEvaluationInterval(f.interval),
	}
	return NewDetector(append(base, opts...)...)
}

// CreateDetectorForTesting creates a detector with a mock oracle and fast evaluation
func (f *DetectorFactory) CreateDetectorForTesting(caps ...Capability) (*Detector, *MockOracle) {
	oracle := NewMockOracle(caps...)
	return NewDetector(
		WithLogger(f.logger),
		WithOracle(oracle),
		WithEvaluationInterval(50*time.Millisecond),
	), oracle
}
