package device

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Detector keeps the most recent classification of the host and re-evaluates
// it periodically, since decoder capability can change during a session.
type Detector struct {
	mu                 sync.RWMutex
	currentClass       Class
	lastEvaluated      time.Time
	logger             *logrus.Logger
	oracle             CapabilityOracle
	override           Class
	evaluationInterval time.Duration

	// Callbacks
	onClassChange func(oldClass, newClass Class)
}

// DetectorOption is a functional option for configuring the Detector
type DetectorOption func(*Detector)

// WithLogger sets the logger for the detector
func WithLogger(logger *logrus.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithOracle sets the capability oracle queried on each evaluation
func WithOracle(oracle CapabilityOracle) DetectorOption {
	return func(d *Detector) {
		d.oracle = oracle
	}
}

// WithOverride pins the detector to a fixed class, skipping the oracle
func WithOverride(class Class) DetectorOption {
	return func(d *Detector) {
		d.override = class
	}
}

// WithEvaluationInterval sets the interval for class re-evaluation
func WithEvaluationInterval(interval time.Duration) DetectorOption {
	return func(d *Detector) {
		d.evaluationInterval = interval
	}
}

// WithClassChangeCallback sets a callback for class changes
func WithClassChangeCallback(callback func(oldClass, newClass Class)) DetectorOption {
	return func(d *Detector) {
		d.onClassChange = callback
	}
}

// NewDetector creates a new device class detector
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		currentClass:       ClassAudio,
		logger:             logrus.New(),
		evaluationInterval: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start classifies the device and keeps re-evaluating until ctx is done
func (d *Detector) Start(ctx context.Context) error {
	d.logger.Info("Starting device class detector")

	d.Evaluate()

	ticker := time.NewTicker(d.evaluationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Stopping device class detector")
			return ctx.Err()
		case <-ticker.C:
			d.Evaluate()
		}
	}
}

// CurrentClass returns the class from the latest evaluation
func (d *Detector) CurrentClass() Class {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.currentClass
}

// LastEvaluated returns when the class was last evaluated
func (d *Detector) LastEvaluated() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastEvaluated
}

// Evaluate classifies the device now and returns the result
func (d *Detector) Evaluate() Class {
	newClass := d.override
	if !newClass.IsValid() {
		newClass = Classify(d.oracle)
	}

	d.mu.Lock()
	oldClass := d.currentClass
	d.currentClass = newClass
	d.lastEvaluated = time.Now()
	d.mu.Unlock()

	if oldClass != newClass {
		d.logger.WithFields(logrus.Fields{
			"old_class":  oldClass,
			"new_class":  newClass,
			"overridden": d.override.IsValid(),
		}).Info("Device class changed")

		if d.onClassChange != nil {
			go d.onClassChange(oldClass, newClass)
		}
	}

	return newClass
}
