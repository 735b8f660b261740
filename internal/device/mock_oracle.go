package device

import "sync"

// MockOracle is a mutable CapabilityOracle for testing
type MockOracle struct {
	mu        sync.RWMutex
	supported map[Capability]bool
	queries   int
}

// NewMockOracle creates a mock oracle supporting the given capabilities
func NewMockOracle(caps ...Capability) *MockOracle {
	m := &MockOracle{supported: make(map[Capability]bool)}
	m.SetCapabilities(caps...)
	return m
}

// SetCapabilities replaces the supported capability set
func (m *MockOracle) SetCapabilities(caps ...Capability) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supported = make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m.supported[c] = true
	}
}

// Supports reports whether the exact pair was configured
func (m *MockOracle) Supports(mimeType, codec string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	return m.supported[Capability{MimeType: mimeType, Codec: codec}]
}

// Queries returns how many Supports calls were made
func (m *MockOracle) Queries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queries
}

// CreateUltraCapabilities returns capabilities that classify as ClassUltra
func CreateUltraCapabilities() []Capability {
	return []Capability{
		{MimeType: MP4MimeType, Codec: HEVCCodec},
		{MimeType: WebMMimeType, Codec: VP9Codec},
		{MimeType: MP4MimeType, Codec: AVCHigh42Codec},
		{MimeType: MP4MimeType, Codec: AVCHigh41Codec},
	}
}

// CreateSmartDisplayCapabilities returns capabilities that classify as ClassSmartDisplay
func CreateSmartDisplayCapabilities() []Capability {
	return []Capability{
		{MimeType: WebMMimeType, Codec: VP9Codec},
		{MimeType: MP4MimeType, Codec: AVCHigh41Codec},
	}
}

// CreateGen3Capabilities returns capabilities that classify as ClassChromecastGen3
func CreateGen3Capabilities() []Capability {
	return []Capability{
		{MimeType: MP4MimeType, Codec: AVCHigh42Codec},
		{MimeType: MP4MimeType, Codec: AVCHigh41Codec},
	}
}

// CreateChromecastCapabilities returns capabilities that classify as ClassChromecast
func CreateChromecastCapabilities() []Capability {
	return []Capability{
		{MimeType: MP4MimeType, Codec: AVCHigh41Codec},
	}
}
