package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/itohio/sciospec/pkg/config"
	"github.com/itohio/sciospec/pkg/protocol"
)

// ErrMockWriteFailed is returned by a Mock configured to fail.
var ErrMockWriteFailed = errors.New("mock write failed")

// Mock simulates a Sciospec device for testing and dry runs. It records every frame it
// receives.
type Mock struct {
	cfg *config.MockConfig

	mu        sync.Mutex
	connected bool
	received  []byte
	writes    int
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{}
	}

	return &Mock{cfg: cfg}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	return nil
}

// Write records p. Once FailAfter writes have succeeded every further write fails.
func (m *Mock) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, ErrNotConnected
	}
	if m.cfg.FailAfter > 0 && m.writes >= m.cfg.FailAfter {
		return 0, ErrMockWriteFailed
	}

	m.received = append(m.received, p...)
	m.writes++
	return len(p), nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Received returns a copy of every byte written so far.
func (m *Mock) Received() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.received...)
}

// Frames splits the received bytes into frames.
func (m *Mock) Frames() (protocol.Sequence, error) {
	return protocol.SplitFrames(m.Received())
}

// Reset forgets everything received.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = nil
	m.writes = 0
}
