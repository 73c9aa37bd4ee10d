package device

// Device defines the interface for Sciospec devices (real or mocked).
// Write must send each call as one unit; the protocol writes exactly one frame per call.
type Device interface {
	Connect() error
	Close() error
	Write(p []byte) (int, error)
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
