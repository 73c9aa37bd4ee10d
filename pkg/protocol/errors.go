package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidElectrodeCount is returned when the electrode count is not supported by the device.
	ErrInvalidElectrodeCount = errors.New("invalid electrode count")
	// ErrInvalidInjectionSkip is returned when the injection skip is out of range or
	// would make an electrode inject into itself.
	ErrInvalidInjectionSkip = errors.New("invalid injection skip")
	// ErrInvalidBurstCount is returned when the burst count does not fit the single wire byte.
	ErrInvalidBurstCount = errors.New("invalid burst count")
	// ErrPayloadTooLarge is returned when a frame payload exceeds MaxPayload bytes.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrNonFiniteNumeric is returned when NaN, Inf or an unrepresentable value is encoded.
	ErrNonFiniteNumeric = errors.New("non-finite numeric value")
	// ErrMalformedFrame is returned when a byte stream does not hold a well-formed frame.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrSinkWrite is returned when the byte sink fails to accept a frame.
	ErrSinkWrite = errors.New("sink write failure")
)

// ConfigError reports a measurement configuration field that cannot be encoded.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// WriteError reports the frame at which writing a sequence was aborted.
type WriteError struct {
	Index int   // Index of the frame that failed within the sequence
	Frame Frame // The frame that failed
	Err   error // Underlying sink error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%v: frame %d (%s): %v", ErrSinkWrite, e.Index, e.Frame, e.Err)
}

// Unwrap exposes both ErrSinkWrite and the sink's own error to errors.Is.
func (e *WriteError) Unwrap() []error {
	return []error{ErrSinkWrite, e.Err}
}
