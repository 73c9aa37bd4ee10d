package protocol

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

const (
	singleSize = 4
	doubleSize = 8
)

// EncodeSingle returns v as a big-endian IEEE-754 single precision value.
// Values that are not finite, or overflow float32, are rejected.
func EncodeSingle(v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFiniteNumeric, v)
	}

	f := float32(v)
	if math32.IsInf(f, 0) || math32.IsNaN(f) {
		return nil, fmt.Errorf("%w: %v overflows single precision", ErrNonFiniteNumeric, v)
	}

	b := make([]byte, singleSize)
	binary.BigEndian.PutUint32(b, math.Float32bits(f))
	return b, nil
}

// EncodeDouble returns v as a big-endian IEEE-754 double precision value.
func EncodeDouble(v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFiniteNumeric, v)
	}

	b := make([]byte, doubleSize)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return b, nil
}

// DecodeSingle is the inverse of EncodeSingle.
func DecodeSingle(b []byte) (float32, error) {
	if len(b) != singleSize {
		return 0, fmt.Errorf("single precision value needs %d bytes, got %d", singleSize, len(b))
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// DecodeDouble is the inverse of EncodeDouble.
func DecodeDouble(b []byte) (float64, error) {
	if len(b) != doubleSize {
		return 0, fmt.Errorf("double precision value needs %d bytes, got %d", doubleSize, len(b))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}
