package protocol

import (
	"fmt"
	"math"
)

// Device amplitude range in amperes.
const (
	MinAmplitude = 100e-9
	MaxAmplitude = 10e-3
)

// SupportedElectrodeCounts lists the electrode counts the device can be configured for.
var SupportedElectrodeCounts = []int{16, 32, 48, 64}

// adcRangeCodes maps an ADC range in ±volts to its wire code.
var adcRangeCodes = map[int]byte{
	1:  0x01,
	5:  0x02,
	10: 0x03,
}

// gainCodes maps a front-end gain to its wire code.
var gainCodes = map[int]byte{
	1:    0x00,
	10:   0x01,
	100:  0x02,
	1000: 0x03,
}

// MeasurementConfig is a snapshot of the settings for one measurement session.
type MeasurementConfig struct {
	BurstCount          int     // Repeated measurements per instance (1-255)
	TotalMeasNum        int     // Measurement cycles, used by the run loop only
	Electrodes          int     // Electrode count (16, 32, 48 or 64)
	ExcitationFrequency float64 // Hz, used as both sweep minimum and maximum
	Framerate           float64 // Frames per second
	Amplitude           float64 // Excitation amplitude in amperes
	InjectionSkip       int     // Electrodes skipped between injection and ground
	Gain                int     // 1, 10, 100 or 1000
	ADCRange            int     // ±1, ±5 or ±10 V
	Notes               string
	Configured          bool
}

// ADCRangeCode returns the wire code for the configured ADC range.
func (c MeasurementConfig) ADCRangeCode() (byte, bool) {
	code, ok := adcRangeCodes[c.ADCRange]
	return code, ok
}

// GainCode returns the wire code for the configured gain.
func (c MeasurementConfig) GainCode() (byte, bool) {
	code, ok := gainCodes[c.Gain]
	return code, ok
}

// IsSupportedElectrodeCount reports whether n is one of SupportedElectrodeCounts.
func IsSupportedElectrodeCount(n int) bool {
	for _, s := range SupportedElectrodeCounts {
		if s == n {
			return true
		}
	}
	return false
}

// Validate checks every field that would prevent the configuration from being encoded.
func (c MeasurementConfig) Validate() error {
	if !IsSupportedElectrodeCount(c.Electrodes) {
		return &ConfigError{
			Field: "electrodes",
			Err:   fmt.Errorf("%w: %d (supported %v)", ErrInvalidElectrodeCount, c.Electrodes, SupportedElectrodeCounts),
		}
	}
	if _, err := InjectionPairs(c.Electrodes, c.InjectionSkip); err != nil {
		return &ConfigError{Field: "injection_skip", Err: err}
	}
	if c.BurstCount < 1 || c.BurstCount > 255 {
		return &ConfigError{
			Field: "burst_count",
			Err:   fmt.Errorf("%w: %d not in [1, 255]", ErrInvalidBurstCount, c.BurstCount),
		}
	}

	numeric := []struct {
		field string
		value float64
	}{
		{"amplitude", c.Amplitude},
		{"framerate", c.Framerate},
		{"excitation_frequency", c.ExcitationFrequency},
	}
	for _, n := range numeric {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return &ConfigError{Field: n.field, Err: fmt.Errorf("%w: %v", ErrNonFiniteNumeric, n.value)}
		}
	}

	return nil
}
