package protocol

import "fmt"

// amplitudeCorrectionThreshold is 1 mA in amperes. Larger values are taken to be milliamps.
const amplitudeCorrectionThreshold = 0.001

// Notice is a non-fatal remark produced while preparing a configuration.
type Notice struct {
	Field   string
	Message string
}

func (n Notice) String() string {
	return n.Field + ": " + n.Message
}

// Normalize applies the amplitude unit correction and returns the corrected copy.
// Values still outside the device range are kept; the device has the final word.
func Normalize(cfg MeasurementConfig) (MeasurementConfig, []Notice) {
	var notices []Notice

	if cfg.Amplitude > amplitudeCorrectionThreshold {
		corrected := cfg.Amplitude / 1000
		notices = append(notices, Notice{
			Field:   "amplitude",
			Message: fmt.Sprintf("%g exceeds %g A, assuming milliamps and using %g A", cfg.Amplitude, amplitudeCorrectionThreshold, corrected),
		})
		cfg.Amplitude = corrected
	}

	if cfg.Amplitude < MinAmplitude || cfg.Amplitude > MaxAmplitude {
		notices = append(notices, Notice{
			Field:   "amplitude",
			Message: fmt.Sprintf("%g A is outside device range [%g, %g] A", cfg.Amplitude, MinAmplitude, MaxAmplitude),
		})
	}

	return cfg, notices
}
