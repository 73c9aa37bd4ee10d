package protocol

import "fmt"

// Commands returns the command list that configures the device for cfg, in the order it
// must be sent. The configuration is normalized first; notices report the corrections and
// any command that was left out.
func Commands(cfg MeasurementConfig) ([]Command, []Notice, error) {
	cfg, notices := Normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, notices, err
	}

	pairs, err := InjectionPairs(cfg.Electrodes, cfg.InjectionSkip)
	if err != nil {
		return nil, notices, &ConfigError{Field: "injection_skip", Err: err}
	}

	cmds := make([]Command, 0, 12+len(pairs))
	cmds = append(cmds,
		EnterSetup{},
		SetBurstCount{Count: uint8(cfg.BurstCount)},
		SetAmplitude{Amperes: cfg.Amplitude},
	)

	if code, ok := cfg.ADCRangeCode(); ok {
		cmds = append(cmds, SetADCRange{Code: code})
	} else {
		notices = append(notices, Notice{
			Field:   "adc_range",
			Message: fmt.Sprintf("unsupported value %d, ADC range command omitted", cfg.ADCRange),
		})
	}

	if code, ok := cfg.GainCode(); ok {
		cmds = append(cmds, SetGain{Code: code})
	} else {
		notices = append(notices, Notice{
			Field:   "gain",
			Message: fmt.Sprintf("unsupported value %d, gain command omitted", cfg.Gain),
		})
	}

	cmds = append(cmds,
		SetSingleEnded{},
		SetExcitationSwitch{},
		SetFramerate{FPS: cfg.Framerate},
		SetFrequencySweep{
			Min:   cfg.ExcitationFrequency,
			Max:   cfg.ExcitationFrequency,
			Count: 1,
			Scale: SweepLinear,
		},
	)

	for _, p := range pairs {
		cmds = append(cmds, SetInjection{Pair: p})
	}

	cmds = append(cmds,
		GetSetup{},
		SetOutput{Option: OutputExcitation, Enabled: true},
		SetOutput{Option: OutputTimestamp, Enabled: true},
		SetOutput{Option: OutputFrequencyRow, Enabled: true},
	)

	return cmds, notices, nil
}

// Encode returns the full frame sequence for cfg. On error no frames are returned.
func Encode(cfg MeasurementConfig) (Sequence, []Notice, error) {
	cmds, notices, err := Commands(cfg)
	if err != nil {
		return nil, notices, err
	}

	seq := make(Sequence, 0, len(cmds))
	for _, c := range cmds {
		f, err := FrameOf(c)
		if err != nil {
			return nil, notices, err
		}
		seq = append(seq, f)
	}

	return seq, notices, nil
}
