package protocol

import (
	"encoding/binary"
	"fmt"
)

// Setup options carried as the first payload byte of TagSet frames.
const (
	optSetupMode        byte = 0x01
	optBurstCount       byte = 0x02
	optFramerate        byte = 0x03
	optFrequencies      byte = 0x04
	optAmplitude        byte = 0x05
	optInjection        byte = 0x06
	optMeasurementMode  byte = 0x08
	optGain             byte = 0x09
	optExcitationSwitch byte = 0x0C
	optADCRange         byte = 0x0D
)

// Get options carried by TagGet frames.
const optGetSetup byte = 0x03

// OutputOption selects an extra field the device appends to each measurement frame.
type OutputOption byte

const (
	OutputExcitation   OutputOption = 0x01 // Excitation setting
	OutputFrequencyRow OutputOption = 0x02 // Current row in the frequency stack
	OutputTimestamp    OutputOption = 0x03 // Timestamp
)

// SweepScale is the spacing of a frequency sweep.
type SweepScale byte

const (
	SweepLinear SweepScale = 0x00
	SweepLog    SweepScale = 0x01
)

// Command is one device command. The set of implementations is closed.
type Command interface {
	Tag() Tag
	Payload() ([]byte, error)
	command()
}

// FrameOf serializes c into a frame.
func FrameOf(c Command) (Frame, error) {
	payload, err := c.Payload()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", c, err)
	}
	f, err := BuildFrame(c.Tag(), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to frame %T: %w", c, err)
	}
	return f, nil
}

// EnterSetup puts the device into measurement setup mode.
type EnterSetup struct{}

// SetBurstCount sets the number of repeated measurements per instance.
type SetBurstCount struct{ Count uint8 }

// SetAmplitude sets the excitation current amplitude in amperes.
type SetAmplitude struct{ Amperes float64 }

// SetADCRange sets the ADC input range by wire code.
type SetADCRange struct{ Code byte }

// SetGain sets the front-end gain by wire code.
type SetGain struct{ Code byte }

// SetSingleEnded selects single-ended measurement mode.
type SetSingleEnded struct{}

// SetExcitationSwitch selects the excitation switch type.
type SetExcitationSwitch struct{}

// SetFramerate sets the frame rate in frames per second.
type SetFramerate struct{ FPS float64 }

// SetFrequencySweep sets the excitation frequencies in Hz.
type SetFrequencySweep struct {
	Min, Max float64
	Count    uint16
	Scale    SweepScale
}

// SetInjection appends one injection pair to the device's injection pattern.
type SetInjection struct{ Pair InjectionPair }

// GetSetup requests a readback of the current measurement setup.
type GetSetup struct{}

// SetOutput enables or disables an output field.
type SetOutput struct {
	Option  OutputOption
	Enabled bool
}

// StartMeasurement starts a measurement run.
type StartMeasurement struct{}

// StopMeasurement stops a measurement run.
type StopMeasurement struct{}

func (EnterSetup) Tag() Tag          { return TagSet }
func (SetBurstCount) Tag() Tag       { return TagSet }
func (SetAmplitude) Tag() Tag        { return TagSet }
func (SetADCRange) Tag() Tag         { return TagSet }
func (SetGain) Tag() Tag             { return TagSet }
func (SetSingleEnded) Tag() Tag      { return TagSet }
func (SetExcitationSwitch) Tag() Tag { return TagSet }
func (SetFramerate) Tag() Tag        { return TagSet }
func (SetFrequencySweep) Tag() Tag   { return TagSet }
func (SetInjection) Tag() Tag        { return TagSet }
func (GetSetup) Tag() Tag            { return TagGet }
func (SetOutput) Tag() Tag           { return TagOutput }
func (StartMeasurement) Tag() Tag    { return TagRun }
func (StopMeasurement) Tag() Tag     { return TagRun }

func (EnterSetup) Payload() ([]byte, error) {
	return []byte{optSetupMode}, nil
}

func (c SetBurstCount) Payload() ([]byte, error) {
	return []byte{optBurstCount, 0x00, c.Count}, nil
}

func (c SetAmplitude) Payload() ([]byte, error) {
	v, err := EncodeDouble(c.Amperes)
	if err != nil {
		return nil, fmt.Errorf("amplitude: %w", err)
	}
	return append([]byte{optAmplitude}, v...), nil
}

func (c SetADCRange) Payload() ([]byte, error) {
	return []byte{optADCRange, c.Code}, nil
}

func (c SetGain) Payload() ([]byte, error) {
	return []byte{optGain, 0x01, c.Code}, nil
}

func (SetSingleEnded) Payload() ([]byte, error) {
	return []byte{optMeasurementMode, 0x01, 0x01}, nil
}

func (SetExcitationSwitch) Payload() ([]byte, error) {
	return []byte{optExcitationSwitch, 0x01}, nil
}

func (c SetFramerate) Payload() ([]byte, error) {
	v, err := EncodeSingle(c.FPS)
	if err != nil {
		return nil, fmt.Errorf("framerate: %w", err)
	}
	return append([]byte{optFramerate}, v...), nil
}

func (c SetFrequencySweep) Payload() ([]byte, error) {
	fmin, err := EncodeSingle(c.Min)
	if err != nil {
		return nil, fmt.Errorf("fmin: %w", err)
	}
	fmax, err := EncodeSingle(c.Max)
	if err != nil {
		return nil, fmt.Errorf("fmax: %w", err)
	}

	b := make([]byte, 0, 1+2*singleSize+3)
	b = append(b, optFrequencies)
	b = append(b, fmin...)
	b = append(b, fmax...)
	b = binary.BigEndian.AppendUint16(b, c.Count)
	b = append(b, byte(c.Scale))
	return b, nil
}

func (c SetInjection) Payload() ([]byte, error) {
	return []byte{optInjection, c.Pair.Injection, c.Pair.Ground}, nil
}

func (GetSetup) Payload() ([]byte, error) {
	return []byte{optGetSetup}, nil
}

func (c SetOutput) Payload() ([]byte, error) {
	return []byte{byte(c.Option), boolByte(c.Enabled)}, nil
}

func (StartMeasurement) Payload() ([]byte, error) {
	return []byte{0x01}, nil
}

func (StopMeasurement) Payload() ([]byte, error) {
	return []byte{0x00}, nil
}

func (EnterSetup) command()          {}
func (SetBurstCount) command()       {}
func (SetAmplitude) command()        {}
func (SetADCRange) command()         {}
func (SetGain) command()             {}
func (SetSingleEnded) command()      {}
func (SetExcitationSwitch) command() {}
func (SetFramerate) command()        {}
func (SetFrequencySweep) command()   {}
func (SetInjection) command()        {}
func (GetSetup) command()            {}
func (SetOutput) command()           {}
func (StartMeasurement) command()    {}
func (StopMeasurement) command()     {}

func boolByte(b bool) byte {
	if b {
		return 0x01
	}
	return 0x00
}
