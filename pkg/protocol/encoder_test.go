package protocol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() MeasurementConfig {
	return MeasurementConfig{
		BurstCount:          3,
		TotalMeasNum:        10,
		Electrodes:          16,
		ExcitationFrequency: 10000,
		Framerate:           5,
		Amplitude:           0.000005,
		InjectionSkip:       0,
		Gain:                10,
		ADCRange:            5,
	}
}

func TestEncode_FullSequence(t *testing.T) {
	seq, notices, err := Encode(testConfig())
	require.NoError(t, err)
	assert.Empty(t, notices)
	require.Len(t, seq, 9+16+4)

	want := []Frame{
		{0xB0, 0x01, 0x01, 0xB0},
		{0xB0, 0x03, 0x02, 0x00, 0x03, 0xB0},
		{0xB0, 0x09, 0x05, 0x3E, 0xD4, 0xF8, 0xB5, 0x88, 0xE3, 0x68, 0xF1, 0xB0},
		{0xB0, 0x02, 0x0D, 0x02, 0xB0},
		{0xB0, 0x03, 0x09, 0x01, 0x01, 0xB0},
		{0xB0, 0x03, 0x08, 0x01, 0x01, 0xB0},
		{0xB0, 0x02, 0x0C, 0x01, 0xB0},
		{0xB0, 0x05, 0x03, 0x40, 0xA0, 0x00, 0x00, 0xB0},
		{0xB0, 0x0C, 0x04, 0x46, 0x1C, 0x40, 0x00, 0x46, 0x1C, 0x40, 0x00, 0x00, 0x01, 0x00, 0xB0},
	}
	for i, f := range want {
		assert.Equal(t, f, seq[i], "frame %d", i)
	}

	for i := 0; i < 16; i++ {
		ground := byte((i+1)%16 + 1)
		assert.Equal(t, Frame{0xB0, 0x03, 0x06, byte(i + 1), ground, 0xB0}, seq[9+i], "injection %d", i+1)
	}

	tail := seq[25:]
	assert.Equal(t, Frame{0xB1, 0x01, 0x03, 0xB1}, tail[0])
	assert.Equal(t, Frame{0xB2, 0x02, 0x01, 0x01, 0xB2}, tail[1])
	assert.Equal(t, Frame{0xB2, 0x02, 0x03, 0x01, 0xB2}, tail[2])
	assert.Equal(t, Frame{0xB2, 0x02, 0x02, 0x01, 0xB2}, tail[3])
}

func TestEncode_ADCRangeAndGainCodes(t *testing.T) {
	adc := map[int]byte{1: 0x01, 5: 0x02, 10: 0x03}
	for rng, code := range adc {
		cfg := testConfig()
		cfg.ADCRange = rng
		seq, _, err := Encode(cfg)
		require.NoError(t, err)
		assert.Equal(t, Frame{0xB0, 0x02, 0x0D, code, 0xB0}, seq[3])
	}

	gain := map[int]byte{1: 0x00, 10: 0x01, 100: 0x02, 1000: 0x03}
	for g, code := range gain {
		cfg := testConfig()
		cfg.Gain = g
		seq, _, err := Encode(cfg)
		require.NoError(t, err)
		assert.Equal(t, Frame{0xB0, 0x03, 0x09, 0x01, code, 0xB0}, seq[4])
	}
}

func TestEncode_AmplitudeCorrection(t *testing.T) {
	milli := testConfig()
	milli.Amplitude = 0.005

	corrected, notices, err := Encode(milli)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "amplitude", notices[0].Field)

	plain, _, err := Encode(testConfig())
	require.NoError(t, err)

	assert.Equal(t, plain[2], corrected[2])

	want, err := EncodeDouble(0.000005)
	require.NoError(t, err)
	assert.Equal(t, want, []byte(corrected[2].Payload()[1:]))
}

func TestEncode_AmplitudeOutOfRangeStillEncoded(t *testing.T) {
	cfg := testConfig()
	cfg.Amplitude = 20

	seq, notices, err := Encode(cfg)
	require.NoError(t, err)
	assert.Len(t, notices, 2)

	v, err := DecodeDouble(seq[2].Payload()[1:])
	require.NoError(t, err)
	assert.Equal(t, 0.02, v)
}

func TestEncode_UnknownGainOmitted(t *testing.T) {
	cfg := testConfig()
	cfg.Gain = 7

	seq, notices, err := Encode(cfg)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "gain", notices[0].Field)

	full, _, err := Encode(testConfig())
	require.NoError(t, err)
	require.Len(t, seq, len(full)-1)

	for _, f := range seq {
		p := f.Payload()
		isGain := f.Tag() == TagSet && len(p) >= 2 && p[0] == 0x09 && p[1] == 0x01
		assert.False(t, isGain, "gain frame present: %s", f)
	}

	// Every other frame is present and in order.
	assert.Equal(t, full[:4], seq[:4])
	assert.Equal(t, full[5:], seq[4:])
}

func TestEncode_UnknownADCRangeOmitted(t *testing.T) {
	cfg := testConfig()
	cfg.ADCRange = 2

	seq, notices, err := Encode(cfg)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "adc_range", notices[0].Field)

	full, _, err := Encode(testConfig())
	require.NoError(t, err)
	assert.Equal(t, full[:3], seq[:3])
	assert.Equal(t, full[4:], seq[3:])
}

func TestEncode_InjectionSkip(t *testing.T) {
	cfg := testConfig()
	cfg.InjectionSkip = 1

	seq, _, err := Encode(cfg)
	require.NoError(t, err)

	inj := seq[9 : 9+16]
	assert.Equal(t, Frame{0xB0, 0x03, 0x06, 1, 3, 0xB0}, inj[0])
	assert.Equal(t, Frame{0xB0, 0x03, 0x06, 15, 1, 0xB0}, inj[14])
	assert.Equal(t, Frame{0xB0, 0x03, 0x06, 16, 2, 0xB0}, inj[15])
}

func TestEncode_ElectrodeCounts(t *testing.T) {
	for _, n := range SupportedElectrodeCounts {
		cfg := testConfig()
		cfg.Electrodes = n
		seq, _, err := Encode(cfg)
		require.NoError(t, err)
		assert.Len(t, seq, 9+n+4)
	}
}

func TestEncode_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MeasurementConfig)
		field   string
		wantErr error
	}{
		{"unsupported electrodes", func(c *MeasurementConfig) { c.Electrodes = 24 }, "electrodes", ErrInvalidElectrodeCount},
		{"skip out of range", func(c *MeasurementConfig) { c.InjectionSkip = 16 }, "injection_skip", ErrInvalidInjectionSkip},
		{"negative skip", func(c *MeasurementConfig) { c.InjectionSkip = -1 }, "injection_skip", ErrInvalidInjectionSkip},
		{"self injection", func(c *MeasurementConfig) { c.InjectionSkip = 15 }, "injection_skip", ErrInvalidInjectionSkip},
		{"zero burst", func(c *MeasurementConfig) { c.BurstCount = 0 }, "burst_count", ErrInvalidBurstCount},
		{"burst overflow", func(c *MeasurementConfig) { c.BurstCount = 256 }, "burst_count", ErrInvalidBurstCount},
		{"nan framerate", func(c *MeasurementConfig) { c.Framerate = math.NaN() }, "framerate", ErrNonFiniteNumeric},
		{"inf frequency", func(c *MeasurementConfig) { c.ExcitationFrequency = math.Inf(1) }, "excitation_frequency", ErrNonFiniteNumeric},
		{"inf amplitude", func(c *MeasurementConfig) { c.Amplitude = math.Inf(1) }, "amplitude", ErrNonFiniteNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			seq, _, err := Encode(cfg)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, seq)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestEncode_FramerateOverflowsSingle(t *testing.T) {
	cfg := testConfig()
	cfg.Framerate = 1e40

	seq, _, err := Encode(cfg)
	assert.ErrorIs(t, err, ErrNonFiniteNumeric)
	assert.Nil(t, seq)
}

func TestEncode_Deterministic(t *testing.T) {
	a, _, err := Encode(testConfig())
	require.NoError(t, err)
	b, _, err := Encode(testConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_SplitRoundTrip(t *testing.T) {
	seq, _, err := Encode(testConfig())
	require.NoError(t, err)

	got, err := SplitFrames(seq.Bytes())
	require.NoError(t, err)
	assert.Equal(t, seq, got)
}

func TestRunControlFrames(t *testing.T) {
	start, err := FrameOf(StartMeasurement{})
	require.NoError(t, err)
	assert.Equal(t, Frame{0xB4, 0x01, 0x01, 0xB4}, start)

	stop, err := FrameOf(StopMeasurement{})
	require.NoError(t, err)
	assert.Equal(t, Frame{0xB4, 0x01, 0x00, 0xB4}, stop)

	seq, _, err := Encode(testConfig())
	require.NoError(t, err)
	for _, f := range seq {
		assert.NotEqual(t, TagRun, f.Tag())
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		amplitude   float64
		want        float64
		wantNotices int
	}{
		{"in range", 0.00001, 0.00001, 0},
		{"at threshold", 0.001, 0.001, 0},
		{"milliamps", 5, 0.005, 1},
		{"too small", 1e-9, 1e-9, 1},
		{"still too large", 50, 0.05, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Amplitude = tt.amplitude

			got, notices := Normalize(cfg)
			assert.Equal(t, tt.want, got.Amplitude)
			assert.Len(t, notices, tt.wantNotices)
			assert.Equal(t, tt.amplitude, cfg.Amplitude)
		})
	}
}
