package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink keeps every Write call and fails from call failAt on (0 disables).
type recordingSink struct {
	writes [][]byte
	failAt int
	short  bool
}

func (s *recordingSink) Write(p []byte) (int, error) {
	if s.failAt > 0 && len(s.writes)+1 >= s.failAt {
		if s.short {
			return len(p) - 1, nil
		}
		return 0, errors.New("port gone")
	}
	s.writes = append(s.writes, append([]byte(nil), p...))
	return len(p), nil
}

func TestWriteSequence_OneFramePerWrite(t *testing.T) {
	seq, _, err := Encode(testConfig())
	require.NoError(t, err)

	sink := &recordingSink{}
	require.NoError(t, WriteSequence(sink, seq))

	require.Len(t, sink.writes, len(seq))
	for i, f := range seq {
		assert.Equal(t, []byte(f), sink.writes[i])
	}
}

func TestWriteSequence_AbortsOnFailure(t *testing.T) {
	seq, _, err := Encode(testConfig())
	require.NoError(t, err)

	sink := &recordingSink{failAt: 4}
	err = WriteSequence(sink, seq)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSinkWrite)

	var wErr *WriteError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, 3, wErr.Index)
	assert.Equal(t, seq[3], wErr.Frame)
	assert.Len(t, sink.writes, 3)
}

func TestWriteSequence_ShortWrite(t *testing.T) {
	seq, _, err := Encode(testConfig())
	require.NoError(t, err)

	sink := &recordingSink{failAt: 1, short: true}
	err = WriteSequence(sink, seq)
	assert.ErrorIs(t, err, ErrSinkWrite)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Empty(t, sink.writes)
}

func TestConfigure(t *testing.T) {
	logger, hook := test.NewNullLogger()

	cfg := testConfig()
	cfg.Amplitude = 0.005
	cfg.Gain = 7

	var buf bytes.Buffer
	seq, err := Configure(&buf, cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, seq.Bytes(), buf.Bytes())

	require.Len(t, hook.AllEntries(), 2)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
	}
	assert.Equal(t, "amplitude", hook.AllEntries()[0].Data["field"])
	assert.Equal(t, "gain", hook.AllEntries()[1].Data["field"])
}

func TestConfigure_InvalidWritesNothing(t *testing.T) {
	logger, _ := test.NewNullLogger()

	cfg := testConfig()
	cfg.Electrodes = 24

	sink := &recordingSink{}
	seq, err := Configure(sink, cfg, logger)
	assert.ErrorIs(t, err, ErrInvalidElectrodeCount)
	assert.Nil(t, seq)
	assert.Empty(t, sink.writes)
}

func TestConfigure_NilLogger(t *testing.T) {
	var buf bytes.Buffer
	_, err := Configure(&buf, testConfig(), nil)
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
