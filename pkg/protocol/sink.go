package protocol

import (
	"io"

	"github.com/sirupsen/logrus"
)

// WriteSequence writes seq to w one frame per Write call, in order. The first failed or
// short write aborts the remaining frames.
func WriteSequence(w io.Writer, seq Sequence) error {
	for i, f := range seq {
		n, err := w.Write(f)
		if err == nil && n != len(f) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return &WriteError{Index: i, Frame: f, Err: err}
		}
	}
	return nil
}

// Configure encodes cfg and writes the resulting sequence to w. Notices are logged as
// warnings. Nothing is written when cfg cannot be encoded. The returned sequence is the
// full encoded sequence, even when writing it failed part way.
func Configure(w io.Writer, cfg MeasurementConfig, log logrus.FieldLogger) (Sequence, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	seq, notices, err := Encode(cfg)
	for _, n := range notices {
		log.WithField("field", n.Field).Warn(n.Message)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"frames":     len(seq),
		"electrodes": cfg.Electrodes,
		"skip":       cfg.InjectionSkip,
	}).Debug("Writing measurement configuration")

	if err := WriteSequence(w, seq); err != nil {
		return seq, err
	}
	return seq, nil
}
