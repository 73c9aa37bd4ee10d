package device

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/itohio/sciospec/pkg/protocol"
)

// Session sends command sequences to a connected device.
type Session struct {
	dev     Device
	metrics *Metrics
	log     logrus.FieldLogger
}

// NewSession creates a Session for dev. metrics and log may be nil.
func NewSession(dev Device, metrics *Metrics, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{dev: dev, metrics: metrics, log: log}
}

// Configure encodes cfg and writes the full setup sequence. It returns the sequence that
// was encoded; on a write error the device may hold a partial setup.
func (s *Session) Configure(cfg protocol.MeasurementConfig) (protocol.Sequence, error) {
	if !s.dev.IsConnected() {
		return nil, ErrNotConnected
	}

	seq, err := protocol.Configure(s.metrics.Writer(s.dev), cfg, s.log)
	if err != nil {
		return seq, fmt.Errorf("failed to configure device: %w", err)
	}

	s.log.WithField("frames", len(seq)).Info("Measurement configuration written")
	return seq, nil
}

// StartMeasurement starts a measurement run.
func (s *Session) StartMeasurement() error {
	return s.send(protocol.StartMeasurement{})
}

// StopMeasurement stops a measurement run.
func (s *Session) StopMeasurement() error {
	return s.send(protocol.StopMeasurement{})
}

func (s *Session) send(c protocol.Command) error {
	if !s.dev.IsConnected() {
		return ErrNotConnected
	}

	f, err := protocol.FrameOf(c)
	if err != nil {
		return err
	}
	if err := protocol.WriteSequence(s.metrics.Writer(s.dev), protocol.Sequence{f}); err != nil {
		return fmt.Errorf("failed to send %T: %w", c, err)
	}

	s.log.WithField("frame", f.String()).Debugf("Sent %T", c)
	return nil
}
