package device

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/itohio/sciospec/pkg/protocol"
)

// Metrics counts traffic written to a device.
type Metrics struct {
	FramesWritten *prometheus.CounterVec
	BytesWritten  prometheus.Counter
	WriteErrors   prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		FramesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sciospec_frames_written_total",
				Help: "Command frames written to the device",
			},
			[]string{"tag"},
		),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sciospec_bytes_written_total",
			Help: "Bytes written to the device",
		}),
		WriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sciospec_write_errors_total",
			Help: "Failed frame writes",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.FramesWritten, m.BytesWritten, m.WriteErrors} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Writer wraps w so each Write is counted as one frame.
func (m *Metrics) Writer(w io.Writer) io.Writer {
	if m == nil {
		return w
	}
	return &countingWriter{w: w, m: m}
}

type countingWriter struct {
	w io.Writer
	m *Metrics
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.m.BytesWritten.Add(float64(n))
	if err != nil || n != len(p) {
		c.m.WriteErrors.Inc()
		return n, err
	}

	tag := "unknown"
	if len(p) > 0 {
		tag = protocol.Tag(p[0]).String()
	}
	c.m.FramesWritten.WithLabelValues(tag).Inc()
	return n, nil
}
