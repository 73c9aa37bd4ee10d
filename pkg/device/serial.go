package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaudRate is the baud rate used when none is configured.
const DefaultBaudRate = 115200

// ErrNotConnected is returned when writing to a device that is not connected.
var ErrNotConnected = errors.New("not connected")

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
	IsUSB       bool
	VID, PID    string
}

// Serial represents a connection to a Sciospec device over a serial port.
type Serial struct {
	port     string
	baudRate int
	log      logrus.FieldLogger

	conn      serial.Port
	mu        sync.Mutex
	connected bool
}

// New creates a new Serial device for the specified port and baud rate.
func New(port string, baudRate int, log logrus.FieldLogger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		log:      log.WithField("port", port),
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(details))
	for _, p := range details {
		desc := p.Product
		if desc == "" {
			desc = p.Name // Use name as description if we can't get more info
		}
		result = append(result, Port{
			Name:        p.Name,
			Description: desc,
			IsUSB:       p.IsUSB,
			VID:         p.VID,
			PID:         p.PID,
		})
	}

	return result, nil
}

// Connect opens the serial port.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true
	d.log.WithField("baud_rate", d.baudRate).Info("Connected")

	return nil
}

// Close closes the connection.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			d.log.WithError(err).Error("Error closing serial port")
		}
		d.conn = nil
	}

	d.connected = false
	d.log.Info("Disconnected")

	return nil
}

// Write sends p to the device in a single port write.
func (d *Serial) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return 0, ErrNotConnected
	}

	n, err := d.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to %s: %w", d.port, err)
	}
	return n, nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}
