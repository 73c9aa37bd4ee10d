package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/itohio/sciospec/pkg/protocol"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Mock        MockConfig        `yaml:"mock"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MeasurementConfig contains the measurement setup written to the device.
type MeasurementConfig struct {
	BurstCount          int     `yaml:"burst_count"`
	TotalMeasNum        int     `yaml:"total_meas_num"`
	Electrodes          int     `yaml:"electrodes"`           // 16, 32, 48 or 64
	ExcitationFrequency float64 `yaml:"excitation_frequency"` // Hz
	Framerate           float64 `yaml:"framerate"`            // Frames per second
	Amplitude           float64 `yaml:"amplitude"`            // Amperes, values above 1 mA are read as mA
	InjectionSkip       int     `yaml:"injection_skip"`
	Gain                int     `yaml:"gain"`      // 1, 10, 100 or 1000
	ADCRange            int     `yaml:"adc_range"` // ±V: 1, 5 or 10
	Notes               string  `yaml:"notes"`
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	FailAfter int `yaml:"fail_after"` // Fail writes after this many frames (0 = never)
}

// LoggingConfig contains logger configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
}

// MetricsConfig contains the prometheus endpoint configuration.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // e.g. ":9100", empty disables the endpoint
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate: 115200,
		},
		Measurement: MeasurementConfig{
			BurstCount:          1,
			TotalMeasNum:        10,
			Electrodes:          16,
			ExcitationFrequency: 10000,
			Framerate:           5,
			Amplitude:           0.00001, // 10 µA
			InjectionSkip:       0,
			Gain:                1,
			ADCRange:            1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Snapshot returns the measurement settings as an encoder value. Later changes to m do
// not affect the returned value.
func (m MeasurementConfig) Snapshot() protocol.MeasurementConfig {
	return protocol.MeasurementConfig{
		BurstCount:          m.BurstCount,
		TotalMeasNum:        m.TotalMeasNum,
		Electrodes:          m.Electrodes,
		ExcitationFrequency: m.ExcitationFrequency,
		Framerate:           m.Framerate,
		Amplitude:           m.Amplitude,
		InjectionSkip:       m.InjectionSkip,
		Gain:                m.Gain,
		ADCRange:            m.ADCRange,
		Notes:               m.Notes,
		Configured:          true,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
// Gain, ADC range and injection skip are left alone: zero is meaningful for the skip and
// unknown gain or range values are reported by the encoder.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Measurement.BurstCount == 0 {
		c.Measurement.BurstCount = def.Measurement.BurstCount
	}
	if c.Measurement.TotalMeasNum == 0 {
		c.Measurement.TotalMeasNum = def.Measurement.TotalMeasNum
	}
	if c.Measurement.Electrodes == 0 {
		c.Measurement.Electrodes = def.Measurement.Electrodes
	}
	if c.Measurement.ExcitationFrequency == 0 {
		c.Measurement.ExcitationFrequency = def.Measurement.ExcitationFrequency
	}
	if c.Measurement.Framerate == 0 {
		c.Measurement.Framerate = def.Measurement.Framerate
	}
	if c.Measurement.Amplitude == 0 {
		c.Measurement.Amplitude = def.Measurement.Amplitude
	}

	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
}
