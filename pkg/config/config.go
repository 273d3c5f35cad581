// Package config loads and saves the application configuration as YAML.
// Missing files and missing fields fall back to defaults, so a bare
// installation runs without any configuration at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when no --config flag
// is given.
const DefaultFilename = "gasmon.yaml"

// Duration is a time.Duration that marshals to and from YAML as a string
// like "1s" or "500ms". Plain integers are accepted as nanoseconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalYAML renders the duration in time.Duration string notation.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML parses either a duration string or a nanosecond integer.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := node.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}

	return fmt.Errorf("invalid duration value on line %d", node.Line)
}

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Device  DeviceConfig  `yaml:"device"`
	Monitor MonitorConfig `yaml:"monitor"`
	Sim     SimConfig     `yaml:"sim"`
}

// SerialConfig contains serial transport configuration. Both the device
// console and the host driver use the same rate.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// DeviceConfig contains the device-side runtime parameters.
type DeviceConfig struct {
	// Threshold is the boot-time gas threshold, reconfigurable at runtime
	// via THRESHOLD_<n>.
	Threshold int `yaml:"threshold"`
	// SampleInterval is the sensor sampling cadence.
	SampleInterval Duration `yaml:"sample_interval"`
	// GPIOChip, LEDPin and BuzzerPin select the real output lines when the
	// device runs with hardware actuators (Linux only).
	GPIOChip  string `yaml:"gpio_chip"`
	LEDPin    int    `yaml:"led_pin"`
	BuzzerPin int    `yaml:"buzzer_pin"`
}

// MonitorConfig contains the host-side console parameters.
type MonitorConfig struct {
	// HistorySize is the capacity of the in-memory reading log.
	HistorySize int `yaml:"history_size"`
	// LogMinDelta is the minimum gas-value change between logged readings.
	LogMinDelta int `yaml:"log_min_delta"`
}

// SimConfig tunes the simulated gas sensor.
type SimConfig struct {
	// Baseline is the quiescent gas level.
	Baseline int `yaml:"baseline"`
	// Amplitude is the slow ambient drift around the baseline.
	Amplitude int `yaml:"amplitude"`
	// Noise is the fast jitter added to every reading.
	Noise int `yaml:"noise"`
	// LeakMagnitude is how far a simulated leak rises above the baseline.
	LeakMagnitude int `yaml:"leak_magnitude"`
	// LeakPeriod is the time between simulated leaks; LeakDuration is how
	// long each one lasts.
	LeakPeriod   Duration `yaml:"leak_period"`
	LeakDuration Duration `yaml:"leak_duration"`
}

// Default returns a configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyUSB0",
			Baud: 9600,
		},
		Device: DeviceConfig{
			Threshold:      400,
			SampleInterval: Duration(time.Second),
			GPIOChip:       "gpiochip0",
			LEDPin:         17,
			BuzzerPin:      27,
		},
		Monitor: MonitorConfig{
			HistorySize: 8640,
			LogMinDelta: 10,
		},
		Sim: SimConfig{
			Baseline:      180,
			Amplitude:     40,
			Noise:         8,
			LeakMagnitude: 500,
			LeakPeriod:    Duration(45 * time.Second),
			LeakDuration:  Duration(10 * time.Second),
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

// ensureDefaults fills in zero-valued required fields after a partial load.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if c.Device.Threshold == 0 {
		c.Device.Threshold = def.Device.Threshold
	}
	if c.Device.SampleInterval == 0 {
		c.Device.SampleInterval = def.Device.SampleInterval
	}
	if c.Device.GPIOChip == "" {
		c.Device.GPIOChip = def.Device.GPIOChip
	}
	if c.Device.LEDPin == 0 {
		c.Device.LEDPin = def.Device.LEDPin
	}
	if c.Device.BuzzerPin == 0 {
		c.Device.BuzzerPin = def.Device.BuzzerPin
	}

	if c.Monitor.HistorySize == 0 {
		c.Monitor.HistorySize = def.Monitor.HistorySize
	}
	if c.Monitor.LogMinDelta == 0 {
		c.Monitor.LogMinDelta = def.Monitor.LogMinDelta
	}

	if c.Sim.Baseline == 0 {
		c.Sim.Baseline = def.Sim.Baseline
	}
	if c.Sim.Amplitude == 0 {
		c.Sim.Amplitude = def.Sim.Amplitude
	}
	if c.Sim.Noise == 0 {
		c.Sim.Noise = def.Sim.Noise
	}
	if c.Sim.LeakMagnitude == 0 {
		c.Sim.LeakMagnitude = def.Sim.LeakMagnitude
	}
	if c.Sim.LeakPeriod == 0 {
		c.Sim.LeakPeriod = def.Sim.LeakPeriod
	}
	if c.Sim.LeakDuration == 0 {
		c.Sim.LeakDuration = def.Sim.LeakDuration
	}
}
