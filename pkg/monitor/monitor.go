// Package monitor is the host-side driver for a gas monitor device. It
// consumes the device's line protocol: structured telemetry lines
// (GAS:...,LED:...,BUZZER:...,AUTO:...,THRESHOLD:...) and free-text notices
// (banner, STATUS replies, acknowledgement echoes, error strings),
// distinguished by prefix.
package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/alarm"
)

const (
	// DefaultBaud is the device's fixed serial rate.
	DefaultBaud = 9600
	// DefaultBufferSize is the default capacity of the readings channel.
	DefaultBufferSize = 100

	telemetryPrefix = "GAS:"
)

// Reading is one parsed telemetry line, stamped with the receive time.
type Reading struct {
	Timestamp time.Time
	Gas       int
	LED       bool
	Buzzer    bool
	Auto      bool
	Threshold int
}

// Device is a connection to a gas monitor, real or simulated.
type Device interface {
	Connect() error
	Close() error
	// Readings delivers parsed telemetry lines. The channel is buffered;
	// readings are dropped when the consumer falls behind.
	Readings() <-chan Reading
	// Notices delivers non-telemetry lines verbatim.
	Notices() <-chan string
	SetLED(on bool) error
	SetBuzzer(on bool) error
	SetBoth(on bool) error
	SetAuto(on bool) error
	SetThreshold(value int) error
	RequestStatus() error
	IsConnected() bool
}

// Ensure both implementations satisfy Device.
var (
	_ Device = (*Serial)(nil)
	_ Device = (*Sim)(nil)
)

// IsTelemetry reports whether a console line is a structured telemetry line.
func IsTelemetry(line string) bool {
	return strings.HasPrefix(line, telemetryPrefix)
}

// ParseReading parses one telemetry line. The caller stamps the timestamp.
// Format: GAS:<int>,LED:<ON|OFF>,BUZZER:<ON|OFF>,AUTO:<ON|OFF>,THRESHOLD:<int>
func ParseReading(line string) (Reading, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 5 {
		return Reading{}, fmt.Errorf("invalid telemetry line: expected 5 comma-separated fields, got %d", len(parts))
	}

	fields := make(map[string]string, len(parts))
	for _, part := range parts {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			return Reading{}, fmt.Errorf("invalid telemetry field %q", part)
		}
		fields[key] = value
	}

	var r Reading
	var err error

	if r.Gas, err = parseIntField(fields, "GAS"); err != nil {
		return Reading{}, err
	}
	if r.LED, err = parseOnOffField(fields, "LED"); err != nil {
		return Reading{}, err
	}
	if r.Buzzer, err = parseOnOffField(fields, "BUZZER"); err != nil {
		return Reading{}, err
	}
	if r.Auto, err = parseOnOffField(fields, "AUTO"); err != nil {
		return Reading{}, err
	}
	if r.Threshold, err = parseIntField(fields, "THRESHOLD"); err != nil {
		return Reading{}, err
	}

	return r, nil
}

func parseIntField(fields map[string]string, key string) (int, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing field %s", key)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return value, nil
}

func parseOnOffField(fields map[string]string, key string) (bool, error) {
	raw, ok := fields[key]
	if !ok {
		return false, fmt.Errorf("missing field %s", key)
	}
	switch raw {
	case "ON":
		return true, nil
	case "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s value %q: want ON or OFF", key, raw)
	}
}

// commandToken renders the on/off token pair for a command family.
func commandToken(prefix string, on bool) string {
	if on {
		return prefix + "_ON"
	}
	return prefix + "_OFF"
}

// validateThreshold applies the device's threshold range client-side so a
// doomed command never goes on the wire.
func validateThreshold(value int) error {
	if value <= alarm.MinThreshold || value >= alarm.MaxThreshold {
		return fmt.Errorf("%w: %d (must be %d-%d)",
			alarm.ErrInvalidThreshold, value, alarm.MinThreshold+1, alarm.MaxThreshold-1)
	}
	return nil
}

// Ports returns the names of the serial ports available on this host.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
