// Package device runs the gas monitor itself: the sampling loop, the
// actuator outputs and the line-oriented serial console. The alarm logic
// lives in pkg/alarm; this package owns timing and I/O.
package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/alarm"
)

const (
	// DefaultSampleInterval is the sensing cadence.
	DefaultSampleInterval = time.Second

	bannerLine1 = "Gas Monitoring System ready"
	bannerLine2 = "Commands: LED_ON, LED_OFF, BUZZER_ON, BUZZER_OFF, BOTH_ON, BOTH_OFF, AUTO_ON, AUTO_OFF, THRESHOLD_<value>, GET_STATUS"
)

// Device ties the state record to a sensor, two output pins and a console.
// All state mutation happens on the loop goroutine: inbound lines are
// delivered over a channel by a reader goroutine and consumed at most one
// per wakeup, so the state record has a single writer.
type Device struct {
	state    *alarm.State
	sensor   Sensor
	led      Pin
	buzzer   Pin
	console  io.ReadWriter
	interval time.Duration
	log      *zap.SugaredLogger

	// lastReading is the completion time of the last sample cycle. A
	// GET_STATUS read does not touch it.
	lastReading time.Time
}

// Option configures a Device.
type Option func(*Device)

// WithInterval overrides the sampling interval.
func WithInterval(interval time.Duration) Option {
	return func(d *Device) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// WithThreshold overrides the boot-time gas threshold. Out-of-range values
// keep the default.
func WithThreshold(threshold int) Option {
	return func(d *Device) {
		if threshold > alarm.MinThreshold && threshold < alarm.MaxThreshold {
			d.state.GasThreshold = threshold
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(d *Device) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a device. The console carries telemetry out and commands in,
// both newline-delimited.
func New(sensor Sensor, led, buzzer Pin, console io.ReadWriter, opts ...Option) *Device {
	d := &Device{
		state:    alarm.NewState(),
		sensor:   sensor,
		led:      led,
		buzzer:   buzzer,
		console:  console,
		interval: DefaultSampleInterval,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the control loop until the context is canceled or the console
// reaches EOF. It writes the startup banner, then alternates between timed
// sample cycles and inbound command lines.
func (d *Device) Run(ctx context.Context) error {
	d.writeLine(bannerLine1)
	d.writeLine(bannerLine2)

	lines := make(chan string, 8)
	go d.readCommands(lines)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	return d.run(ctx, ticker.C, lines)
}

// run is the loop body, with timing and input injected for tests.
func (d *Device) run(ctx context.Context, tick <-chan time.Time, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			d.log.Info("device stopping")
			return nil
		case now := <-tick:
			d.step(now)
		case line, ok := <-lines:
			if !ok {
				d.log.Info("console closed")
				return nil
			}
			d.handleLine(line)
		}
	}
}

// step runs one sample cycle: sense, decide, actuate, report. A failed
// sensor read skips the cycle.
func (d *Device) step(now time.Time) {
	value, err := d.sensor.Read()
	if err != nil {
		d.log.Warnf("sensor read failed, skipping cycle: %v", err)
		return
	}

	d.state.SetSample(value)
	d.lastReading = now

	out := d.state.Evaluate()
	if err := d.led.Set(out.LED); err != nil {
		d.log.Errorf("set led: %v", err)
	}
	if err := d.buzzer.Set(out.Buzzer); err != nil {
		d.log.Errorf("set buzzer: %v", err)
	}

	d.writeLine(alarm.FormatTelemetry(d.state, out))
}

// handleLine processes one inbound command line. Rejections are reported on
// the console as free text; state is untouched on any error.
func (d *Device) handleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	cmd, err := alarm.Parse(line)
	if err != nil {
		d.writeLine("ERROR: " + err.Error())
		return
	}

	if cmd.Kind == alarm.KindStatus {
		// Immediate extra sample; the sampling timer and lastReading are
		// deliberately untouched.
		value, err := d.sensor.Read()
		if err != nil {
			d.log.Warnf("status read failed: %v", err)
			d.writeLine("ERROR: sensor read failed")
			return
		}
		d.writeLine(alarm.FormatStatus(value, d.state))
		return
	}

	reply, err := d.state.Apply(cmd)
	if err != nil {
		d.writeLine("ERROR: " + err.Error())
		return
	}
	d.writeLine(reply)
}

// readCommands delivers complete inbound lines to the loop. Partial input is
// buffered by the scanner and never acted on until terminated.
func (d *Device) readCommands(lines chan<- string) {
	scanner := bufio.NewScanner(d.console)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		d.log.Warnf("console read error: %v", err)
	}
	close(lines)
}

func (d *Device) writeLine(s string) {
	if _, err := fmt.Fprintf(d.console, "%s\n", s); err != nil {
		d.log.Warnf("console write failed: %v", err)
	}
}
