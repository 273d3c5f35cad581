package monitor

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/config"
	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/device"
)

// Sim runs a complete in-process device (simulated sensor, in-memory pins)
// behind the same Device interface as Serial. This is the demo mode used
// when no hardware is attached.
type Sim struct {
	cfg *config.Config
	log *zap.SugaredLogger

	readings   chan Reading
	notices    chan string
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	connected  bool
	readerDone chan struct{}

	// toDevice is the host's write end of the command pipe.
	toDevice *io.PipeWriter
	// fromDevice is the host's read end of the telemetry pipe.
	fromDevice *io.PipeReader
}

// pipeConsole joins the device ends of the two in-memory pipes into the
// io.ReadWriter the device loop expects.
type pipeConsole struct {
	io.Reader
	io.Writer
}

// NewSim creates a simulated device connection. A nil config uses defaults.
func NewSim(cfg *config.Config, log *zap.SugaredLogger) *Sim {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sim{
		cfg:      cfg,
		log:      log,
		readings: make(chan Reading, DefaultBufferSize),
		notices:  make(chan string, DefaultBufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect starts the in-process device loop and begins reading its console.
func (d *Sim) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	// Host writes commands into devIn; device writes telemetry into devOut.
	devIn, hostOut := io.Pipe()
	hostIn, devOut := io.Pipe()

	dev := device.New(
		device.NewSimSensor(&d.cfg.Sim),
		&device.MemPin{},
		&device.MemPin{},
		pipeConsole{Reader: devIn, Writer: devOut},
		device.WithInterval(d.cfg.Device.SampleInterval.Std()),
		device.WithThreshold(d.cfg.Device.Threshold),
		device.WithLogger(d.log),
	)

	d.toDevice = hostOut
	d.fromDevice = hostIn
	d.connected = true
	d.readerDone = make(chan struct{})

	go func() {
		if err := dev.Run(d.ctx); err != nil {
			d.log.Warnf("simulated device stopped: %v", err)
		}
		devOut.Close()
	}()

	go func() {
		defer close(d.readerDone)
		d.readLoop()
	}()

	return nil
}

// Close stops the simulated device and the read loop.
func (d *Sim) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	// Unblock the device's console reader so its loop exits, and the host
	// reader so routeLines returns.
	d.toDevice.Close()
	d.fromDevice.Close()

	// Wait for the reader before closing the channels it sends on.
	<-d.readerDone

	d.connected = false
	close(d.readings)
	close(d.notices)

	return nil
}

// Readings returns the channel of parsed telemetry lines.
func (d *Sim) Readings() <-chan Reading {
	return d.readings
}

// Notices returns the channel of non-telemetry lines.
func (d *Sim) Notices() <-chan string {
	return d.notices
}

// SetLED forces the manual LED state.
func (d *Sim) SetLED(on bool) error {
	return d.send(commandToken("LED", on))
}

// SetBuzzer forces the manual buzzer state.
func (d *Sim) SetBuzzer(on bool) error {
	return d.send(commandToken("BUZZER", on))
}

// SetBoth forces both manual states at once.
func (d *Sim) SetBoth(on bool) error {
	return d.send(commandToken("BOTH", on))
}

// SetAuto toggles automatic threshold mode.
func (d *Sim) SetAuto(on bool) error {
	return d.send(commandToken("AUTO", on))
}

// SetThreshold reconfigures the gas threshold.
func (d *Sim) SetThreshold(value int) error {
	if err := validateThreshold(value); err != nil {
		return err
	}
	return d.send(fmt.Sprintf("THRESHOLD_%d", value))
}

// RequestStatus asks the device for an immediate status snapshot.
func (d *Sim) RequestStatus() error {
	return d.send("GET_STATUS")
}

// IsConnected returns whether the simulated device is running.
func (d *Sim) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

func (d *Sim) send(token string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	if _, err := d.toDevice.Write([]byte(token + "\n")); err != nil {
		return fmt.Errorf("failed to send command %s: %w", token, err)
	}

	return nil
}

func (d *Sim) readLoop() {
	routeLines(d.ctx, d.fromDevice, d.readings, d.notices, d.log)
}
