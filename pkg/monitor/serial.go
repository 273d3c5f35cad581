package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Serial is a connection to a real device over a serial port.
type Serial struct {
	port string
	baud int
	log  *zap.SugaredLogger

	conn       serial.Port
	readings   chan Reading
	notices    chan string
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	connected  bool
	readerDone chan struct{}
}

// NewSerial creates a driver for the given port. A zero baud rate uses
// DefaultBaud.
func NewSerial(port string, baud int, log *zap.SugaredLogger) *Serial {
	if baud == 0 {
		baud = DefaultBaud
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baud:     baud,
		log:      log,
		readings: make(chan Reading, DefaultBufferSize),
		notices:  make(chan string, DefaultBufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect opens the serial port and starts reading lines.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{BaudRate: d.baud}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true
	d.readerDone = make(chan struct{})

	go func() {
		defer close(d.readerDone)
		d.readLoop(port)
	}()

	return nil
}

// Close closes the connection and stops the read loop.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			d.log.Warnf("error closing serial port: %v", err)
		}
		d.conn = nil
	}

	// Closing the port unblocks the scanner; wait for the reader to finish
	// before closing the channels it sends on.
	<-d.readerDone

	d.connected = false
	close(d.readings)
	close(d.notices)

	return nil
}

// Readings returns the channel of parsed telemetry lines.
func (d *Serial) Readings() <-chan Reading {
	return d.readings
}

// Notices returns the channel of non-telemetry lines.
func (d *Serial) Notices() <-chan string {
	return d.notices
}

// SetLED forces the manual LED state.
func (d *Serial) SetLED(on bool) error {
	return d.send(commandToken("LED", on))
}

// SetBuzzer forces the manual buzzer state.
func (d *Serial) SetBuzzer(on bool) error {
	return d.send(commandToken("BUZZER", on))
}

// SetBoth forces both manual states at once.
func (d *Serial) SetBoth(on bool) error {
	return d.send(commandToken("BOTH", on))
}

// SetAuto toggles automatic threshold mode.
func (d *Serial) SetAuto(on bool) error {
	return d.send(commandToken("AUTO", on))
}

// SetThreshold reconfigures the gas threshold. The range is validated
// client-side before sending.
func (d *Serial) SetThreshold(value int) error {
	if err := validateThreshold(value); err != nil {
		return err
	}
	return d.send(fmt.Sprintf("THRESHOLD_%d", value))
}

// RequestStatus asks the device for an immediate status snapshot. The reply
// arrives on Notices.
func (d *Serial) RequestStatus() error {
	return d.send("GET_STATUS")
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

func (d *Serial) send(token string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	if _, err := d.conn.Write([]byte(token + "\n")); err != nil {
		return fmt.Errorf("failed to send command %s: %w", token, err)
	}

	return nil
}

// readLoop scans console lines, routing telemetry to the readings channel
// and everything else to notices.
func (d *Serial) readLoop(r io.Reader) {
	routeLines(d.ctx, r, d.readings, d.notices, d.log)
}

// routeLines scans console lines until EOF or cancellation, parsing
// telemetry lines into readings and forwarding everything else verbatim.
// Both channels drop when full so a slow consumer never stalls the wire.
func routeLines(ctx context.Context, r io.Reader, readings chan<- Reading, notices chan<- string, log *zap.SugaredLogger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !IsTelemetry(line) {
			select {
			case notices <- line:
			case <-ctx.Done():
				return
			default:
				log.Debugf("notices channel full, dropping line")
			}
			continue
		}

		reading, err := ParseReading(line)
		if err != nil {
			log.Warnf("failed to parse line %q: %v", line, err)
			continue
		}
		reading.Timestamp = time.Now()

		select {
		case readings <- reading:
		case <-ctx.Done():
			return
		default:
			log.Debugf("readings channel full, dropping reading")
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case <-ctx.Done():
		default:
			log.Warnf("console read error: %v", err)
		}
	}
}
