package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/internal/logger"
	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/device"
)

var (
	// devicePort selects a serial console; empty means stdio.
	devicePort string
	// deviceGPIO enables real output pins through the GPIO character device.
	deviceGPIO bool

	deviceCmd = &cobra.Command{
		Use:   "device",
		Short: "Run the gas monitor device loop.",
		Long: `Runs the device control loop: sample the gas sensor once per interval,
evaluate the alarm state machine, drive the LED and buzzer outputs and emit
one telemetry line per cycle. Commands are read from the same console.

The console is stdio by default; --port attaches it to a serial port at the
configured rate instead. --gpio drives real output pins (Linux only);
otherwise pin transitions are logged.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			log := logger.Logger()

			var console io.ReadWriter
			if devicePort != "" {
				port, err := serial.Open(devicePort, &serial.Mode{BaudRate: cfg.Serial.Baud})
				if err != nil {
					return fmt.Errorf("open serial port %s: %w", devicePort, err)
				}
				defer port.Close()
				console = port
				log.Infof("console on serial port %s at %d baud", devicePort, cfg.Serial.Baud)
			} else {
				console = stdioConsole{}
				log.Info("console on stdio")
			}

			var led, buzzer device.Pin
			if deviceGPIO {
				ledPin, err := device.NewGPIOPin(cfg.Device.GPIOChip, cfg.Device.LEDPin)
				if err != nil {
					return fmt.Errorf("led pin: %w", err)
				}
				defer ledPin.Close()

				buzzerPin, err := device.NewGPIOPin(cfg.Device.GPIOChip, cfg.Device.BuzzerPin)
				if err != nil {
					return fmt.Errorf("buzzer pin: %w", err)
				}
				defer buzzerPin.Close()

				led, buzzer = ledPin, buzzerPin
			} else {
				led = device.NewLogPin("led", log)
				buzzer = device.NewLogPin("buzzer", log)
			}

			dev := device.New(
				device.NewSimSensor(&cfg.Sim),
				led, buzzer, console,
				device.WithInterval(cfg.Device.SampleInterval.Std()),
				device.WithThreshold(cfg.Device.Threshold),
				device.WithLogger(log),
			)

			return dev.Run(ctx)
		},
	}
)

// stdioConsole joins stdin and stdout into the device console.
type stdioConsole struct{}

func (stdioConsole) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConsole) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func init() {
	deviceCmd.Flags().StringVarP(&devicePort, "port", "p", "", "serial port for the console (default: stdio)")
	deviceCmd.Flags().BoolVar(&deviceGPIO, "gpio", false, "drive real GPIO output pins")
	rootCmd.AddCommand(deviceCmd)
}
