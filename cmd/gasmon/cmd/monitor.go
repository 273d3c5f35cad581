package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/internal/logger"
	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/alarm"
	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/history"
	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/monitor"
)

var (
	// monitorPort overrides the configured serial port.
	monitorPort string
	// monitorSim connects to an in-process simulated device instead.
	monitorSim bool

	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Connect to a device and run the interactive host console.",
		Long: `Connects to a gas monitor device over the configured serial port (or to a
fully simulated in-process device with --sim), prints telemetry and device
notices, and records readings into an in-memory delta-filtered history.

Device commands typed on stdin (LED_ON, BOTH_OFF, AUTO_ON, THRESHOLD_<n>,
GET_STATUS, ...) are forwarded to the device. Local commands: "history"
shows recent recorded readings, "quit" exits.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			log := logger.Logger()

			var dev monitor.Device
			if monitorSim {
				dev = monitor.NewSim(cfg, log)
				log.Info("connecting to simulated device")
			} else {
				port := cfg.Serial.Port
				if monitorPort != "" {
					port = monitorPort
				}
				dev = monitor.NewSerial(port, cfg.Serial.Baud, log)
				log.Infof("connecting to %s at %d baud", port, cfg.Serial.Baud)
			}

			if err := dev.Connect(); err != nil {
				return err
			}
			defer dev.Close()

			hist := history.NewLog(cfg.Monitor.HistorySize, cfg.Monitor.LogMinDelta)

			stdin := make(chan string)
			go func() {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					stdin <- scanner.Text()
				}
				close(stdin)
			}()

			for {
				select {
				case <-ctx.Done():
					return nil

				case r, ok := <-dev.Readings():
					if !ok {
						return nil
					}
					hist.Record(history.Entry{
						Timestamp: r.Timestamp,
						Gas:       r.Gas,
						Threshold: r.Threshold,
						LED:       r.LED,
						Buzzer:    r.Buzzer,
						Auto:      r.Auto,
					})
					fmt.Printf("[%s] GAS:%d LED:%s BUZZER:%s AUTO:%s THRESHOLD:%d\n",
						r.Timestamp.Format("15:04:05"), r.Gas,
						alarm.OnOff(r.LED), alarm.OnOff(r.Buzzer), alarm.OnOff(r.Auto), r.Threshold)

				case n, ok := <-dev.Notices():
					if !ok {
						return nil
					}
					fmt.Printf("device: %s\n", n)

				case line, ok := <-stdin:
					if !ok {
						return nil
					}
					if done := handleConsoleLine(dev, hist, line); done {
						return nil
					}
				}
			}
		},
	}
)

// handleConsoleLine dispatches one line typed by the operator. Returns true
// when the console should exit.
func handleConsoleLine(dev monitor.Device, hist *history.Log, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch line {
	case "quit", "exit":
		return true
	case "history":
		entries := hist.Tail(10)
		if len(entries) == 0 {
			fmt.Println("history: empty")
			return false
		}
		fmt.Printf("history: %d recorded, showing last %d\n", hist.Len(), len(entries))
		for _, e := range entries {
			fmt.Printf("  [%s] GAS:%d THRESHOLD:%d ALERT:%s\n",
				e.Timestamp.Format("15:04:05"), e.Gas, e.Threshold, alarm.OnOff(e.Alert))
		}
		return false
	}

	cmd, err := alarm.Parse(line)
	if err != nil {
		fmt.Printf("%v (try LED_ON, BOTH_OFF, AUTO_ON, THRESHOLD_<n>, GET_STATUS, history, quit)\n", err)
		return false
	}

	if err := sendCommand(dev, cmd); err != nil {
		fmt.Printf("send failed: %v\n", err)
	}
	return false
}

// sendCommand maps a parsed command onto the driver interface.
func sendCommand(dev monitor.Device, cmd alarm.Command) error {
	switch cmd.Kind {
	case alarm.KindLEDOn:
		return dev.SetLED(true)
	case alarm.KindLEDOff:
		return dev.SetLED(false)
	case alarm.KindBuzzerOn:
		return dev.SetBuzzer(true)
	case alarm.KindBuzzerOff:
		return dev.SetBuzzer(false)
	case alarm.KindBothOn:
		return dev.SetBoth(true)
	case alarm.KindBothOff:
		return dev.SetBoth(false)
	case alarm.KindAutoOn:
		return dev.SetAuto(true)
	case alarm.KindAutoOff:
		return dev.SetAuto(false)
	case alarm.KindThreshold:
		return dev.SetThreshold(cmd.Threshold)
	case alarm.KindStatus:
		return dev.RequestStatus()
	default:
		return fmt.Errorf("unsupported command kind %d", cmd.Kind)
	}
}

func init() {
	monitorCmd.Flags().StringVarP(&monitorPort, "port", "p", "", "serial port (overrides config)")
	monitorCmd.Flags().BoolVar(&monitorSim, "sim", false, "connect to an in-process simulated device")
	rootCmd.AddCommand(monitorCmd)
}
