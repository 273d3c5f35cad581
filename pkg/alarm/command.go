package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the closed set of commands the device understands.
type Kind int

const (
	KindLEDOn Kind = iota
	KindLEDOff
	KindBuzzerOn
	KindBuzzerOff
	KindBothOn
	KindBothOff
	KindAutoOn
	KindAutoOff
	KindThreshold
	KindStatus
)

// Command is a parsed inbound command. Threshold is only meaningful for
// KindThreshold.
type Command struct {
	Kind      Kind
	Threshold int
}

var (
	// ErrUnknownCommand is returned for any line that is not a recognized
	// command token.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidThreshold is returned when THRESHOLD_<n> carries a value that
	// is not a number or is outside the accepted range.
	ErrInvalidThreshold = errors.New("invalid threshold")
)

const thresholdPrefix = "THRESHOLD_"

// Parse converts one inbound line into a Command. Leading and trailing
// whitespace is trimmed; tokens are matched case-sensitively.
func Parse(line string) (Command, error) {
	token := strings.TrimSpace(line)

	switch token {
	case "LED_ON":
		return Command{Kind: KindLEDOn}, nil
	case "LED_OFF":
		return Command{Kind: KindLEDOff}, nil
	case "BUZZER_ON":
		return Command{Kind: KindBuzzerOn}, nil
	case "BUZZER_OFF":
		return Command{Kind: KindBuzzerOff}, nil
	case "BOTH_ON":
		return Command{Kind: KindBothOn}, nil
	case "BOTH_OFF":
		return Command{Kind: KindBothOff}, nil
	case "AUTO_ON":
		return Command{Kind: KindAutoOn}, nil
	case "AUTO_OFF":
		return Command{Kind: KindAutoOff}, nil
	case "GET_STATUS":
		return Command{Kind: KindStatus}, nil
	}

	if raw, ok := strings.CutPrefix(token, thresholdPrefix); ok {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q is not a number", ErrInvalidThreshold, raw)
		}
		return Command{Kind: KindThreshold, Threshold: value}, nil
	}

	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
}

// Apply mutates the state according to the command and returns a
// human-readable acknowledgement line for the console.
//
// Turning a manual state OFF while in auto mode acknowledges the alarm;
// turning one ON does not — acknowledgment is a one-way valve tied to
// de-escalation. AUTO_OFF forces a clean manual slate, and any threshold or
// mode change clears the acknowledgment so the new configuration is evaluated
// fresh.
//
// KindStatus does not mutate state; the caller is expected to take a fresh
// sensor sample and format the status line itself.
func (s *State) Apply(cmd Command) (string, error) {
	switch cmd.Kind {
	case KindLEDOn:
		s.ManualLED = true
		return "LED manual ON", nil

	case KindLEDOff:
		s.ManualLED = false
		if s.AutoMode {
			s.Acknowledged = true
		}
		return "LED manual OFF", nil

	case KindBuzzerOn:
		s.ManualBuzzer = true
		return "Buzzer manual ON", nil

	case KindBuzzerOff:
		s.ManualBuzzer = false
		if s.AutoMode {
			s.Acknowledged = true
		}
		return "Buzzer manual OFF", nil

	case KindBothOn:
		s.ManualLED = true
		s.ManualBuzzer = true
		return "LED and buzzer manual ON", nil

	case KindBothOff:
		s.ManualLED = false
		s.ManualBuzzer = false
		if s.AutoMode {
			s.Acknowledged = true
		}
		return "LED and buzzer manual OFF", nil

	case KindAutoOn:
		s.AutoMode = true
		s.Acknowledged = false
		return "Auto mode ON", nil

	case KindAutoOff:
		s.AutoMode = false
		s.ManualLED = false
		s.ManualBuzzer = false
		s.Acknowledged = false
		return "Auto mode OFF", nil

	case KindThreshold:
		if cmd.Threshold <= MinThreshold || cmd.Threshold >= MaxThreshold {
			return "", fmt.Errorf("%w: %d (must be %d-%d)",
				ErrInvalidThreshold, cmd.Threshold, MinThreshold+1, MaxThreshold-1)
		}
		s.GasThreshold = cmd.Threshold
		s.Acknowledged = false
		return fmt.Sprintf("Threshold set to %d", cmd.Threshold), nil

	case KindStatus:
		return "", nil

	default:
		return "", fmt.Errorf("%w: kind %d", ErrUnknownCommand, cmd.Kind)
	}
}
