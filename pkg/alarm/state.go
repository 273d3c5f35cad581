// Package alarm contains the pure device logic: the shared state record, the
// alarm state machine, the command parser and the telemetry line formats.
// It has no dependencies on hardware, serial I/O or timing — callers own the
// sampling cadence and thread the state through each cycle.
package alarm

const (
	// DefaultThreshold is the gas threshold a device boots with.
	DefaultThreshold = 400
	// MinThreshold and MaxThreshold bound the accepted threshold range
	// (exclusive): a valid threshold n satisfies MinThreshold < n < MaxThreshold.
	MinThreshold = 0
	MaxThreshold = 1024
)

// State is the single process-wide state record of the device. It lives for
// the whole power-on session and has exactly one writer (the control loop).
type State struct {
	// GasThreshold is the auto-trigger threshold. Mutated only by the
	// THRESHOLD_<n> command.
	GasThreshold int
	// ManualLED and ManualBuzzer hold operator-forced actuator intent,
	// independent of the sensed gas level.
	ManualLED    bool
	ManualBuzzer bool
	// AutoMode gates whether threshold logic can drive the actuators.
	AutoMode bool
	// Acknowledged suppresses auto-triggering after the operator silenced an
	// active alarm. Cleared when the condition resolves, the threshold
	// changes, or auto mode is toggled.
	Acknowledged bool
	// GasValue is the most recent raw sensor sample.
	GasValue int
}

// Outputs holds the two computed actuator levels for one cycle.
type Outputs struct {
	LED    bool
	Buzzer bool
}

// NewState returns a state record with power-on defaults.
func NewState() *State {
	return &State{
		GasThreshold: DefaultThreshold,
		AutoMode:     true,
	}
}

// SetSample stores the latest raw sensor reading.
func (s *State) SetSample(value int) {
	s.GasValue = value
}

// Evaluate runs the alarm state machine once and returns the actuator levels.
// Auto-trigger fires only on a strict threshold crossing (a value exactly at
// threshold is normal). As a side effect, a reading at or below threshold
// clears the acknowledgment flag: the condition has resolved, so the next
// crossing must trigger again.
func (s *State) Evaluate() Outputs {
	autoTrigger := s.AutoMode && s.GasValue > s.GasThreshold && !s.Acknowledged

	if s.GasValue <= s.GasThreshold {
		s.Acknowledged = false
	}

	return Outputs{
		LED:    autoTrigger || s.ManualLED,
		Buzzer: autoTrigger || s.ManualBuzzer,
	}
}
