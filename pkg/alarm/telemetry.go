package alarm

import "fmt"

// OnOff renders a boolean the way the wire protocol spells it.
func OnOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// FormatTelemetry renders the once-per-cycle status line:
//
//	GAS:<int>,LED:<ON|OFF>,BUZZER:<ON|OFF>,AUTO:<ON|OFF>,THRESHOLD:<int>
//
// No trailing whitespace; the caller appends the line terminator.
func FormatTelemetry(s *State, out Outputs) string {
	return fmt.Sprintf("GAS:%d,LED:%s,BUZZER:%s,AUTO:%s,THRESHOLD:%d",
		s.GasValue, OnOff(out.LED), OnOff(out.Buzzer), OnOff(s.AutoMode), s.GasThreshold)
}

// FormatStatus renders the GET_STATUS reply. The gas value comes from an
// immediate extra sensor read, not from the state record, so it is passed in
// separately.
func FormatStatus(gas int, s *State) string {
	return fmt.Sprintf("STATUS - GAS:%d, THRESHOLD:%d, AUTO:%s, MANUAL_LED:%s, MANUAL_BUZZ:%s",
		gas, s.GasThreshold, OnOff(s.AutoMode), OnOff(s.ManualLED), OnOff(s.ManualBuzzer))
}
