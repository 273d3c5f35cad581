package alarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, DefaultThreshold, s.GasThreshold)
	assert.True(t, s.AutoMode)
	assert.False(t, s.ManualLED)
	assert.False(t, s.ManualBuzzer)
	assert.False(t, s.Acknowledged)
	assert.Equal(t, 0, s.GasValue)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		wantLED    bool
		wantBuzzer bool
		wantAck    bool
	}{
		{
			name:       "above threshold in auto mode triggers both",
			state:      State{GasThreshold: 400, AutoMode: true, GasValue: 682},
			wantLED:    true,
			wantBuzzer: true,
		},
		{
			name:       "below threshold stays quiet",
			state:      State{GasThreshold: 400, AutoMode: true, GasValue: 200},
			wantLED:    false,
			wantBuzzer: false,
		},
		{
			name:       "exactly at threshold does not trigger",
			state:      State{GasThreshold: 400, AutoMode: true, GasValue: 400},
			wantLED:    false,
			wantBuzzer: false,
		},
		{
			name:       "one above threshold triggers",
			state:      State{GasThreshold: 400, AutoMode: true, GasValue: 401},
			wantLED:    true,
			wantBuzzer: true,
		},
		{
			name:       "auto mode off suppresses trigger",
			state:      State{GasThreshold: 400, AutoMode: false, GasValue: 682},
			wantLED:    false,
			wantBuzzer: false,
		},
		{
			name:       "acknowledged alarm stays silent above threshold",
			state:      State{GasThreshold: 400, AutoMode: true, GasValue: 682, Acknowledged: true},
			wantLED:    false,
			wantBuzzer: false,
			wantAck:    true,
		},
		{
			name:       "manual LED ORs with auto trigger",
			state:      State{GasThreshold: 400, AutoMode: true, GasValue: 200, ManualLED: true},
			wantLED:    true,
			wantBuzzer: false,
		},
		{
			name:       "manual buzzer without auto mode",
			state:      State{GasThreshold: 400, AutoMode: false, GasValue: 682, ManualBuzzer: true},
			wantLED:    false,
			wantBuzzer: true,
		},
		{
			name:       "acknowledged but manual override still drives outputs",
			state:      State{GasThreshold: 400, AutoMode: true, GasValue: 682, Acknowledged: true, ManualLED: true, ManualBuzzer: true},
			wantLED:    true,
			wantBuzzer: true,
			wantAck:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			out := s.Evaluate()

			assert.Equal(t, tt.wantLED, out.LED, "LED")
			assert.Equal(t, tt.wantBuzzer, out.Buzzer, "buzzer")
			assert.Equal(t, tt.wantAck, s.Acknowledged, "acknowledged")
		})
	}
}

func TestEvaluate_ClearsAckAtOrBelowThreshold(t *testing.T) {
	tests := []struct {
		name     string
		gas      int
		wantAck  bool
	}{
		{name: "below threshold clears ack", gas: 200, wantAck: false},
		{name: "exactly at threshold clears ack", gas: 400, wantAck: false},
		{name: "above threshold keeps ack", gas: 401, wantAck: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{GasThreshold: 400, AutoMode: true, GasValue: tt.gas, Acknowledged: true}
			s.Evaluate()
			assert.Equal(t, tt.wantAck, s.Acknowledged)
		})
	}
}

// TestAcknowledgeScenario walks the full alarm lifecycle: trigger, silence
// via LED_OFF, stay silent while gas is still high, re-arm once it drops.
func TestAcknowledgeScenario(t *testing.T) {
	s := NewState()

	// Gas spikes above the default threshold.
	s.SetSample(682)
	out := s.Evaluate()
	assert.True(t, out.LED)
	assert.True(t, out.Buzzer)
	assert.Equal(t, "GAS:682,LED:ON,BUZZER:ON,AUTO:ON,THRESHOLD:400", FormatTelemetry(s, out))

	// Operator silences the alarm.
	_, err := s.Apply(Command{Kind: KindLEDOff})
	require.NoError(t, err)
	assert.False(t, s.ManualLED)
	assert.True(t, s.Acknowledged)

	// Gas is still high but the alarm stays acknowledged.
	s.SetSample(682)
	out = s.Evaluate()
	assert.False(t, out.LED)
	assert.False(t, out.Buzzer)
	assert.Equal(t, "GAS:682,LED:OFF,BUZZER:OFF,AUTO:ON,THRESHOLD:400", FormatTelemetry(s, out))

	// Condition resolves: acknowledgment is cleared.
	s.SetSample(200)
	s.Evaluate()
	assert.False(t, s.Acknowledged)

	// Next spike triggers again.
	s.SetSample(682)
	out = s.Evaluate()
	assert.True(t, out.LED)
	assert.True(t, out.Buzzer)
}
