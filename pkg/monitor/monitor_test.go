package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/alarm"
)

func TestParseReading(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Reading
		wantErr bool
	}{
		{
			name: "alarm active",
			line: "GAS:682,LED:ON,BUZZER:ON,AUTO:ON,THRESHOLD:400",
			want: Reading{Gas: 682, LED: true, Buzzer: true, Auto: true, Threshold: 400},
		},
		{
			name: "all off",
			line: "GAS:150,LED:OFF,BUZZER:OFF,AUTO:OFF,THRESHOLD:400",
			want: Reading{Gas: 150, Threshold: 400},
		},
		{
			name: "manual led only",
			line: "GAS:0,LED:ON,BUZZER:OFF,AUTO:OFF,THRESHOLD:999",
			want: Reading{Gas: 0, LED: true, Threshold: 999},
		},
		{
			name: "trailing newline tolerated",
			line: "GAS:10,LED:OFF,BUZZER:OFF,AUTO:ON,THRESHOLD:400\n",
			want: Reading{Gas: 10, Auto: true, Threshold: 400},
		},
		{
			name:    "too few fields",
			line:    "GAS:682,LED:ON,BUZZER:ON,AUTO:ON",
			wantErr: true,
		},
		{
			name:    "too many fields",
			line:    "GAS:682,LED:ON,BUZZER:ON,AUTO:ON,THRESHOLD:400,EXTRA:1",
			wantErr: true,
		},
		{
			name:    "missing separator",
			line:    "GAS:682,LED:ON,BUZZER:ON,AUTO:ON,THRESHOLD",
			wantErr: true,
		},
		{
			name:    "non-numeric gas",
			line:    "GAS:abc,LED:ON,BUZZER:ON,AUTO:ON,THRESHOLD:400",
			wantErr: true,
		},
		{
			name:    "bad on-off value",
			line:    "GAS:682,LED:MAYBE,BUZZER:ON,AUTO:ON,THRESHOLD:400",
			wantErr: true,
		},
		{
			name:    "lowercase on-off rejected",
			line:    "GAS:682,LED:on,BUZZER:ON,AUTO:ON,THRESHOLD:400",
			wantErr: true,
		},
		{
			name:    "wrong keys",
			line:    "FOO:682,LED:ON,BUZZER:ON,AUTO:ON,THRESHOLD:400",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReading(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTelemetry(t *testing.T) {
	assert.True(t, IsTelemetry("GAS:682,LED:ON,BUZZER:ON,AUTO:ON,THRESHOLD:400"))
	assert.False(t, IsTelemetry("STATUS - GAS:123, THRESHOLD:400, AUTO:ON, MANUAL_LED:OFF, MANUAL_BUZZ:OFF"))
	assert.False(t, IsTelemetry("Gas Monitoring System ready"))
	assert.False(t, IsTelemetry("ERROR: unknown command: \"FOO\""))
}

func TestCommandToken(t *testing.T) {
	tests := []struct {
		prefix string
		on     bool
		want   string
	}{
		{"LED", true, "LED_ON"},
		{"LED", false, "LED_OFF"},
		{"BUZZER", true, "BUZZER_ON"},
		{"BOTH", false, "BOTH_OFF"},
		{"AUTO", true, "AUTO_ON"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, commandToken(tt.prefix, tt.on))
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	assert.NoError(t, validateThreshold(1))
	assert.NoError(t, validateThreshold(500))
	assert.NoError(t, validateThreshold(1023))
	assert.ErrorIs(t, validateThreshold(0), alarm.ErrInvalidThreshold)
	assert.ErrorIs(t, validateThreshold(1024), alarm.ErrInvalidThreshold)
	assert.ErrorIs(t, validateThreshold(-1), alarm.ErrInvalidThreshold)
}

func TestSerial_NotConnected(t *testing.T) {
	d := NewSerial("/dev/ttyUSB0", 0, nil)

	assert.False(t, d.IsConnected())
	assert.Error(t, d.SetLED(true))
	assert.Error(t, d.RequestStatus())
	// Close on a never-connected driver is a no-op.
	assert.NoError(t, d.Close())
}

func TestSerial_ThresholdValidatedBeforeSending(t *testing.T) {
	d := NewSerial("/dev/ttyUSB0", 0, nil)

	// Out-of-range fails validation before the missing connection matters.
	err := d.SetThreshold(1024)
	assert.ErrorIs(t, err, alarm.ErrInvalidThreshold)
}
