package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/config"
)

func simTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Device.SampleInterval = config.Duration(20 * time.Millisecond)
	// A long quiet period so readings stay at the baseline during the test.
	cfg.Sim.LeakPeriod = config.Duration(time.Hour)
	cfg.Sim.LeakDuration = config.Duration(time.Second)
	return cfg
}

func waitReading(t *testing.T, dev Device) Reading {
	t.Helper()
	select {
	case r, ok := <-dev.Readings():
		require.True(t, ok, "readings channel closed")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a reading")
		return Reading{}
	}
}

func waitNotice(t *testing.T, dev Device, substr string) string {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case n, ok := <-dev.Notices():
			require.True(t, ok, "notices channel closed")
			if strings.Contains(n, substr) {
				return n
			}
		case <-deadline:
			t.Fatalf("timed out waiting for notice containing %q", substr)
			return ""
		}
	}
}

func TestSim_EndToEnd(t *testing.T) {
	dev := NewSim(simTestConfig(), nil)

	require.NoError(t, dev.Connect())
	defer dev.Close()
	assert.True(t, dev.IsConnected())

	// The banner arrives as notices before any telemetry.
	waitNotice(t, dev, "Gas Monitoring System ready")
	waitNotice(t, dev, "Commands:")

	r := waitReading(t, dev)
	assert.GreaterOrEqual(t, r.Gas, 0)
	assert.LessOrEqual(t, r.Gas, 1023)
	assert.True(t, r.Auto)
	assert.Equal(t, 400, r.Threshold)
	assert.False(t, r.Timestamp.IsZero())
}

func TestSim_ThresholdRoundTrip(t *testing.T) {
	dev := NewSim(simTestConfig(), nil)

	require.NoError(t, dev.Connect())
	defer dev.Close()

	require.NoError(t, dev.SetThreshold(500))
	waitNotice(t, dev, "Threshold set to 500")

	// Telemetry reflects the new threshold on a following cycle.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-dev.Readings():
			if r.Threshold == 500 {
				return
			}
		case <-deadline:
			t.Fatal("telemetry never reflected the new threshold")
		}
	}
}

func TestSim_StatusRequest(t *testing.T) {
	dev := NewSim(simTestConfig(), nil)

	require.NoError(t, dev.Connect())
	defer dev.Close()

	require.NoError(t, dev.RequestStatus())
	notice := waitNotice(t, dev, "STATUS - ")
	assert.Contains(t, notice, "THRESHOLD:400")
	assert.Contains(t, notice, "AUTO:ON")
}

func TestSim_ManualCommandEcho(t *testing.T) {
	dev := NewSim(simTestConfig(), nil)

	require.NoError(t, dev.Connect())
	defer dev.Close()

	require.NoError(t, dev.SetBoth(true))
	waitNotice(t, dev, "LED and buzzer manual ON")
}

func TestSim_InvalidThresholdRejectedLocally(t *testing.T) {
	dev := NewSim(simTestConfig(), nil)

	require.NoError(t, dev.Connect())
	defer dev.Close()

	assert.Error(t, dev.SetThreshold(0))
	assert.Error(t, dev.SetThreshold(2000))
}

func TestSim_Lifecycle(t *testing.T) {
	dev := NewSim(simTestConfig(), nil)

	assert.False(t, dev.IsConnected())
	assert.Error(t, dev.SetLED(true))

	require.NoError(t, dev.Connect())
	assert.Error(t, dev.Connect(), "double connect must fail")

	require.NoError(t, dev.Close())
	assert.False(t, dev.IsConnected())
	assert.NoError(t, dev.Close(), "double close is a no-op")
}
