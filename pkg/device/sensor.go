package device

import (
	"errors"
	"math"
	"time"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/config"
)

// Sensor reads the analog gas channel. Readings are raw ADC counts in
// [0, 1023].
type Sensor interface {
	Read() (int, error)
}

// SimSensor generates a synthetic gas curve: a slow ambient drift around a
// baseline, fast jitter, and a periodic "leak" that pushes the value well
// above any reasonable threshold near the end of each period.
type SimSensor struct {
	cfg   config.SimConfig
	start time.Time
	now   func() time.Time
}

// NewSimSensor creates a simulated sensor. A nil config uses the defaults.
func NewSimSensor(cfg *config.SimConfig) *SimSensor {
	if cfg == nil {
		def := config.Default().Sim
		cfg = &def
	}
	return &SimSensor{
		cfg:   *cfg,
		start: time.Now(),
		now:   time.Now,
	}
}

// Read returns the simulated gas level for the current instant.
func (s *SimSensor) Read() (int, error) {
	elapsed := s.now().Sub(s.start)
	sec := elapsed.Seconds()

	value := float64(s.cfg.Baseline)
	value += float64(s.cfg.Amplitude) * math.Sin(sec*2*math.Pi/60)
	value += float64(s.cfg.Noise) * math.Sin(sec*13.7)

	// Leak window sits at the end of each period so a fresh boot starts calm.
	period := s.cfg.LeakPeriod.Std()
	duration := s.cfg.LeakDuration.Std()
	if period > 0 && duration > 0 {
		phase := elapsed % period
		if phase >= period-duration {
			value += float64(s.cfg.LeakMagnitude)
		}
	}

	if value < 0 {
		value = 0
	} else if value > 1023 {
		value = 1023
	}

	return int(value), nil
}

// ScriptedSensor is a test double that returns scripted readings. Each call
// to Read consumes the next value; once exhausted, the last value repeats.
type ScriptedSensor struct {
	// Values contains the scripted readings in order.
	Values []int

	// ReadError, if set, is returned by every Read.
	ReadError error

	// Reads counts completed Read calls.
	Reads int

	index int
}

// NewScriptedSensor creates a ScriptedSensor with the given readings.
func NewScriptedSensor(values ...int) *ScriptedSensor {
	return &ScriptedSensor{Values: values}
}

// Read returns the next scripted reading.
func (s *ScriptedSensor) Read() (int, error) {
	if s.ReadError != nil {
		return 0, s.ReadError
	}

	if len(s.Values) == 0 {
		return 0, errors.New("no readings configured")
	}

	value := s.Values[s.index]
	if s.index < len(s.Values)-1 {
		s.index++
	}
	s.Reads++

	return value, nil
}
