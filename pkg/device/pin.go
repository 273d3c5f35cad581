package device

import "go.uber.org/zap"

// Pin is a single digital output. The loop level-sets both actuator pins
// every cycle, changed or not, so implementations must tolerate redundant
// writes.
type Pin interface {
	Set(on bool) error
}

// MemPin is an in-memory output used by the simulator and by tests. It
// records the current level and how many times the level actually changed.
type MemPin struct {
	// On is the current level.
	On bool
	// Transitions counts level changes (not writes).
	Transitions int
	// Writes counts Set calls.
	Writes int
	// SetError, if set, is returned by every Set.
	SetError error
}

// Set applies the level.
func (p *MemPin) Set(on bool) error {
	if p.SetError != nil {
		return p.SetError
	}
	p.Writes++
	if p.On != on {
		p.Transitions++
		p.On = on
	}
	return nil
}

// LogPin is an output that only logs level transitions. It stands in for
// real hardware when the device runs without GPIO.
type LogPin struct {
	name string
	log  *zap.SugaredLogger
	on   bool
	set  bool
}

// NewLogPin creates a logging output with the given name.
func NewLogPin(name string, log *zap.SugaredLogger) *LogPin {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LogPin{name: name, log: log}
}

// Set applies the level, logging only transitions to keep the log quiet at
// the 1 Hz write cadence.
func (p *LogPin) Set(on bool) error {
	if p.set && p.on == on {
		return nil
	}
	p.set = true
	p.on = on
	if on {
		p.log.Infof("%s ON", p.name)
	} else {
		p.log.Infof("%s OFF", p.name)
	}
	return nil
}
