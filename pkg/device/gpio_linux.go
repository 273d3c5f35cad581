//go:build linux

package device

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOPin drives a real output line through the Linux GPIO character device.
type GPIOPin struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewGPIOPin requests the given line on the given chip as an output,
// initially low.
func NewGPIOPin(chipName string, pin int) (*GPIOPin, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request output pin %d: %w", pin, err)
	}

	return &GPIOPin{chip: chip, line: line}, nil
}

// Set applies the level.
func (p *GPIOPin) Set(on bool) error {
	value := 0
	if on {
		value = 1
	}
	if err := p.line.SetValue(value); err != nil {
		return fmt.Errorf("set pin value: %w", err)
	}
	return nil
}

// Close drives the line low and releases GPIO resources.
func (p *GPIOPin) Close() error {
	var errs []error

	if p.line != nil {
		if err := p.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear pin: %w", err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
