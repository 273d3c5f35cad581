//go:build !linux

package device

import "errors"

// GPIOPin is not available on non-Linux platforms.
type GPIOPin struct{}

// NewGPIOPin returns an error on non-Linux platforms.
func NewGPIOPin(chipName string, pin int) (*GPIOPin, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (p *GPIOPin) Set(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *GPIOPin) Close() error {
	return nil
}
