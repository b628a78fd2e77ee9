package radio

import (
	"github.com/warthog618/go-gpiocdev"

	"github.com/rs1729go/sondedecode/internal/errs"
)

// GPIOStatus drives an optional frame-sync indicator line via
// warthog618/go-gpiocdev (SPEC_FULL.md §4.10); Pulse toggles it. No
// sink, pipeline or CLI code opens a line or calls Pulse, and the
// --gpio-line value is not read. NewNoopGPIOStatus gives a status
// whose Pulse does nothing.
type GPIOStatus struct {
	line *gpiocdev.Line
}

// OpenGPIOStatus opens a GPIO output line on the named chip at the
// given offset (e.g. "gpiochip0", 17).
func OpenGPIOStatus(chip string, offset int) (*GPIOStatus, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, "gpiocdev: requesting line", err)
	}
	return &GPIOStatus{line: line}, nil
}

// NewNoopGPIOStatus returns a status indicator that does nothing.
func NewNoopGPIOStatus() *GPIOStatus { return &GPIOStatus{} }

// Pulse drives the line high briefly to indicate a frame was
// accepted; a no-op when line is nil.
func (g *GPIOStatus) Pulse() error {
	if g.line == nil {
		return nil
	}
	if err := g.line.SetValue(1); err != nil {
		return err
	}
	return g.line.SetValue(0)
}

// Close releases the GPIO line, if one was opened.
func (g *GPIOStatus) Close() error {
	if g.line == nil {
		return nil
	}
	return g.line.Close()
}
