// Package hat drives the Waveshare triple-LCD Raspberry Pi hat: a
// 240x240 ST7789 main screen on SPI1 and two 160x80 ST7735S side
// screens sharing SPI0, each with its own reset, data/command and
// backlight line.
package hat

import (
	"fmt"
	"image"

	"go.uber.org/zap"
	"periph.io/x/host/v3"

	"github.com/dannybellieveit/weather-display/internal/display"
)

// wiring describes how one panel is attached to the Pi.
type wiring struct {
	port          string
	rst, dc, bl   string
	chip          controller
	width, height int
	xOff, yOff    int
}

// The hat's fixed pinout.
var wirings = map[display.ID]wiring{
	display.Main:  {port: "SPI1.0", rst: "GPIO27", dc: "GPIO22", bl: "GPIO19", chip: st7789, width: 240, height: 240},
	display.Left:  {port: "SPI0.0", rst: "GPIO24", dc: "GPIO4", bl: "GPIO13", chip: st7735s, width: 160, height: 80, xOff: 1, yOff: 26},
	display.Right: {port: "SPI0.1", rst: "GPIO23", dc: "GPIO5", bl: "GPIO12", chip: st7735s, width: 160, height: 80, xOff: 1, yOff: 26},
}

// Driver implements display.Driver on the hat hardware.
type Driver struct {
	panels map[display.ID]*panel
	logger *zap.Logger
}

// New initializes the host GPIO/SPI subsystems and brings up all three
// panels. A panel that fails to initialize is fatal: a partly wired hat
// is a hardware fault, not something to degrade around.
func New(logger *zap.Logger) (*Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initializing periph host: %w", err)
	}

	d := &Driver{panels: make(map[display.ID]*panel, len(wirings)), logger: logger}
	for _, id := range display.IDs {
		p, err := openPanel(id, wirings[id], logger)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("bringing up %s display: %w", id, err)
		}
		d.panels[id] = p
		logger.Info("Display initialized",
			zap.String("display", string(id)),
			zap.String("port", wirings[id].port))
	}
	return d, nil
}

// PushImage sends a full frame to one panel.
func (d *Driver) PushImage(id display.ID, frame *image.RGBA) error {
	p, ok := d.panels[id]
	if !ok {
		return fmt.Errorf("unknown display %q", id)
	}
	if got, want := frame.Bounds(), display.Bounds(id); got != want {
		return fmt.Errorf("display %s: frame bounds %v, want %v", id, got, want)
	}
	return p.push(frame)
}

// SetBacklight adjusts one panel's brightness.
func (d *Driver) SetBacklight(id display.ID, percent int) error {
	p, ok := d.panels[id]
	if !ok {
		return fmt.Errorf("unknown display %q", id)
	}
	return p.setBacklight(percent)
}

// Close blanks every panel, drops the backlights and releases the SPI
// ports.
func (d *Driver) Close() error {
	var firstErr error
	for id, p := range d.panels {
		if err := p.close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s display: %w", id, err)
		}
	}
	d.panels = nil
	return firstErr
}
