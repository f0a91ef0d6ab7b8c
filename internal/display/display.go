// Package display defines the panel abstraction for the triple-LCD hat:
// one 240x240 main screen flanked by two 160x80 side screens. Drivers
// push fully rendered frames; nothing above this package knows about
// SPI, GPIO or controller registers.
package display

import "image"

// ID names one of the three panels.
type ID string

const (
	Main  ID = "main"
	Left  ID = "left"
	Right ID = "right"
)

// IDs lists the panels in push order.
var IDs = []ID{Main, Left, Right}

// Size reports a panel's pixel dimensions.
func Size(id ID) (width, height int) {
	if id == Main {
		return 240, 240
	}
	return 160, 80
}

// Bounds returns the rectangle a frame for the panel must cover.
func Bounds(id ID) image.Rectangle {
	w, h := Size(id)
	return image.Rect(0, 0, w, h)
}

// Driver pushes frames and controls backlights. Implementations keep
// panels independent: a failure on one panel must leave the others
// usable, so callers can degrade a single screen instead of the whole
// appliance.
type Driver interface {
	// PushImage replaces the panel's contents with frame. The frame
	// bounds must equal Bounds(id).
	PushImage(id ID, frame *image.RGBA) error

	// SetBacklight sets panel brightness as a percentage, 0 to 100.
	SetBacklight(id ID, percent int) error

	// Close blanks the panels and releases their resources.
	Close() error
}
