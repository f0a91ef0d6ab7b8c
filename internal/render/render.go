// Package render turns a weather snapshot into the three panel frames.
// Rendering is pure: the same snapshot, clock reading and online flag
// always produce identical pixels, so tests compare frames byte for
// byte. Optional readings that are missing simply leave their element
// off the frame; captions and separators stay.
package render

import (
	"fmt"
	"image"
	"time"

	"github.com/dannybellieveit/weather-display/internal/display"
	"github.com/dannybellieveit/weather-display/internal/weather"
)

// View carries the per-frame context that is not part of the snapshot:
// the clock reading shown on the main panel and whether the last fetch
// succeeded, which drives the connectivity indicator.
type View struct {
	Now    time.Time
	Online bool
}

// Set bundles the three panel renderers built over one shared face set.
type Set struct {
	Main  *MainPanel
	Left  *LeftPanel
	Right *RightPanel
}

// NewSet builds the renderers for a station labeled name.
func NewSet(name string) (*Set, error) {
	fonts, err := newFaceSet()
	if err != nil {
		return nil, fmt.Errorf("loading fonts: %w", err)
	}
	return &Set{
		Main:  &MainPanel{fonts: fonts, label: name},
		Left:  &LeftPanel{fonts: fonts},
		Right: &RightPanel{fonts: fonts},
	}, nil
}

// sidePlaceholder draws the no-data frame for a side panel.
func sidePlaceholder(fonts *faceSet) *image.RGBA {
	c := newCanvas(display.Bounds(display.Left))
	c.text(fonts.small14, 60, 32, "--", dashColor)
	return c.img
}

func formatTemp(t float64) string {
	return fmt.Sprintf("%.1f°", t)
}

func formatWholeTemp(t float64) string {
	return fmt.Sprintf("%.0f°", t)
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}

func formatDate(t time.Time) string {
	return t.Format("Mon 02 Jan")
}

// directionLine builds the caption under the wind value. Both parts are
// optional: the compass point needs a direction reading and the unit
// only makes sense once there is a speed.
func directionLine(snap *weather.Snapshot) string {
	switch {
	case snap.WindDirectionDeg != nil:
		return weather.CompassPoint(*snap.WindDirectionDeg) + " km/h"
	case snap.WindSpeedKmh != nil:
		return "km/h"
	default:
		return ""
	}
}
