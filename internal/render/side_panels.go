package render

import (
	"fmt"
	"image"

	"github.com/dannybellieveit/weather-display/internal/display"
	"github.com/dannybellieveit/weather-display/internal/weather"
)

// LeftPanel renders the 160x80 humidity and wind screen.
type LeftPanel struct {
	fonts *faceSet
}

func (p *LeftPanel) Render(snap *weather.Snapshot, view View) *image.RGBA {
	if snap == nil {
		return sidePlaceholder(p.fonts)
	}
	c := newCanvas(display.Bounds(display.Left))

	c.text(p.fonts.caption10, 8, 8, "HUM", captionColor)
	if snap.HumidityPct != nil {
		c.textCentered(p.fonts.value28, 40, 28, fmt.Sprintf("%.0f%%", *snap.HumidityPct), humidityColor)
	}

	c.line(80, 10, 80, 70, 1, separatorColor)

	c.text(p.fonts.caption10, 88, 8, "WIND", captionColor)
	if snap.WindSpeedKmh != nil {
		c.textCentered(p.fonts.value28, 120, 28, fmt.Sprintf("%.0f", *snap.WindSpeedKmh), windColor)
	}
	if line := directionLine(snap); line != "" {
		c.textCentered(p.fonts.caption10, 120, 58, line, directionColor)
	}

	return c.img
}

// RightPanel renders the 160x80 sun times screen.
type RightPanel struct {
	fonts *faceSet
}

func (p *RightPanel) Render(snap *weather.Snapshot, view View) *image.RGBA {
	if snap == nil {
		return sidePlaceholder(p.fonts)
	}
	c := newCanvas(display.Bounds(display.Right))

	if !snap.Sunrise.IsZero() {
		drawSunrise(c, 40, 28, 14)
		c.textCentered(p.fonts.small14, 40, 50, formatClock(snap.Sunrise), sunriseText)
	}

	c.line(80, 10, 80, 70, 1, separatorColor)

	if !snap.Sunset.IsZero() {
		drawSunset(c, 120, 28, 14)
		c.textCentered(p.fonts.small14, 120, 50, formatClock(snap.Sunset), sunsetText)
	}

	return c.img
}
