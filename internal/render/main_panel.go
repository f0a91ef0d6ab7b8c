package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/dannybellieveit/weather-display/internal/display"
	"github.com/dannybellieveit/weather-display/internal/weather"
)

// MainPanel renders the 240x240 screen: station label and date top
// left, daily low and high top right, the big current temperature in
// the middle with feels-like and condition beneath it, UV index and
// clock along the bottom.
type MainPanel struct {
	fonts *faceSet
	label string
}

// Render draws the frame for snap. A nil snap means no fetch has ever
// succeeded, so the panel shows a placeholder instead of invented
// digits.
func (p *MainPanel) Render(snap *weather.Snapshot, view View) *image.RGBA {
	c := newCanvas(display.Bounds(display.Main))
	if snap == nil {
		c.textCentered(p.fonts.extreme18, 120, 110, "No Data", noDataColor)
		return c.img
	}

	c.text(p.fonts.label13, 12, 21, strings.ToUpper(p.label), cityColor)
	c.text(p.fonts.date11, 12, 37, formatDate(view.Now), dateColor)

	if snap.LowC != nil {
		c.textCentered(p.fonts.extreme18, 169, 24, formatWholeTemp(*snap.LowC), lowColor)
	}
	if snap.HighC != nil {
		c.textCentered(p.fonts.extreme18, 199, 24, formatWholeTemp(*snap.HighC), highColor)
	}
	drawWifi(c, 216, 10, view.Online)

	c.textCentered(p.fonts.big64, 120, 78, formatTemp(snap.TemperatureC), tempColor(snap.TemperatureC))
	if snap.FeelsLikeC != nil {
		c.textCentered(p.fonts.feels12, 120, 148, fmt.Sprintf("Feels %.0f°", *snap.FeelsLikeC), feelsColor)
	}
	p.drawCondition(c, snap)

	if snap.UVIndex != nil {
		c.text(p.fonts.body16, 12, 220, fmt.Sprintf("UV %.0f", *snap.UVIndex), uvColor(*snap.UVIndex))
	}
	c.textCentered(p.fonts.body16, 120, 220, formatClock(view.Now), clockColor)

	return c.img
}

// drawCondition centers the icon and condition label as one group.
func (p *MainPanel) drawCondition(c *canvas, snap *weather.Snapshot) {
	const (
		iconR = 8
		gap   = 6
		topY  = 168
	)
	label := snap.Code.Label()
	textW := c.textWidth(p.fonts.body16, label)
	left := 120 - (2*iconR+gap+textW)/2
	drawConditionIcon(c, snap.Code.Icon(), left+iconR, topY+9, iconR)
	c.text(p.fonts.body16, left+2*iconR+gap, topY, label, condColor)
}
