package render

import (
	"image/color"
	"math"

	"github.com/dannybellieveit/weather-display/internal/weather"
)

// drawWifi draws the connectivity indicator: a dot with two arcs fanned
// above it, green when online and red when the last fetch failed.
func drawWifi(c *canvas, x, y int, online bool) {
	col := wifiOn
	if !online {
		col = wifiOff
	}
	c.disc(x+6, y+11, 2, col)
	c.strokeArc(x+6, y+9, 5, 210, 330, 2, col)
	c.strokeArc(x+6, y+8, 8, 210, 330, 2, col)
}

// drawSunrise draws a half sun sitting on the horizon with rays fanned
// over the top.
func drawSunrise(c *canvas, cx, cy, r int) {
	c.line(cx-r-6, cy, cx+r+6, cy, 1, horizonCol)
	c.fillArc(cx, cy, r, 180, 0, sunriseSun)
	for _, angle := range []float64{150, 120, 90, 60, 30} {
		drawRay(c, cx, cy, angle, r+2, r+2, 5, sunriseRay)
	}
}

// drawSunset draws the sun sunk below the horizon with shorter,
// flattened rays.
func drawSunset(c *canvas, cx, cy, r int) {
	c.line(cx-r-6, cy, cx+r+6, cy, 1, horizonCol)
	c.fillArc(cx, cy+4, r, 200, 340, sunsetSun)
	for _, angle := range []float64{140, 110, 70, 40} {
		drawRay(c, cx, cy, angle, r, r-2, 4, sunsetRay)
	}
}

// drawRay draws one sun ray of the given length starting at radius rx
// horizontally and ry vertically, at angle degrees above the horizon.
func drawRay(c *canvas, cx, cy int, angle float64, rx, ry, length int, col color.RGBA) {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	x1 := cx + int(float64(rx)*cos)
	y1 := cy - int(float64(ry)*sin)
	x2 := cx + int(float64(rx+length)*cos)
	y2 := cy - int(float64(ry+length)*sin)
	c.line(x1, y1, x2, y2, 2, col)
}

// drawConditionIcon draws the small glyph next to the condition text on
// the main panel, centered at (cx, cy) in a box of roughly 2r pixels.
func drawConditionIcon(c *canvas, kind weather.IconKind, cx, cy, r int) {
	switch kind {
	case weather.IconClear:
		sunGlyph(c, cx, cy, r)
	case weather.IconPartly:
		sunGlyph(c, cx-r/2, cy-r/2, r*2/3)
		cloudGlyph(c, cx+1, cy+2, r-1, iconCloud)
	case weather.IconCloud:
		cloudGlyph(c, cx, cy, r, iconCloud)
	case weather.IconFog:
		for i := -1; i <= 1; i++ {
			c.line(cx-r, cy+i*4, cx+r, cy+i*4, 2, iconFog)
		}
	case weather.IconRain:
		cloudGlyph(c, cx, cy-2, r-1, iconCloud)
		for i := -1; i <= 1; i++ {
			x := cx + i*(r/2+1)
			c.line(x+1, cy+r/2, x-1, cy+r, 2, iconRain)
		}
	case weather.IconSnow:
		cloudGlyph(c, cx, cy-2, r-1, iconCloud)
		for i := -1; i <= 1; i++ {
			c.disc(cx+i*(r/2+1), cy+r-1, 1, iconSnow)
		}
	case weather.IconStorm:
		cloudGlyph(c, cx, cy-2, r-1, iconCloud)
		c.line(cx+1, cy, cx-2, cy+r/2+1, 2, iconLightning)
		c.line(cx-2, cy+r/2+1, cx+2, cy+r/2+1, 2, iconLightning)
		c.line(cx+2, cy+r/2+1, cx-1, cy+r+1, 2, iconLightning)
	}
}

func sunGlyph(c *canvas, cx, cy, r int) {
	c.disc(cx, cy, r-2, iconSun)
	for angle := 0.0; angle < 360; angle += 45 {
		rad := angle * math.Pi / 180
		x1 := cx + int(float64(r)*math.Cos(rad))
		y1 := cy + int(float64(r)*math.Sin(rad))
		x2 := cx + int(float64(r+2)*math.Cos(rad))
		y2 := cy + int(float64(r+2)*math.Sin(rad))
		c.line(x1, y1, x2, y2, 1, iconSun)
	}
}

func cloudGlyph(c *canvas, cx, cy, r int, col color.RGBA) {
	c.disc(cx-r/2, cy+1, r/2+1, col)
	c.disc(cx, cy-r/3, r/2+2, col)
	c.disc(cx+r/2, cy+1, r/2, col)
	for y := cy; y <= cy+r/2+1; y++ {
		c.line(cx-r/2, y, cx+r/2, y, 1, col)
	}
}
