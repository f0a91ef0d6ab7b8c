package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// canvas wraps one panel frame with the small set of raster primitives
// the layouts need. Coordinates are top-left origin, y down. Arc angles
// run clockwise from 3 o'clock, so 90 is straight down and 270 straight
// up.
type canvas struct {
	img *image.RGBA
}

func newCanvas(bounds image.Rectangle) *canvas {
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(background), image.Point{}, draw.Src)
	return &canvas{img: img}
}

func (c *canvas) set(x, y int, col color.RGBA) {
	if (image.Point{X: x, Y: y}).In(c.img.Bounds()) {
		c.img.SetRGBA(x, y, col)
	}
}

// text draws s with its top-left corner at (x, y).
func (c *canvas) text(face font.Face, x, y int, s string, col color.RGBA) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// textCentered draws s horizontally centered on cx with its top at y.
func (c *canvas) textCentered(face font.Face, cx, y int, s string, col color.RGBA) {
	w := font.MeasureString(face, s).Ceil()
	c.text(face, cx-w/2, y, s, col)
}

func (c *canvas) textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// line draws from (x0, y0) to (x1, y1). width greater than one thickens
// the stroke into a square pen of that size.
func (c *canvas) line(x0, y0, x1, y1, width int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if width <= 1 {
			c.set(x, y, col)
		} else {
			for oy := 0; oy < width; oy++ {
				for ox := 0; ox < width; ox++ {
					c.set(x+ox-width/2, y+oy-width/2, col)
				}
			}
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// disc fills a circle of radius r centered at (cx, cy).
func (c *canvas) disc(cx, cy, r int, col color.RGBA) {
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= rr {
				c.set(cx+dx, cy+dy, col)
			}
		}
	}
}

// fillArc fills the pie slice of radius r between start and end degrees.
func (c *canvas) fillArc(cx, cy, r int, start, end float64, col color.RGBA) {
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > rr {
				continue
			}
			if angleWithin(pixelAngle(dx, dy), start, end) {
				c.set(cx+dx, cy+dy, col)
			}
		}
	}
}

// strokeArc draws the rim of a circle between start and end degrees,
// width pixels thick measured radially inward.
func (c *canvas) strokeArc(cx, cy, r int, start, end float64, width int, col color.RGBA) {
	outer := r * r
	in := r - width
	inner := in * in
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > outer || d2 <= inner {
				continue
			}
			if angleWithin(pixelAngle(dx, dy), start, end) {
				c.set(cx+dx, cy+dy, col)
			}
		}
	}
}

func pixelAngle(dx, dy int) float64 {
	deg := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// angleWithin reports whether deg lies in the clockwise sweep from
// start to end; an end at or before start wraps past 360.
func angleWithin(deg, start, end float64) bool {
	if end <= start {
		end += 360
	}
	if deg < start {
		deg += 360
	}
	return deg <= end
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
