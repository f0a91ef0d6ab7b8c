package render

import "image/color"

// The dark palette shared by all three panels.
var (
	background  = color.RGBA{10, 10, 14, 255}
	cityColor   = color.RGBA{80, 95, 95, 255}
	dateColor   = color.RGBA{55, 55, 70, 255}
	lowColor    = color.RGBA{120, 180, 255, 255}
	highColor   = color.RGBA{255, 160, 80, 255}
	feelsColor  = color.RGBA{70, 70, 85, 255}
	condColor   = color.RGBA{200, 200, 210, 255}
	clockColor  = color.RGBA{224, 224, 224, 255}
	noDataColor = color.RGBA{80, 80, 90, 255}
	dashColor   = color.RGBA{60, 60, 70, 255}

	captionColor   = color.RGBA{50, 50, 65, 255}
	humidityColor  = color.RGBA{60, 180, 180, 255}
	windColor      = color.RGBA{160, 110, 220, 255}
	directionColor = color.RGBA{80, 80, 95, 255}
	separatorColor = color.RGBA{25, 25, 35, 255}

	sunriseText = color.RGBA{255, 190, 80, 255}
	sunsetText  = color.RGBA{255, 110, 60, 255}
	horizonCol  = color.RGBA{60, 60, 75, 255}
	sunriseSun  = color.RGBA{255, 190, 60, 255}
	sunriseRay  = color.RGBA{255, 160, 40, 255}
	sunsetSun   = color.RGBA{255, 120, 50, 255}
	sunsetRay   = color.RGBA{255, 90, 40, 255}

	wifiOn  = color.RGBA{80, 220, 120, 255}
	wifiOff = color.RGBA{180, 60, 60, 255}

	iconSun       = color.RGBA{255, 190, 60, 255}
	iconCloud     = color.RGBA{150, 155, 165, 255}
	iconFog       = color.RGBA{120, 125, 135, 255}
	iconRain      = color.RGBA{100, 160, 255, 255}
	iconSnow      = color.RGBA{220, 230, 240, 255}
	iconLightning = color.RGBA{255, 210, 80, 255}
)

// tempColor grades the big temperature from cold blue to hot red.
func tempColor(t float64) color.RGBA {
	switch {
	case t < 5:
		return color.RGBA{100, 180, 255, 255}
	case t < 12:
		return color.RGBA{60, 200, 200, 255}
	case t < 18:
		return color.RGBA{80, 220, 140, 255}
	case t < 24:
		return color.RGBA{200, 200, 100, 255}
	case t < 28:
		return color.RGBA{255, 160, 60, 255}
	default:
		return color.RGBA{255, 80, 60, 255}
	}
}

// uvColor follows the WHO UV index bands.
func uvColor(uv float64) color.RGBA {
	switch {
	case uv <= 2:
		return color.RGBA{100, 200, 100, 255}
	case uv <= 5:
		return color.RGBA{240, 200, 60, 255}
	case uv <= 7:
		return color.RGBA{255, 160, 60, 255}
	case uv <= 10:
		return color.RGBA{255, 100, 60, 255}
	default:
		return color.RGBA{200, 60, 100, 255}
	}
}
