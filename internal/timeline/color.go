package timeline

const (
	// Slots younger than this keep their base color.
	ageFullColorSeconds = 35.0
	// Slots at least this old render gray.
	ageGraySeconds = 55.0
)

// Color classifies one slot on the clock face.
type Color int

const (
	ColorGray Color = iota
	ColorGreen
	ColorYellow
	ColorOrange
	ColorRed
)

var colorNames = map[Color]string{
	ColorGray:   "gray",
	ColorGreen:  "green",
	ColorYellow: "yellow",
	ColorOrange: "orange",
	ColorRed:    "red",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "gray"
}

// RGB is a display color handed to the rendering collaborators.
type RGB struct {
	R, G, B uint8
}

var (
	rgbGray   = RGB{160, 160, 160}
	rgbGreen  = RGB{0, 255, 0}
	rgbYellow = RGB{255, 255, 0}
	rgbOrange = RGB{255, 165, 0}
	rgbRed    = RGB{255, 0, 0}
)

// RGB returns the base display color.
func (c Color) RGB() RGB {
	switch c {
	case ColorGreen:
		return rgbGreen
	case ColorYellow:
		return rgbYellow
	case ColorOrange:
		return rgbOrange
	case ColorRed:
		return rgbRed
	default:
		return rgbGray
	}
}

// AgedRGB fades the base color toward gray as the slot ages: full color up
// to 35s, gray from 55s, linear per-channel blend in between. Pure function
// of elapsed time and base color.
func (c Color) AgedRGB(elapsedSeconds float64) RGB {
	if elapsedSeconds >= ageGraySeconds {
		return rgbGray
	}
	base := c.RGB()
	if elapsedSeconds <= ageFullColorSeconds {
		return base
	}

	fadeRange := ageGraySeconds - ageFullColorSeconds
	factor := 1.0 - (elapsedSeconds-ageFullColorSeconds)/fadeRange
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return blend(base, rgbGray, factor)
}

// blend mixes color1 into color2 by factor (1.0 is all color1).
func blend(color1, color2 RGB, factor float64) RGB {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*factor + float64(b)*(1.0-factor))
	}
	return RGB{
		R: mix(color1.R, color2.R),
		G: mix(color1.G, color2.G),
		B: mix(color1.B, color2.B),
	}
}
