package lights

import "math"

// rgbToXY16 converts an RGB colour to CIE xy chromaticity scaled to the
// 16-bit range DALI DT8 expects. Inputs may be 0–255 or already normalised
// to 0–1; values above 1 are treated as 8-bit.
func rgbToXY16(r, g, b float64) (uint16, uint16) {
	if r > 1 {
		r /= 255.0
	}
	if g > 1 {
		g /= 255.0
	}
	if b > 1 {
		b /= 255.0
	}

	r = gamma(r)
	g = gamma(g)
	b = gamma(b)

	// Wide RGB D65 matrix (Philips Hue style)
	x := r*0.649926 + g*0.103455 + b*0.197109
	y := r*0.234327 + g*0.743075 + b*0.022598
	z := r*0.0 + g*0.053077 + b*1.035763

	total := x + y + z
	var cx, cy float64
	if total != 0 {
		cx = x / total
		cy = y / total
	}

	return uint16(clamp01(cx) * 65535), uint16(clamp01(cy) * 65535)
}

func gamma(c float64) float64 {
	if c > 0.045045 {
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	return c / 12.92
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// dt8ColorTemp maps a mired value onto the controller's 16-bit DT8 colour
// temperature scale. The mapping is linear between MaxMireds and MinMireds
// and clamped, so out-of-range mireds saturate rather than wrap.
func dt8ColorTemp(mireds int) uint16 {
	normalized := (float64(mireds) - MaxMireds) / (MinMireds - MaxMireds)
	v := math.Round((1 - normalized) * 65535)
	if v < 0 {
		v = 0
	}
	if v > 65535 {
		v = 65535
	}
	return uint16(v)
}
