package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_rgbToXY16(t *testing.T) {

	t.Run("should accept 8-bit and normalised inputs interchangeably", func(t *testing.T) {
		x8, y8 := rgbToXY16(255, 0, 0)
		x1, y1 := rgbToXY16(1, 0, 0)

		assert.Equal(t, x8, x1)
		assert.Equal(t, y8, y1)
	})

	t.Run("black should map to the origin instead of dividing by zero", func(t *testing.T) {
		x, y := rgbToXY16(0, 0, 0)

		assert.Equal(t, uint16(0), x)
		assert.Equal(t, uint16(0), y)
	})

	t.Run("red should land in the red corner of the gamut", func(t *testing.T) {
		x, y := rgbToXY16(255, 0, 0)

		assert.InDelta(t, 0.735, float64(x)/65535.0, 0.001)
		assert.InDelta(t, 0.265, float64(y)/65535.0, 0.001)
	})

	t.Run("white should be near the D65 point", func(t *testing.T) {
		x, y := rgbToXY16(255, 255, 255)

		assert.InDelta(t, 0.3127, float64(x)/65535.0, 0.01)
		assert.InDelta(t, 0.3290, float64(y)/65535.0, 0.01)
	})
}

func Test_dt8ColorTemp(t *testing.T) {

	t.Run("should hit both endpoints of the scale", func(t *testing.T) {
		assert.Equal(t, uint16(0), dt8ColorTemp(MinMireds))
		assert.Equal(t, uint16(65535), dt8ColorTemp(MaxMireds))
	})

	t.Run("should increase with warmth", func(t *testing.T) {
		prev := dt8ColorTemp(MinMireds)
		for m := MinMireds + 50; m <= MaxMireds; m += 50 {
			v := dt8ColorTemp(m)
			assert.Greater(t, v, prev)
			prev = v
		}
	})

	t.Run("out of range mireds should saturate", func(t *testing.T) {
		assert.Equal(t, uint16(0), dt8ColorTemp(100))
		assert.Equal(t, uint16(65535), dt8ColorTemp(600))
	})
}

func Test_State(t *testing.T) {

	t.Run("SetRGB should preserve the white channel", func(t *testing.T) {
		s := NewState()
		s.SetRGBW(1, 2, 3, 99)

		s.SetRGB(10, 20, 30)

		assert.Equal(t, [4]uint8{10, 20, 30, 99}, s.RGBW)
		assert.Equal(t, [3]uint8{10, 20, 30}, s.RGB)
	})

	t.Run("SetColorTemp should clamp to the supported range", func(t *testing.T) {
		s := NewState()

		s.SetColorTemp(100)
		assert.Equal(t, MinMireds, s.ColorTemp)

		s.SetColorTemp(9999)
		assert.Equal(t, MaxMireds, s.ColorTemp)
	})
}
