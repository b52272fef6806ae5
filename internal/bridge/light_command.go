package bridge

import (
	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

type commandColor struct {
	R *int `json:"r"`
	G *int `json:"g"`
	B *int `json:"b"`
	W *int `json:"w"`
}

// lightCommand is a command coming in over MQTT (Home Assistant json schema).
// Pointer fields distinguish "not sent" from zero; a field that wasn't sent
// leaves the stored value alone.
type lightCommand struct {
	State      string        `json:"state"`
	Brightness *int          `json:"brightness"`
	ColorTemp  *int          `json:"color_temp"`
	Color      *commandColor `json:"color"`
}

// applyTo folds the fields present in the command into the stored state.
func (c *lightCommand) applyTo(state *lights.State) {
	if c.Brightness != nil {
		state.Brightness = clampByte(*c.Brightness)
	}
	if c.ColorTemp != nil {
		state.SetColorTemp(*c.ColorTemp)
	}
	if c.Color != nil {
		r, g, b := state.RGB[0], state.RGB[1], state.RGB[2]
		w := state.RGBW[3]
		wSent := false
		if c.Color.R != nil {
			r = clampByte(*c.Color.R)
		}
		if c.Color.G != nil {
			g = clampByte(*c.Color.G)
		}
		if c.Color.B != nil {
			b = clampByte(*c.Color.B)
		}
		if c.Color.W != nil {
			w = clampByte(*c.Color.W)
			wSent = true
		}
		if wSent {
			state.SetRGBW(r, g, b, w)
		} else {
			state.SetRGB(r, g, b)
		}
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
