package lights

// colour temperature bounds for dali_dt8_cct lights, in mireds
// (153 ≈ 6500K, 500 = 2000K)
const (
	MinMireds = 153
	MaxMireds = 500
)

// Light is the immutable descriptor of a configured light. Changing the
// protocol or address means building a new Light from config, never mutating
// one in place.
type Light struct {
	Name string
	// StableID is assigned once when the light is first configured and
	// survives restarts; entity identity in Home Assistant derives from it.
	StableID string
	Protocol Protocol
	// Address is the base DALI short address or DMX channel. Multi-channel
	// protocols consume Address..Address+Channels()-1.
	Address int
	// Line is the DALI line mask, ignored for DMX protocols.
	Line int
	// Schedule optionally names a day pattern driving this light.
	Schedule string
}

// State is the desired output of a light. It is owned by the bridge handler
// for that light and is only read by command generation.
type State struct {
	On         bool
	Brightness uint8
	RGB        [3]uint8
	RGBW       [4]uint8
	// ColorTemp is in mireds and only meaningful for dali_dt8_cct.
	ColorTemp int
}

// NewState returns the initial state for a freshly configured light.
func NewState() State {
	return State{
		Brightness: 255,
		RGB:        [3]uint8{255, 255, 255},
		RGBW:       [4]uint8{255, 255, 255, 255},
		ColorTemp:  370,
	}
}

// SetRGB updates the colour, keeping the RGBW white channel as-is so a
// white level chosen earlier survives an RGB-only command.
func (s *State) SetRGB(r, g, b uint8) {
	s.RGB = [3]uint8{r, g, b}
	s.RGBW[0], s.RGBW[1], s.RGBW[2] = r, g, b
}

// SetRGBW updates the full colour and keeps the RGB view in sync.
func (s *State) SetRGBW(r, g, b, w uint8) {
	s.RGBW = [4]uint8{r, g, b, w}
	s.RGB = [3]uint8{r, g, b}
}

// SetColorTemp clamps the requested mired value into the supported range.
func (s *State) SetColorTemp(mireds int) {
	if mireds < MinMireds {
		mireds = MinMireds
	}
	if mireds > MaxMireds {
		mireds = MaxMireds
	}
	s.ColorTemp = mireds
}
