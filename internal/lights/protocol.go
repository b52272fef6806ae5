package lights

import "fmt"

// Protocol selects how a light's state is translated into controller
// messages. The set is closed; a light's protocol never changes after
// construction.
type Protocol string

const (
	ProtocolDMXWhite  Protocol = "dmx_white"
	ProtocolDMXRGB    Protocol = "dmx_rgb"
	ProtocolDMXRGBW   Protocol = "dmx_rgbw"
	ProtocolDALIWhite Protocol = "dali_white"
	ProtocolDALIRGB   Protocol = "dali_rgb"
	ProtocolDALIRGBW  Protocol = "dali_rgbw"
	ProtocolDALIDT8XY Protocol = "dali_dt8_xy"
	ProtocolDALICCT   Protocol = "dali_dt8_cct"
)

var allProtocols = []Protocol{
	ProtocolDMXWhite,
	ProtocolDMXRGB,
	ProtocolDMXRGBW,
	ProtocolDALIWhite,
	ProtocolDALIRGB,
	ProtocolDALIRGBW,
	ProtocolDALIDT8XY,
	ProtocolDALICCT,
}

// ParseProtocol validates a config string against the known protocols.
func ParseProtocol(s string) (Protocol, error) {
	for _, p := range allProtocols {
		if s == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown protocol %q", s)
}

// Channels returns how many consecutive channels/addresses the protocol
// consumes starting at the light's base address.
func (p Protocol) Channels() int {
	switch p {
	case ProtocolDMXRGB, ProtocolDALIRGB:
		return 3
	case ProtocolDMXRGBW, ProtocolDALIRGBW:
		return 4
	default:
		return 1
	}
}

// IsDMX reports whether the protocol addresses a DMX universe rather than a
// DALI line.
func (p Protocol) IsDMX() bool {
	switch p {
	case ProtocolDMXWhite, ProtocolDMXRGB, ProtocolDMXRGBW:
		return true
	}
	return false
}
