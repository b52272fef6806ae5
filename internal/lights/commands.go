package lights

import (
	"errors"
	"math"

	"github.com/controlfreak/edidio2mqtt/internal/edidio"
)

// ErrUnsupportedProtocol is returned alongside the fallback command
// sequence when a light carries a protocol the generator does not know.
// Callers should log a warning and may still send the fallback.
var ErrUnsupportedProtocol = errors.New("unsupported protocol")

// fixed DMX send parameters, matching the controller defaults
const (
	dmxZone         = 0
	dmxUniverseMask = 0b0010
	dmxRepeat       = 1
	dmxFadeBy10ms   = 25
)

// TurnOnCommands translates the light's desired state into the ordered
// message sequence that produces it. Pure apart from drawing ids; the same
// state always yields the same levels.
func TurnOnCommands(l Light, s State, ids *edidio.MessageID) ([]edidio.Message, error) {
	switch l.Protocol {

	case ProtocolDMXWhite:
		return []edidio.Message{
			edidio.NewDMXMessage(ids.Next(), dmxZone, dmxUniverseMask, uint16(l.Address), dmxRepeat, []uint8{s.Brightness}, dmxFadeBy10ms),
		}, nil

	case ProtocolDMXRGB:
		levels := []uint8{
			dmxScale(s.RGB[0], s.Brightness),
			dmxScale(s.RGB[1], s.Brightness),
			dmxScale(s.RGB[2], s.Brightness),
		}
		return []edidio.Message{
			edidio.NewDMXMessage(ids.Next(), dmxZone, dmxUniverseMask, uint16(l.Address), dmxRepeat, levels, dmxFadeBy10ms),
		}, nil

	case ProtocolDMXRGBW:
		levels := []uint8{
			dmxScale(s.RGBW[0], s.Brightness),
			dmxScale(s.RGBW[1], s.Brightness),
			dmxScale(s.RGBW[2], s.Brightness),
			dmxScale(s.RGBW[3], s.Brightness),
		}
		return []edidio.Message{
			edidio.NewDMXMessage(ids.Next(), dmxZone, dmxUniverseMask, uint16(l.Address), dmxRepeat, levels, dmxFadeBy10ms),
		}, nil

	case ProtocolDALIWhite:
		return []edidio.Message{
			arcLevel(l, uint8(l.Address), daliArc(s.Brightness), ids),
		}, nil

	case ProtocolDALIRGB:
		msgs := make([]edidio.Message, 0, 3)
		for i := 0; i < 3; i++ {
			msgs = append(msgs, arcLevel(l, uint8(l.Address+i), daliChannel(s.RGB[i], s.Brightness), ids))
		}
		return msgs, nil

	case ProtocolDALIRGBW:
		msgs := make([]edidio.Message, 0, 4)
		for i := 0; i < 4; i++ {
			msgs = append(msgs, arcLevel(l, uint8(l.Address+i), daliChannel(s.RGBW[i], s.Brightness), ids))
		}
		return msgs, nil

	case ProtocolDALIDT8XY:
		x16, y16 := rgbToXY16(float64(s.RGB[0]), float64(s.RGB[1]), float64(s.RGB[2]))
		return []edidio.Message{
			edidio.NewDALIType8Message(ids.Next(), uint8(l.Line), uint8(l.Address), edidio.Type8SetTempXCoord, []uint8{uint8(x16 & 0xff), uint8(x16 >> 8)}),
			edidio.NewDALIType8Message(ids.Next(), uint8(l.Line), uint8(l.Address), edidio.Type8SetTempYCoord, []uint8{uint8(y16 & 0xff), uint8(y16 >> 8)}),
			arcLevel(l, uint8(l.Address), daliArc(s.Brightness), ids),
			edidio.NewDALIType8Message(ids.Next(), uint8(l.Line), uint8(l.Address), edidio.Type8Activate, nil),
		}, nil

	case ProtocolDALICCT:
		v := dt8ColorTemp(s.ColorTemp)
		return []edidio.Message{
			edidio.NewDALIType8Message(ids.Next(), uint8(l.Line), uint8(l.Address), edidio.Type8SetTempColourTemp, []uint8{uint8(v & 0xff), uint8(v >> 8)}),
			arcLevel(l, uint8(l.Address), daliArc(s.Brightness), ids),
			edidio.NewDALIType8Message(ids.Next(), uint8(l.Line), uint8(l.Address), edidio.Type8Activate, nil),
		}, nil

	default:
		// unknown protocols behave like dali_white so the command still
		// lands, the caller surfaces the warning
		return []edidio.Message{
			arcLevel(l, uint8(l.Address), daliArc(s.Brightness), ids),
		}, ErrUnsupportedProtocol
	}
}

// TurnOffCommands produces the sequence driving every channel the light
// occupies to zero.
func TurnOffCommands(l Light, ids *edidio.MessageID) ([]edidio.Message, error) {
	switch l.Protocol {

	case ProtocolDMXWhite, ProtocolDMXRGB, ProtocolDMXRGBW:
		levels := make([]uint8, l.Protocol.Channels())
		return []edidio.Message{
			edidio.NewDMXMessage(ids.Next(), dmxZone, dmxUniverseMask, uint16(l.Address), dmxRepeat, levels, dmxFadeBy10ms),
		}, nil

	case ProtocolDALIWhite, ProtocolDALIDT8XY, ProtocolDALICCT:
		return []edidio.Message{arcLevel(l, uint8(l.Address), 0, ids)}, nil

	case ProtocolDALIRGB, ProtocolDALIRGBW:
		msgs := make([]edidio.Message, 0, l.Protocol.Channels())
		for i := 0; i < l.Protocol.Channels(); i++ {
			msgs = append(msgs, arcLevel(l, uint8(l.Address+i), 0, ids))
		}
		return msgs, nil

	default:
		return []edidio.Message{arcLevel(l, uint8(l.Address), 0, ids)}, ErrUnsupportedProtocol
	}
}

func arcLevel(l Light, address uint8, level uint8, ids *edidio.MessageID) edidio.Message {
	return edidio.NewDALIMessage(ids.Next(), uint8(l.Line), address, edidio.DALIArcLevel, []uint8{level})
}

// daliArc maps 0–255 brightness onto the 0–254 DALI arc scale.
func daliArc(brightness uint8) uint8 {
	return uint8(math.Round(float64(brightness) / 255.0 * edidio.DALIArcLevelMax))
}

// daliChannel applies master brightness to a colour channel and rescales to
// the DALI arc range in one rounding step.
func daliChannel(channel uint8, brightness uint8) uint8 {
	v := math.Round(float64(channel) * float64(brightness) / 255.0 * edidio.DALIArcLevelMax / 255.0)
	if v > edidio.DALIArcLevelMax {
		v = edidio.DALIArcLevelMax
	}
	return uint8(v)
}

// dmxScale applies master brightness to a DMX channel. The conversion
// truncates, matching the controller's dimming curve.
func dmxScale(channel uint8, brightness uint8) uint8 {
	return uint8(float64(channel) * float64(brightness) / 255.0)
}
