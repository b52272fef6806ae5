package bridge

import (
	"encoding/json"

	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

type stateColor struct {
	R int  `json:"r"`
	G int  `json:"g"`
	B int  `json:"b"`
	W *int `json:"w,omitempty"`
}

// lightState is the state payload published over MQTT.
type lightState struct {
	State      string      `json:"state"`
	Brightness int         `json:"brightness"`
	Color      *stateColor `json:"color,omitempty"`
	ColorTemp  int         `json:"color_temp,omitempty"`
}

func marshalLightState(l lights.Light, s lights.State) (string, error) {
	payload := &lightState{
		Brightness: int(s.Brightness),
	}

	if s.On {
		payload.State = "ON"
	} else {
		payload.State = "OFF"
	}

	switch l.Protocol {
	case lights.ProtocolDMXRGB, lights.ProtocolDALIRGB, lights.ProtocolDALIDT8XY:
		payload.Color = &stateColor{R: int(s.RGB[0]), G: int(s.RGB[1]), B: int(s.RGB[2])}
	case lights.ProtocolDMXRGBW, lights.ProtocolDALIRGBW:
		w := int(s.RGBW[3])
		payload.Color = &stateColor{R: int(s.RGBW[0]), G: int(s.RGBW[1]), B: int(s.RGBW[2]), W: &w}
	case lights.ProtocolDALICCT:
		payload.ColorTemp = s.ColorTemp
	}

	marshalled, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(marshalled), nil
}
