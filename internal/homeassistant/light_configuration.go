package homeassistant

import (
	"fmt"
	"strings"

	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

// LightConfiguration is the discovery payload that registers a light with
// Home Assistant over MQTT.
type LightConfiguration struct {
	ConfigTopic string `json:"-"`

	Name                string   `json:"name"`
	UniqueID            string   `json:"unique_id"`
	CommandTopic        string   `json:"command_topic"`
	StateTopic          string   `json:"state_topic"`
	AvailabilityTopic   string   `json:"availability_topic"`
	Schema              string   `json:"schema"`
	Brightness          bool     `json:"brightness"`
	SupportedColorModes []string `json:"supported_color_modes,omitempty"`
	MinMireds           int      `json:"min_mireds,omitempty"`
	MaxMireds           int      `json:"max_mireds,omitempty"`
}

func NewLightConfiguration(l lights.Light) *LightConfiguration {
	entityID := strings.Replace(strings.ToLower(l.Name), " ", "_", -1)

	config := &LightConfiguration{
		ConfigTopic:       fmt.Sprintf("homeassistant/light/%v/config", entityID),
		Name:              l.Name,
		UniqueID:          fmt.Sprintf("edidio_%v", l.StableID),
		CommandTopic:      fmt.Sprintf("edidio2mqtt/light/%v/set", entityID),
		StateTopic:        fmt.Sprintf("edidio2mqtt/light/%v/state", entityID),
		AvailabilityTopic: fmt.Sprintf("edidio2mqtt/light/%v/availability", entityID),
		Schema:            "json",
		Brightness:        true,
	}

	switch l.Protocol {
	case lights.ProtocolDMXRGB, lights.ProtocolDALIRGB, lights.ProtocolDALIDT8XY:
		config.SupportedColorModes = []string{"rgb"}
	case lights.ProtocolDMXRGBW, lights.ProtocolDALIRGBW:
		config.SupportedColorModes = []string{"rgbw"}
	case lights.ProtocolDALICCT:
		config.SupportedColorModes = []string{"color_temp"}
		config.MinMireds = lights.MinMireds
		config.MaxMireds = lights.MaxMireds
	default:
		config.SupportedColorModes = []string{"brightness"}
	}

	return config
}
