package config

import (
	"fmt"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

type Controller struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

type MQTT struct {
	Broker   string `json:"broker" mapstructure:"broker"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

type LightConfig struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Address  int    `json:"address" mapstructure:"address"`
	Line     int    `json:"line" mapstructure:"line"`
	Schedule string `json:"schedule" mapstructure:"schedule"`
}

type PatternStep struct {
	Time        string `json:"time" mapstructure:"time"`
	Temperature int    `json:"temperature" mapstructure:"temperature"`
	Brightness  int    `json:"brightness" mapstructure:"brightness"`
}

type DayPattern struct {
	Name  string        `json:"name" mapstructure:"name"`
	Steps []PatternStep `json:"steps" mapstructure:"steps"`
}

type Config struct {
	Controller  Controller    `json:"controller" mapstructure:"controller"`
	MQTT        MQTT          `json:"mqtt" mapstructure:"mqtt"`
	GeoLocation string        `json:"geoLocation" mapstructure:"geoLocation"`
	Lights      []LightConfig `json:"lights" mapstructure:"lights"`
	DayPatterns []DayPattern  `json:"dayPatterns" mapstructure:"dayPatterns"`
}

// Load reads config.json from the usual locations and validates it. Lights
// without a stable id get one generated; that id should then be written back
// to the config file so the entity keeps its identity across restarts.
func Load(logger *log.Logger) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath("/etc/edidio2mqtt/")
	viper.AddConfigPath("$HOME/.config/edidio2mqtt/")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("Error reading config file: %w", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("Error parsing config file: %w", err)
	}

	if err := config.Validate(logger); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the config and fills in defaults (telnet port, DALI line 1,
// generated stable ids).
func (c *Config) Validate(logger *log.Logger) error {
	if c.Controller.Host == "" {
		return fmt.Errorf("Error validating config: controller.host is required")
	}
	if c.Controller.Port == 0 {
		c.Controller.Port = 23
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("Error validating config: mqtt.broker is required")
	}

	for i := range c.Lights {
		l := &c.Lights[i]
		if l.Name == "" {
			return fmt.Errorf("Error validating config: light %d has no name", i)
		}
		if _, err := lights.ParseProtocol(l.Protocol); err != nil {
			return fmt.Errorf("Error validating config: light %q: %w", l.Name, err)
		}
		if l.Address < 0 {
			return fmt.Errorf("Error validating config: light %q: address must not be negative", l.Name)
		}
		if l.Line == 0 {
			l.Line = 1
		}
		if l.ID == "" {
			l.ID = uuid.NewString()
			logger.Warn("Light has no stable id, generated one; add it to the config file to keep entity identity", "light", l.Name, "id", l.ID)
		}
	}

	c.warnOnChannelCollisions(logger)

	return nil
}

// warnOnChannelCollisions flags lights whose channel ranges overlap on the
// same bus. Overlaps aren't errors, multiple entities can intentionally
// drive the same gear, but they are usually a typo.
func (c *Config) warnOnChannelCollisions(logger *log.Logger) {
	for i := 0; i < len(c.Lights); i++ {
		for j := i + 1; j < len(c.Lights); j++ {
			a, b := c.Lights[i], c.Lights[j]
			pa, _ := lights.ParseProtocol(a.Protocol)
			pb, _ := lights.ParseProtocol(b.Protocol)
			if pa.IsDMX() != pb.IsDMX() {
				continue
			}
			if !pa.IsDMX() && a.Line != b.Line {
				continue
			}
			if a.Address < b.Address+pb.Channels() && b.Address < a.Address+pa.Channels() {
				logger.Warn("Lights have overlapping channel ranges", "light", a.Name, "other", b.Name)
			}
		}
	}
}

// LightDescriptors converts the validated light entries into descriptors.
func (c *Config) LightDescriptors() []lights.Light {
	descriptors := make([]lights.Light, 0, len(c.Lights))
	for _, l := range c.Lights {
		protocol, _ := lights.ParseProtocol(l.Protocol)
		descriptors = append(descriptors, lights.Light{
			Name:     l.Name,
			StableID: l.ID,
			Protocol: protocol,
			Address:  l.Address,
			Line:     l.Line,
			Schedule: l.Schedule,
		})
	}
	return descriptors
}

// ClientOptions builds the paho options for the configured broker.
func (m *MQTT) ClientOptions(logger *log.Logger, clientID string) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(m.Broker).
		SetClientID(clientID).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			logger.Warn("MQTT connection lost", "error", err)
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			logger.Info("MQTT reconnecting")
		})
}
