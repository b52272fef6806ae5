package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/samber/lo"

	"github.com/controlfreak/edidio2mqtt/internal/edidio"
	"github.com/controlfreak/edidio2mqtt/internal/homeassistant"
	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

const sendTimeout = 5 * time.Second

type stateRepo interface {
	Save(stableID string, state lights.State) error
	Get(stableID string) (lights.State, bool, error)
}

// Bridge exposes the configured lights to Home Assistant over MQTT and turns
// incoming commands into controller message sequences.
type Bridge struct {
	logger *log.Logger
	client edidio.Client
	repo   stateRepo
	ids    *edidio.MessageID

	entries []*entry
}

// entry pairs a light with its bridge-owned state. The mutex serialises
// command handling per light; different lights may send concurrently.
type entry struct {
	light  lights.Light
	config *homeassistant.LightConfiguration

	mu        sync.Mutex
	state     lights.State
	available bool
}

func New(logger *log.Logger, client edidio.Client, repo stateRepo, ids *edidio.MessageID, descriptors []lights.Light) *Bridge {
	entries := make([]*entry, 0, len(descriptors))
	for _, l := range descriptors {
		e := &entry{
			light:  l,
			config: homeassistant.NewLightConfiguration(l),
			state:  lights.NewState(),
		}

		// restore the last known state, the controller can't tell us
		if saved, found, err := repo.Get(l.StableID); err != nil {
			logger.Warn("Could not restore light state", "light", l.Name, "error", err)
		} else if found {
			e.state = saved
		}

		entries = append(entries, e)
	}

	return &Bridge{logger: logger, client: client, repo: repo, ids: ids, entries: entries}
}

// SetupLights registers every light with Home Assistant and subscribes to
// its command topic.
func (b *Bridge) SetupLights(mqttClient mqtt.Client) error {
	for _, e := range b.entries {
		e := e

		configJSON, err := json.Marshal(e.config)
		if err != nil {
			return fmt.Errorf("Error marshalling discovery config for light (%s): %w", e.light.Name, err)
		}
		if t := mqttClient.Publish(e.config.ConfigTopic, 0, true, string(configJSON)); t.Wait() && t.Error() != nil {
			return fmt.Errorf("Error publishing discovery config for light (%s): %w", e.light.Name, t.Error())
		}
		b.logger.Info("Registered light with Home Assistant", "light", e.light.Name, "protocol", e.light.Protocol)

		if t := mqttClient.Subscribe(e.config.CommandTopic, 0, func(mqttClient mqtt.Client, msg mqtt.Message) {
			b.handleCommand(mqttClient, e, msg.Payload())
		}); t.Wait() && t.Error() != nil {
			return fmt.Errorf("Error subscribing to commands for light (%s): %w", e.light.Name, t.Error())
		}

		e.mu.Lock()
		e.available = b.client.Connected()
		b.publishAvailabilityLocked(mqttClient, e)
		b.publishStateLocked(mqttClient, e)
		e.mu.Unlock()
	}

	return nil
}

func (b *Bridge) handleCommand(mqttClient mqtt.Client, e *entry, payload []byte) {
	cmd := &lightCommand{}
	if err := json.Unmarshal(payload, cmd); err != nil {
		b.logger.Error("Could not parse light command", "light", e.light.Name, "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cmd.applyTo(&e.state)

	var (
		msgs   []edidio.Message
		genErr error
	)
	if cmd.State == "ON" {
		// turning on a light that was faded to nothing means full on
		if e.state.Brightness == 0 {
			e.state.Brightness = 255
		}
		msgs, genErr = lights.TurnOnCommands(e.light, e.state, b.ids)
	} else {
		msgs, genErr = lights.TurnOffCommands(e.light, b.ids)
	}

	if errors.Is(genErr, lights.ErrUnsupportedProtocol) {
		b.logger.Warn("Light has an unsupported protocol, falling back to dali_white behaviour", "light", e.light.Name, "protocol", e.light.Protocol)
	}

	if err := b.sendSequence(msgs); err != nil {
		b.logger.Error("Could not send command sequence", "light", e.light.Name, "error", err)
		e.available = false
		b.publishAvailabilityLocked(mqttClient, e)
		return
	}

	if cmd.State == "ON" {
		e.state.On = true
	} else {
		e.state.On = false
		e.state.Brightness = 0
	}
	e.available = true
	b.publishAvailabilityLocked(mqttClient, e)

	if err := b.repo.Save(e.light.StableID, e.state); err != nil {
		b.logger.Warn("Could not persist light state", "light", e.light.Name, "error", err)
	}

	b.publishStateLocked(mqttClient, e)
}

func (b *Bridge) sendSequence(msgs []edidio.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	return b.client.SendSequence(ctx, msgs)
}

// RefreshAvailability republishes each light's availability from the current
// transport state. It never sends anything to the controller.
func (b *Bridge) RefreshAvailability(mqttClient mqtt.Client) {
	connected := b.client.Connected()
	for _, e := range b.entries {
		e.mu.Lock()
		if e.available != connected {
			e.available = connected
			b.publishAvailabilityLocked(mqttClient, e)
		}
		e.mu.Unlock()
	}
}

// ScheduledLights returns the stable ids of lights driven by a day pattern.
// Only tunable white lights follow schedules.
func (b *Bridge) ScheduledLights() []string {
	scheduled := lo.Filter(b.entries, func(e *entry, _ int) bool {
		return e.light.Schedule != "" && e.light.Protocol == lights.ProtocolDALICCT
	})
	return lo.Map(scheduled, func(e *entry, _ int) string { return e.light.StableID })
}

// SchedulePattern returns the day pattern name for a scheduled light.
func (b *Bridge) SchedulePattern(stableID string) string {
	e, found := b.findEntry(stableID)
	if !found {
		return ""
	}
	return e.light.Schedule
}

// ApplyScheduleTarget moves a scheduled light towards its day pattern target.
// Lights that are off are left alone; schedules only adjust lights already on.
func (b *Bridge) ApplyScheduleTarget(mqttClient mqtt.Client, stableID string, brightness uint8, mireds int) error {
	e, found := b.findEntry(stableID)
	if !found {
		return fmt.Errorf("Error applying schedule target: unknown light (%s)", stableID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.On {
		return nil
	}
	if e.state.Brightness == brightness && e.state.ColorTemp == mireds {
		return nil
	}

	e.state.Brightness = brightness
	e.state.SetColorTemp(mireds)

	msgs, err := lights.TurnOnCommands(e.light, e.state, b.ids)
	if err != nil {
		return fmt.Errorf("Error generating schedule sequence for light (%s): %w", e.light.Name, err)
	}
	if err := b.sendSequence(msgs); err != nil {
		e.available = false
		b.publishAvailabilityLocked(mqttClient, e)
		return fmt.Errorf("Error sending schedule sequence for light (%s): %w", e.light.Name, err)
	}

	if err := b.repo.Save(e.light.StableID, e.state); err != nil {
		b.logger.Warn("Could not persist light state", "light", e.light.Name, "error", err)
	}
	b.publishStateLocked(mqttClient, e)
	return nil
}

// PublishOffline marks every light unavailable, for shutdown.
func (b *Bridge) PublishOffline(mqttClient mqtt.Client) {
	for _, e := range b.entries {
		e.mu.Lock()
		e.available = false
		b.publishAvailabilityLocked(mqttClient, e)
		e.mu.Unlock()
	}
}

func (b *Bridge) findEntry(stableID string) (*entry, bool) {
	return lo.Find(b.entries, func(e *entry) bool { return e.light.StableID == stableID })
}

func (b *Bridge) publishAvailabilityLocked(mqttClient mqtt.Client, e *entry) {
	payload := "offline"
	if e.available {
		payload = "online"
	}
	if t := mqttClient.Publish(e.config.AvailabilityTopic, 0, true, payload); t.Wait() && t.Error() != nil {
		b.logger.Error("Could not publish availability", "light", e.light.Name, "error", t.Error())
	}
}

func (b *Bridge) publishStateLocked(mqttClient mqtt.Client, e *entry) {
	payload, err := marshalLightState(e.light, e.state)
	if err != nil {
		b.logger.Error("Could not marshal light state", "light", e.light.Name, "error", err)
		return
	}
	if t := mqttClient.Publish(e.config.StateTopic, 0, true, payload); t.Wait() && t.Error() != nil {
		b.logger.Error("Could not publish light state", "light", e.light.Name, "error", t.Error())
	}
}
