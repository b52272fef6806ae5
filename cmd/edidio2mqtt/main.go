package main

import (
	"database/sql"
	"io"
	"os"
	"os/signal"
	"time"

	"syscall"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/controlfreak/edidio2mqtt/internal/bridge"
	"github.com/controlfreak/edidio2mqtt/internal/concurrency"
	"github.com/controlfreak/edidio2mqtt/internal/config"
	"github.com/controlfreak/edidio2mqtt/internal/constants"
	"github.com/controlfreak/edidio2mqtt/internal/edidio"
	"github.com/controlfreak/edidio2mqtt/internal/repos"
	"github.com/controlfreak/edidio2mqtt/internal/schedule"
)

func main() {

	logger := log.NewWithOptions(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename: "logs/edidio2mqtt.log",
		MaxAge:   3,
	}), log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05",
	})
	logger.Info("edidio2mqtt starting")

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("Could not load config", "error", err)
	}

	db, err := sql.Open("sqlite3", "edidio2mqtt.db")
	if err != nil {
		logger.Fatal("Could not open state database", "error", err)
	}
	defer db.Close()

	stateRepo, err := repos.NewLightStateRepo(logger, db)
	if err != nil {
		logger.Fatal("Could not initialise state database", "error", err)
	}

	// the controller may be offline at startup, lights stay unavailable
	// until it comes back
	controller := edidio.NewTCPClient(logger, cfg.Controller.Host, cfg.Controller.Port)
	if err := controller.Connect(); err != nil {
		logger.Warn("Controller not reachable yet", "error", err)
	}
	defer controller.Close()

	mqttClient := mqtt.NewClient(cfg.MQTT.ClientOptions(logger, "edidio2mqtt"))
	if t := mqttClient.Connect(); t.Wait() && t.Error() != nil {
		logger.Fatal("Could not connect to MQTT broker", "error", t.Error())
	}

	b := bridge.New(logger, controller, stateRepo, &edidio.MessageID{}, cfg.LightDescriptors())
	if err := b.SetupLights(mqttClient); err != nil {
		logger.Fatal("Could not set up lights", "error", err)
	}

	scheduleService := schedule.NewService(logger, cfg.GeoLocation, cfg.DayPatterns)

	stopChannel := make(chan bool, 1)
	quitChannel := make(chan os.Signal, 1)

	go runLoop(logger, b, scheduleService, mqttClient, stopChannel)

	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	<-quitChannel

	// cleanup before exit
	stopChannel <- true
	b.PublishOffline(mqttClient)
	mqttClient.Disconnect(250)
	logger.Info("edidio2mqtt is closing")
}

// runLoop periodically refreshes availability and walks scheduled lights
// towards their day pattern targets.
func runLoop(logger *log.Logger, b *bridge.Bridge, scheduleService *schedule.Service, mqttClient mqtt.Client, stopChannel chan bool) {

	applyTargets := func() {
		worker := concurrency.NewThrottledWorker(constants.ScheduleApplyThrottle, func(stableID string) error {
			target, ok := scheduleService.TargetForTime(b.SchedulePattern(stableID), time.Now())
			if !ok {
				return nil
			}
			if err := b.ApplyScheduleTarget(mqttClient, stableID, target.Brightness, target.Mireds); err != nil {
				logger.Error("Could not apply schedule target", "light", stableID, "error", err)
				return err
			}
			return nil
		})
		worker.Run(b.ScheduledLights())
	}

	applyTargets()

	scheduleTicker := time.NewTicker(constants.ScheduleUpdateInterval)
	availabilityTicker := time.NewTicker(constants.AvailabilityRefreshInterval)
	defer scheduleTicker.Stop()
	defer availabilityTicker.Stop()

	for {
		select {
		case <-scheduleTicker.C:
			applyTargets()
		case <-availabilityTicker.C:
			b.RefreshAvailability(mqttClient)
		case <-stopChannel:
			return
		}
	}
}
