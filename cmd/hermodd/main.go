// Command hermodd is the main entry point for the Hermod daemon.
// It loads configuration, connects the MQTT transport, registers the enabled
// voice apps and dispatches broker messages until a termination signal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/hermodvoice/hermod/internal/transport/mqttlink"

	"github.com/hermodvoice/hermod/interfaces"
	"github.com/hermodvoice/hermod/internal/app"
	"github.com/hermodvoice/hermod/internal/config"
	"github.com/hermodvoice/hermod/internal/guessgame"
	"github.com/hermodvoice/hermod/internal/logging"
	"github.com/hermodvoice/hermod/internal/timerapp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Log.Errorf("[hermodd] Failed to load config: %v", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.Logging); err != nil {
		logging.Log.Errorf("[hermodd] Failed to init logger: %v", err)
		os.Exit(1)
	}

	logging.Log.Infof("[hermodd] Configuration loaded successfully")

	transport, err := interfaces.OpenTransport("mqtt", interfaces.Config{
		Host:     cfg.MQTT.Host,
		Port:     cfg.MQTT.Port,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		ClientID: cfg.MQTT.ClientID,
	})
	if err != nil {
		logging.Log.Errorf("[hermodd] Failed to open transport: %v", err)
		os.Exit(1)
	}

	a := app.New("hermodd", cfg, transport)

	if cfg.Apps.Timer {
		timerapp.Register(a)
		logging.Log.Infof("[hermodd] Timer app enabled")
	}
	if cfg.Apps.GuessGame {
		guessgame.Register(a)
		logging.Log.Infof("[hermodd] Guess game app enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logging.Log.Errorf("[hermodd] %v", err)
		os.Exit(1)
	}

	logging.Log.Infof("[hermodd] Shutdown complete. Exiting.")
}
