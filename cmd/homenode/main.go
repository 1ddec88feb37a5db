package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/db"
	"github.com/thatsimonsguy/homenode/internal/config"
	"github.com/thatsimonsguy/homenode/internal/console"
	"github.com/thatsimonsguy/homenode/internal/controller"
	"github.com/thatsimonsguy/homenode/internal/datadog"
	"github.com/thatsimonsguy/homenode/internal/device"
	"github.com/thatsimonsguy/homenode/internal/gpio"
	"github.com/thatsimonsguy/homenode/internal/logging"
	"github.com/thatsimonsguy/homenode/internal/notifications"
	"github.com/thatsimonsguy/homenode/internal/registry"
	"github.com/thatsimonsguy/homenode/internal/state"
	"github.com/thatsimonsguy/homenode/internal/temperature"
	"github.com/thatsimonsguy/homenode/system/shutdown"
	"github.com/thatsimonsguy/homenode/system/startup"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFile)

	log.Info().
		Str("config_file", cfg.ConfigFile).
		Str("database", cfg.DatabasePath).
		Msg("Starting homenode")

	gpio.SetSafeMode(cfg.SafeMode)
	if cfg.SafeMode {
		log.Warn().Msg("SAFE MODE ENABLED, GPIO and PWM writes are disabled system-wide")
	}

	if cfg.EnableDatadog {
		datadog.InitMetrics(cfg.DDAgentAddr, cfg.DDNamespace, cfg.DDTags)
	}

	if cfg.BootScriptFilePath != "" {
		if err := startup.WriteStartupScript(&cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to write boot script")
		}
		if cfg.BootServicePath != "" {
			if err := startup.InstallStartupService(&cfg); err != nil {
				log.Error().Err(err).Msg("Failed to install boot service")
			}
		}
	}

	if !cfg.SafeMode {
		if err := gpio.ValidateStartupPins(cfg.OutputPins()); err != nil {
			log.Warn().Err(err).Msg("Output pins not at their off level, the reset will correct them")
		}
	}

	dbConn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open audit database")
	}
	defer dbConn.Close()

	sensors := temperature.FromConfig(&cfg)
	if err := sensors.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure sensor pins")
	}
	actuators := device.FromConfig(&cfg)
	if err := actuators.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure servos")
	}

	reg := registry.NewDefault()
	ctrl := controller.New(reg, state.New(reg.Devices()), sensors, actuators, notifications.NewAuditNotifier(dbConn))

	if err := ctrl.Init(); err != nil {
		// a climate read failure leaves the outputs off, which is safe
		log.Error().Err(err).Msg("Initialization completed with errors")
	}

	in, out, closeConsole := openConsole(&cfg)
	defer closeConsole()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := console.New(ctrl).Run(ctx, in, out)
	if runErr != nil {
		shutdown.ShutdownWithError(ctrl, runErr, "Console failed")
		os.Exit(1)
	}
	shutdown.Shutdown(ctrl)
}

func openConsole(cfg *config.Config) (io.Reader, io.Writer, func()) {
	if cfg.ConsolePort == "" {
		return os.Stdin, os.Stdout, func() {}
	}
	port, err := console.OpenSerial(cfg.ConsolePort, cfg.ConsoleBaud)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open serial console")
	}
	return port, port, func() {
		if err := port.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close serial console")
		}
	}
}
