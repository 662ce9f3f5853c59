package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/praxis/adapter/api"
	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/adapter/cli/locations"
	"github.com/felixgeelhaar/praxis/adapter/cli/schedule"
	"github.com/felixgeelhaar/praxis/internal/app"
	"github.com/felixgeelhaar/praxis/pkg/config"
	"github.com/felixgeelhaar/praxis/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, cli.ConfirmOverlap, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("running without a store, most commands are unavailable", "error", err)
		} else {
			logger.Error("failed to initialize application", "error", err)
			os.Exit(1)
		}
	}
	if container != nil {
		defer container.Close()
	}

	cli.SetLogger(logger)
	cli.SetApp(buildApp(cfg, container, logger))
	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(locations.Cmd)
	cli.Execute()
}

func buildApp(cfg *config.Config, container *app.Container, logger *slog.Logger) *cli.App {
	if container == nil {
		return &cli.App{SlotMinutes: cfg.SlotMinutes}
	}

	providerID := uuid.Nil
	if cfg.ProviderID != "" {
		parsed, err := uuid.Parse(cfg.ProviderID)
		if err != nil {
			logger.Warn("invalid PRAXIS_PROVIDER_ID, using the all-providers view", "error", err)
		} else {
			providerID = parsed
		}
	}

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.APIAddr
	bookings := api.NewBookingHandler(
		container.Store,
		container.CreateRecurringHandler,
		container.UpdateRowHandler,
		container.CancelBookingHandler,
		container.DayScheduleHandler,
		container.ListBookingsHandler,
		container.Publisher,
		logger,
	)
	locationsHandler := api.NewLocationHandler(container.Directory, func() {
		container.InvalidateHours(context.Background())
	}, logger)

	return &cli.App{
		CreateBookingHandler:     container.CreateBookingHandler,
		CreateRecurringHandler:   container.CreateRecurringHandler,
		RescheduleBookingHandler: container.RescheduleBookingHandler,
		UpdateRowHandler:         container.UpdateRowHandler,
		CancelBookingHandler:     container.CancelBookingHandler,
		DayScheduleHandler:       container.DayScheduleHandler,
		ListBookingsHandler:      container.ListBookingsHandler,
		Directory:                container.Directory,
		Refresh:                  container.Refresh,
		APIServer:                api.NewServer(serverCfg, bookings, locationsHandler, logger),
		SlotMinutes:              cfg.SlotMinutes,
		CurrentProviderID:        providerID,
	}
}
