package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	_ "time/tzdata"

	"salon/internal/amqp"
	"salon/internal/cli"
	apphttp "salon/internal/http"
	applog "salon/internal/log"
	"salon/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	shutdownTracing := cli.SetupTelemetry(context.Background(), logger, cfg, cfg.ServiceName)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// A nil publisher disables appointment events; the API keeps working
	// without a broker.
	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, appointment events disabled", applog.FieldError, err)
		} else {
			amqpClient = client
			publisher = client
			logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP_URL not set, appointment events disabled")
	}

	loc := cfg.Location()
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Appointments: services.NewAppointmentService(repo, publisher),
		Agenda:       services.NewAgendaService(repo, loc),
		Catalog:      services.NewCatalogService(repo),
		Reports:      services.NewReportService(repo, loc),
		Store:        repo,
		Logger:       logger,
	}, apphttp.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", applog.FieldError, err)
			}
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting salon server", "port", cfg.Port, "db", cfg.SQLiteDBPath, "timezone", loc.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
