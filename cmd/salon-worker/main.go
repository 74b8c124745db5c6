package main

import (
	"context"
	"errors"
	"os"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"salon/internal/amqp"
	"salon/internal/backend"
	"salon/internal/cli"
	applog "salon/internal/log"
	"salon/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)
	logger.Info("Starting salon-worker", "ledger_backend", cfg.LedgerBackend)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	shutdownTracing := cli.SetupTelemetry(context.Background(), logger, cfg, cfg.ServiceName+"-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ledgerCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid ledger configuration", applog.FieldError, err)
		os.Exit(1)
	}
	ledger, err := backend.NewFactory(logger).CreateLedger(context.Background(), ledgerCfg)
	if err != nil {
		logger.Error("Failed to initialize ledger", applog.FieldError, err, "backend", cfg.LedgerBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown error", applog.FieldError, err)
		}
	})

	ledgerWorker := worker.NewLedgerWorker(repo, ledger.Ledger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeAppointmentEvents(gctx, ledgerWorker.HandleEvent)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down worker...")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
