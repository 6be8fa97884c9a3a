package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"member-etl/config"
	"member-etl/metrics"
	"member-etl/metrics/prompush"
	"member-etl/scheduler"
	"member-etl/services"
	"member-etl/storage"
	"member-etl/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if !logger.SetLevel(cfg.LogLevel) {
		logger.Warn("Unknown LOG_LEVEL %q, keeping info", cfg.LogLevel)
	}
	logger.SetFormat(cfg.LogFormat)

	logger.Info("=== Member ETL starting ===")
	logger.Info("Config: input %s | output %s | schedule %q | postgres %v",
		cfg.InputPath, cfg.OutputPath, cfg.Schedule, cfg.PostgresEnabled)

	if cfg.PushgatewayURL != "" {
		backend, err := prompush.NewBackend(cfg.MetricsJob, cfg.PushgatewayURL)
		if err != nil {
			logger.Error("Metrics disabled: %v", err)
		} else {
			metrics.SetBackend(backend)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := services.NewPipeline(logger, extraSinks(ctx, cfg, logger)...)
	insightSvc := services.NewInsightService(logger)

	runOnce := func() error {
		report, err := pipeline.Run(cfg.InputPath, cfg.OutputPath)
		if err != nil {
			return err
		}
		insightSvc.Print(os.Stdout, insightSvc.Generate(report.RunID, report.Members))
		return nil
	}

	if cfg.Schedule == "" {
		if err := runOnce(); err != nil {
			logger.Error("Run failed: %v", err)
			os.Exit(1)
		}
		return
	}

	sched, err := scheduler.New(cfg.Schedule, logger, func() {
		if err := runOnce(); err != nil {
			logger.Error("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	sched.Run(ctx)
}

func extraSinks(ctx context.Context, cfg *config.Config, logger *utils.Logger) []services.Sink {
	var sinks []services.Sink

	if cfg.CSVExportPath != "" {
		path := cfg.CSVExportPath
		sinks = append(sinks, services.Sink{
			Name: "csv " + path,
			Open: func() (storage.MemberWriter, error) { return storage.NewCSVWriter(path) },
		})
	}

	if cfg.PostgresEnabled {
		retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
		sinks = append(sinks, services.Sink{
			Name: "postgres",
			Open: func() (storage.MemberWriter, error) {
				return storage.NewPostgresWriter(ctx, cfg.DSN(), retry)
			},
		})
	}

	return sinks
}
