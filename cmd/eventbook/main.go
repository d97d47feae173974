package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"eventbook/internal/analytics"
	"eventbook/internal/backend"
	"eventbook/internal/cache"
	"eventbook/internal/cli"
	"eventbook/internal/config"
	apphttp "eventbook/internal/http"
	"eventbook/internal/icsfeed"
	"eventbook/internal/log"
	"eventbook/internal/services"
	"eventbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil))
	logger := cli.SetupLogger(cfg)

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }
	source := cli.InstanceSource()

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg, source)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	reports := cache.NewLRUCache[analytics.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	cacheManager := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	cacheManager.Register(reports)
	cacheManager.StartCleanup(cfg.ReportCacheTTL)
	defer cacheManager.Stop()

	dashboard := services.NewDashboardService(res.Store, res.Store,
		services.WithClock(now),
		services.WithReportCache(reports),
		services.WithLogger(logger))

	var publisher services.ChangePublisher
	if res.Changes != nil {
		publisher = res.Changes
		changes := worker.NewChangeWorker(source, dashboard, logger)
		go func() {
			if err := changes.Run(ctx, res.Changes); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Change worker stopped", "error", err)
			}
		}()
	}
	bookings := services.NewBookingService(res.Store, publisher, dashboard, logger)

	scheduler := worker.NewScheduler(loc, logger)
	schedLogger := logger.WithComponent(log.ComponentScheduler)
	if !config.ScheduleDisabled(cfg.RolloverCron) {
		if err := scheduler.Add("rollover", cfg.RolloverCron, worker.RolloverJob(dashboard, schedLogger)); err != nil {
			logger.Error("Failed to schedule job", "error", err)
			os.Exit(1)
		}
	}
	if !config.ScheduleDisabled(cfg.OverdueCron) {
		if err := scheduler.Add("overdue", cfg.OverdueCron, worker.OverdueJob(res.Store, now, schedLogger)); err != nil {
			logger.Error("Failed to schedule job", "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()

	opts := []apphttp.Option{
		apphttp.WithLogger(logger),
		apphttp.WithFeed(icsfeed.New(loc, now)),
		apphttp.WithWriteLimit(cfg.WriteRateLimit),
	}
	if res.Pinger != nil {
		opts = append(opts, apphttp.WithPinger(res.Pinger))
	}
	srv := apphttp.NewServer(":"+cfg.Port, dashboard, bookings, opts...)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		scheduler.Stop(shutdownCtx)
	}()

	logger.Info("Starting eventbook server",
		"port", cfg.Port,
		"backend", res.Type,
		"timezone", loc.String(),
		"change_feed", res.Changes != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-shutdownDone
	logger.Info("Server stopped gracefully")
}
