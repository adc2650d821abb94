package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RSSentinel/internal/api"
	"RSSentinel/internal/collector"
	"RSSentinel/internal/config"
	"RSSentinel/internal/metrics"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/notifier"
	"RSSentinel/internal/recorder"
	"RSSentinel/internal/scheduler"
	"RSSentinel/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] RSSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init series cache
	var cache collector.Cache = collector.NewMemoryCache()
	if cfg.Cache.RedisAddr != "" {
		rc := collector.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := rc.Ping(pingCtx)
		pingCancel()
		if err != nil {
			log.Printf("[WARN] redis %s unreachable, using in-memory cache: %v", cfg.Cache.RedisAddr, err)
			rc.Close()
		} else {
			cache = rc
			defer rc.Close()
			log.Printf("[INFO] series cache: redis %s", cfg.Cache.RedisAddr)
		}
	}

	// Init collector and monitor
	col := collector.NewCollector(fetcher, cache, cfg.Cache.TTL, cfg.DataSource.Period)
	col.Metrics = m
	mon := monitor.NewMonitor(col,
		strategy.Params{Window: cfg.Monitor.Window, YellowBand: cfg.Monitor.YellowBand, MinRows: cfg.Monitor.MinRows},
		strategy.CreditParams{Warn: cfg.Monitor.Credit.Warn, Danger: cfg.Monitor.Credit.Danger, MinRows: cfg.Monitor.MinRows},
	)
	mon.Metrics = m
	for _, p := range cfg.Monitor.Pairs {
		mon.Track(p.Asset, p.Bench)
	}
	for _, sym := range cfg.Monitor.Sectors {
		mon.Track(sym, cfg.DataSource.Benchmark)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[WARN] telegram not configured, notifications are logged only")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, mon, n, rec, scheduler.Universe{
		Pairs:      cfg.Monitor.Pairs,
		Sectors:    cfg.Monitor.Sectors,
		Bench:      cfg.DataSource.Benchmark,
		CreditHigh: cfg.Monitor.Credit.High,
		CreditLow:  cfg.Monitor.Credit.Low,
	})
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.RotationCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Start HTTP API
	handler := api.NewHandler(mon, rec, m, api.Universe{
		Bench:      cfg.DataSource.Benchmark,
		Sectors:    cfg.Monitor.Sectors,
		CreditHigh: cfg.Monitor.Credit.High,
		CreditLow:  cfg.Monitor.Credit.Low,
	})
	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           api.SetupRoutes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] API listening on %s", cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] API server: %v", err)
		}
	}()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] RSSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] API shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] RSSentinel stopped")
}
