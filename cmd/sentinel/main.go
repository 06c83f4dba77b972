package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PortfolioSentinel/internal/config"
	"PortfolioSentinel/internal/engine"
	"PortfolioSentinel/internal/notifier"
	"PortfolioSentinel/internal/portfolio"
	"PortfolioSentinel/internal/provider"
	"PortfolioSentinel/internal/recorder"
	"PortfolioSentinel/internal/scheduler"
	"PortfolioSentinel/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PortfolioSentinel starting...")

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

	// Init price provider
	prov := provider.NewYahooProvider(cfg.Provider.BaseURL, cfg.Provider.Proxy)
	log.Printf("[INFO] price provider: %s", prov.Name())

	// Init portfolio store
	store, err := portfolio.NewStore(cfg.Portfolio.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init portfolio store: %v", err)
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

	// Init valuation engine
	runner := engine.NewRunner(prov, engine.NewIntervalPacer(time.Duration(cfg.Engine.PacingInterval)), engine.Options{
		GrowthRate:          cfg.Engine.GrowthRate,
		BuyDiscount:         cfg.Engine.BuyDiscount,
		HistoryDays:         cfg.Engine.HistoryDays,
		ForecastWindow:      cfg.Engine.ForecastWindow,
		ForecastHorizonDays: cfg.Engine.ForecastHorizonDays,
		MomentumWindowDays:  cfg.Engine.MomentumWindowDays,
		MomentumThreshold:   cfg.Engine.MomentumThreshold,
	})

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Provider.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, runner, store, cfg.Watchlist, tn, rec)
	if err := sched.RegisterAll(cfg.Schedule.EvaluateCron, cfg.Schedule.ScreenerCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Start HTTP server
	srv := server.New(cfg.Server.Addr, store, sched)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, evaluating portfolio now")
		go sched.RunEvaluationNow()
	}

	log.Println("[INFO] PortfolioSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] PortfolioSentinel stopped")
}
