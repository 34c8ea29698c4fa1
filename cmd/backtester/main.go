package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/judas-33/momentum/internal/backtest"
	"github.com/judas-33/momentum/internal/collector"
	"github.com/judas-33/momentum/internal/config"
	"github.com/judas-33/momentum/internal/model"
	"github.com/judas-33/momentum/internal/notifier"
	"github.com/judas-33/momentum/internal/recorder"
	"github.com/judas-33/momentum/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	watch := flag.Bool("watch", false, "keep running and re-run the backtest on the configured cron")
	flag.Parse()

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

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher,
		cfg.Strategy.DailyInterval, cfg.Strategy.WeeklyInterval,
		cfg.Strategy.SMAPeriod, cfg.Strategy.RSIPeriod)

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

	if !*watch {
		runOnce(cfg, col, rec)
		return
	}

	if err := cfg.ValidateWatch(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, tn, rec, cfg)
	if err := sched.Register(cfg.Schedule.BacktestCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing backtest now")
		go sched.RunNow()
	}

	log.Println("[INFO] backtester is running in watch mode. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] backtester stopped")
}

// runOnce executes a single backtest and prints the report to stdout.
func runOnce(cfg *config.Config, col *collector.Collector, rec recorder.Recorder) {
	start, end, err := cfg.DateRange()
	if err != nil {
		log.Fatalf("[FATAL] date range: %v", err)
	}

	daily, weekly, err := col.Collect(cfg.Strategy.Symbol, start, end)
	if err != nil {
		log.Fatalf("[FATAL] collect: %v", err)
	}
	log.Printf("[INFO] collected %d daily bars, %d weekly indicator points", len(daily), len(weekly))

	res, err := backtest.Run(cfg.Strategy.Symbol, daily, weekly, backtest.Params{
		InitialCapital: cfg.Strategy.InitialCapital,
		RSIThreshold:   cfg.Strategy.RSIThreshold,
	})
	if err != nil {
		log.Fatalf("[FATAL] backtest: %v", err)
	}

	if err := rec.RecordRun(&recorder.RunRecord{
		ID:             uuid.NewString(),
		Symbol:         cfg.Strategy.Symbol,
		Start:          start,
		End:            end,
		RSIThreshold:   cfg.Strategy.RSIThreshold,
		SMAPeriod:      cfg.Strategy.SMAPeriod,
		InitialCapital: cfg.Strategy.InitialCapital,
		Result:         res,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	printReport(res)
}

// printReport writes the run summary and trade table to stdout.
func printReport(res *model.Result) {
	fmt.Printf("\nMomentum Backtest — %s\n", res.Symbol)
	fmt.Printf("  Total signals:     %d\n", res.TotalSignals)
	fmt.Printf("  Success ratio:     %.2f\n", res.SuccessRatio)
	fmt.Printf("  Strategy profit:   %.2f%%\n", res.StrategyProfitPct)
	fmt.Printf("  Final capital:     %.2f\n", res.FinalCapital)
	fmt.Printf("  Annualized return: %.2f%%\n", res.AnnualizedReturn*100)
	if res.ProfitFactorDefined {
		fmt.Printf("  Profit factor:     %.2f\n", res.ProfitFactor)
	} else {
		fmt.Printf("  Profit factor:     n/a (no losing trades)\n")
	}

	if len(res.Trades) == 0 {
		return
	}
	fmt.Printf("\n  %-12s %10s  %-12s %10s  %8s  %5s  %12s  %5s  %12s  %s\n",
		"Entry", "Price", "Exit", "Price", "P&L %", "Days", "Capital Used", "Qty", "P/L Amount", "Reason")
	for _, t := range res.Trades {
		fmt.Printf("  %-12s %10.2f  %-12s %10.2f  %+7.2f%%  %5d  %12.2f  %5.0f  %12.2f  %s\n",
			t.EntryTime.Format("2006-01-02"), t.EntryPrice,
			t.ExitTime.Format("2006-01-02"), t.ExitPrice,
			t.PnlPct*100, t.HoldingDays, t.CapitalUsed, t.Quantity, t.ProfitLoss, t.Reason)
	}
}
