package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/judas-33/momentum/internal/backtest"
	"github.com/judas-33/momentum/internal/collector"
	"github.com/judas-33/momentum/internal/config"
	"github.com/judas-33/momentum/internal/model"
	"github.com/judas-33/momentum/internal/notifier"
	"github.com/judas-33/momentum/internal/recorder"
)

// Scheduler re-runs the configured backtest on a cron with a rolling end
// date and pushes the report.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Cfg       *config.Config
	Ctx       context.Context

	mu   sync.Mutex
	last *model.Result
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, tn *notifier.TelegramNotifier, rec recorder.Recorder, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Cfg:       cfg,
		Ctx:       ctx,
	}
}

// Register registers the recurring backtest task.
func (s *Scheduler) Register(backtestCron string) error {
	if _, err := s.Cron.AddFunc(backtestCron, s.backtestTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the backtest task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.backtestTask()
}

func (s *Scheduler) backtestTask() {
	symbol := s.Cfg.Strategy.Symbol
	log.Printf("[INFO] running backtest for %s", symbol)

	start, _, err := s.Cfg.DateRange()
	if err != nil {
		log.Printf("[ERROR] date range: %v", err)
		return
	}
	// Rolling end date: always include the newest bars.
	end := time.Now()

	daily, weekly, err := s.Collector.Collect(symbol, start, end)
	if err != nil {
		log.Printf("[ERROR] collect: %v", err)
		s.trySend(fmt.Sprintf("❌ backtest data collection failed: %v", err))
		return
	}

	res, err := backtest.Run(symbol, daily, weekly, backtest.Params{
		InitialCapital: s.Cfg.Strategy.InitialCapital,
		RSIThreshold:   s.Cfg.Strategy.RSIThreshold,
	})
	if err != nil {
		log.Printf("[ERROR] backtest: %v", err)
		s.trySend(fmt.Sprintf("❌ backtest failed: %v", err))
		return
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		ID:             uuid.NewString(),
		Symbol:         symbol,
		Start:          start,
		End:            end,
		RSIThreshold:   s.Cfg.Strategy.RSIThreshold,
		SMAPeriod:      s.Cfg.Strategy.SMAPeriod,
		InitialCapital: s.Cfg.Strategy.InitialCapital,
		Result:         res,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	s.trySend(notifier.FormatRunReport(res))
	log.Printf("[INFO] backtest done: %d trades, final capital %.2f", res.TotalTrades, res.FinalCapital)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		s.backtestTask()
		return ""
	case "/last":
		s.mu.Lock()
		last := s.last
		s.mu.Unlock()
		if last == nil {
			return "No backtest has run yet. Use /run to start one."
		}
		return notifier.FormatRunReport(last)
	case "/capital":
		s.mu.Lock()
		last := s.last
		s.mu.Unlock()
		if last == nil {
			return "No backtest has run yet. Use /run to start one."
		}
		return notifier.FormatCapitalCurve(last.Capital)
	default:
		return "Commands:\n• /run\n• /last\n• /capital"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
