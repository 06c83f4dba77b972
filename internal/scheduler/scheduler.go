package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"PortfolioSentinel/internal/engine"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/notifier"
	"PortfolioSentinel/internal/portfolio"
	"PortfolioSentinel/internal/recorder"
)

// Scheduler runs portfolio evaluations and watch-list screens on cron
// schedules and on demand, and caches the latest report for the HTTP and
// Telegram surfaces.
type Scheduler struct {
	Cron      *cron.Cron
	Runner    *engine.Runner
	Store     *portfolio.Store
	Watchlist []string
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Ctx       context.Context

	mu         sync.Mutex
	lastReport *model.PortfolioReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *engine.Runner, store *portfolio.Store, watchlist []string, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Runner:    runner,
		Store:     store,
		Watchlist: watchlist,
		Notifier:  tn,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the evaluation and screener tasks.
func (s *Scheduler) RegisterAll(evaluateCron, screenerCron string) error {
	if _, err := s.Cron.AddFunc(evaluateCron, s.evaluateTask); err != nil {
		return fmt.Errorf("register evaluate task: %w", err)
	}
	if _, err := s.Cron.AddFunc(screenerCron, s.screenerTask); err != nil {
		return fmt.Errorf("register screener task: %w", err)
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

// LastReport returns the most recent evaluation, or nil before the first run.
func (s *Scheduler) LastReport() *model.PortfolioReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// Evaluate runs the batch over the current portfolio snapshot, records the
// result and caches it.
func (s *Scheduler) Evaluate(ctx context.Context) (*model.PortfolioReport, error) {
	rep, err := s.Runner.Evaluate(ctx, s.Store.Snapshot())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastReport = rep
	s.mu.Unlock()

	if err := s.Recorder.RecordRun(rep); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	return rep, nil
}

// Screen runs the watch-list screener, excluding held tickers, and records
// the hits.
func (s *Scheduler) Screen(ctx context.Context) ([]model.Mover, []model.Diagnostic, error) {
	movers, diags, err := s.Runner.Screen(ctx, s.Watchlist, s.Store.Holds)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Recorder.RecordScreen(movers, diags); err != nil {
		log.Printf("[ERROR] record screen: %v", err)
	}
	return movers, diags, nil
}

// RunEvaluationNow executes the evaluation task immediately (manual trigger
// / RUN_ON_START).
func (s *Scheduler) RunEvaluationNow() {
	s.evaluateTask()
}

func (s *Scheduler) evaluateTask() {
	log.Println("[INFO] running scheduled evaluation")
	rep, err := s.Evaluate(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] scheduled evaluation: %v", err)
		s.trySend(fmt.Sprintf("❌ portfolio evaluation failed: %v", err))
		return
	}
	s.trySend(notifier.FormatReport(rep))
}

func (s *Scheduler) screenerTask() {
	if len(s.Watchlist) == 0 {
		return
	}
	log.Println("[INFO] running scheduled watch-list screen")
	movers, _, err := s.Screen(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] scheduled screen: %v", err)
		return
	}
	// Only ping the chat when something actually moved.
	if len(movers) > 0 {
		s.trySend(notifier.FormatMovers(movers))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/report":
		s.evaluateTask()
		return ""
	case "/portfolio":
		return notifier.FormatHoldings(s.Store.Snapshot())
	case "/watchlist":
		movers, _, err := s.Screen(s.Ctx)
		if err != nil {
			return fmt.Sprintf("screen failed: %v", err)
		}
		return notifier.FormatMovers(movers)
	default:
		return "commands:\n• /report — evaluate the portfolio now\n• /portfolio — list holdings\n• /watchlist — scan the watch-list"
	}
}

func (s *Scheduler) trySend(text string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
