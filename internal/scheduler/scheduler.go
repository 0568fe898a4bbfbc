package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"TrendScope/internal/logger"
	"TrendScope/internal/model"
	"TrendScope/internal/notifier"
	"TrendScope/internal/pipeline"
)

// Analyzer runs one analysis.
type Analyzer interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Sender delivers a report to the configured chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Defaults fill in whatever a trigger leaves out.
type Defaults struct {
	Ticker       string
	Horizon      int
	LookbackDays int
}

// Scheduler runs the periodic report and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer Analyzer
	Sender   Sender
	Defaults Defaults
	Ctx      context.Context

	log *logger.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, analyzer Analyzer, sender Sender, defaults Defaults, log *logger.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLogger(cron.PrintfLogger(log))),
		Analyzer: analyzer,
		Sender:   sender,
		Defaults: defaults,
		Ctx:      ctx,
		log:      log,
		now:      time.Now,
	}
}

// Register schedules the report for the default ticker.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running report.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunReportNow executes the report immediately.
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) reportTask() {
	s.log.Info("running scheduled report", logger.String("ticker", s.Defaults.Ticker))
	s.trySend(s.analyze(s.Ctx, s.Defaults.Ticker, s.Defaults.Horizon))
}

// Request builds a run request ending today.
func (s *Scheduler) Request(ticker string, horizon int) pipeline.Request {
	end := model.TruncateDay(s.now()).AddDate(0, 0, 1)
	return pipeline.Request{
		Ticker:  ticker,
		Start:   end.AddDate(0, 0, -s.Defaults.LookbackDays),
		End:     end,
		Horizon: horizon,
	}
}

func (s *Scheduler) analyze(ctx context.Context, ticker string, horizon int) string {
	res, err := s.Analyzer.Run(ctx, s.Request(ticker, horizon))
	if err != nil {
		s.log.Error("analysis failed", logger.String("ticker", ticker), logger.Error(err))
		return notifier.FormatError(ticker, err)
	}
	return notifier.FormatReport(res)
}

// HandleCommand processes a chat command and returns the reply.
//
//	/analyze [TICKER] [horizon]
//	/help
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	// Group chats address the bot as /command@botname.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/analyze", "/a":
		ticker, horizon := s.Defaults.Ticker, s.Defaults.Horizon
		if len(args) > 0 {
			ticker = args[0]
		}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return notifier.FormatError(ticker, fmt.Errorf("%w: horizon %q is not a number", model.ErrInvalidHorizon, args[1]))
			}
			horizon = n
		}
		return s.analyze(ctx, ticker, horizon)
	default:
		return notifier.FormatHelp(s.Defaults.Ticker, s.Defaults.Horizon)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Sender.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error("send notification failed", logger.Error(err))
	}
}
