// Package jobs runs periodic maintenance work. The only job today is an
// hourly usage report: per-status issue totals across all accounts, written
// to the log for operators.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"issuetrack/api/internal/repository"
)

type Scheduler struct {
	cron   *cron.Cron
	issues repository.IssueRepository
	log    zerolog.Logger
}

func NewScheduler(issues repository.IssueRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		issues: issues,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.reportUsage); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) reportUsage() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	totals, err := s.issues.CountStatusTotals(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("usage report failed")
		return
	}

	event := s.log.Info()
	total := 0
	for status, count := range totals {
		event = event.Int(string(status), count)
		total += count
	}
	event.Int("total", total).Msg("issue usage report")
}
