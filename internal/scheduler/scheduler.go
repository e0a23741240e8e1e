// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/blog-service/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StatsSource reports entity counts
type StatsSource interface {
	Stats(ctx context.Context) (service.Stats, error)
}

// Scheduler logs store statistics on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	source  StatsSource
	logger  *logrus.Logger
	timeout time.Duration
}

// NewScheduler registers the stats job. An empty schedule disables it and
// yields a nil Scheduler, which is safe to Start and Stop.
func NewScheduler(schedule string, source StatsSource, logger *logrus.Logger) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}

	s := &Scheduler{
		cron:    cron.New(),
		source:  source,
		logger:  logger,
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc(schedule, s.reportStats); err != nil {
		return nil, fmt.Errorf("invalid stats schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts the schedule and waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
	}
}

func (s *Scheduler) reportStats() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	stats, err := s.source.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to collect stats")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"users": stats.Users,
		"posts": stats.Posts,
	}).Info("Store stats")
}
