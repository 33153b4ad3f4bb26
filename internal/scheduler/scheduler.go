// Package scheduler recomputes the dashboard in the background so that
// requests are served from a warm cache.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

// Refresher recomputes and re-caches the dashboard.
type Refresher interface {
	Refresh(ctx context.Context) (model.Dashboard, error)
}

// Scheduler runs Refresh on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     *logrus.Entry
}

// New registers the refresh job on schedule (standard five-field cron
// syntax). Each run is bounded by timeout.
func New(schedule string, refresher Refresher, timeout time.Duration, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		timeout: timeout,
		log:     log.WithField("component", "scheduler"),
	}

	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		s.run(refresher)
	}))
	if _, err := s.cron.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) run(refresher Refresher) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	dashboard, err := refresher.Refresh(ctx)
	if err != nil {
		s.log.WithError(err).Error("scheduled dashboard refresh failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"duration":       time.Since(start).String(),
		"failed_classes": len(dashboard.FailedClasses),
	}).Info("dashboard refreshed")
}

// Start begins running the job in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once a running
// refresh has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next reports when the job runs next. Zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
