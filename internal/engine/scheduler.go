package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/homescout/homescout/internal/metrics"
)

// Job names as recorded in job_runs.
const (
	JobMatchCycle        = "match_cycle"
	JobEngagementRefresh = "engagement_refresh"
)

const staleJobRunAge = time.Hour

// Scheduler manages the periodic match cycle and engagement refresh.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger

	matchEntry      cron.EntryID
	engagementEntry cron.EntryID
}

// NewScheduler creates a new Scheduler that runs engine tasks on a schedule.
func NewScheduler(
	eng *Engine,
	matchInterval time.Duration,
	engagementInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	var err error
	s.matchEntry, err = c.AddFunc("@every "+matchInterval.String(), s.runMatchCycle)
	if err != nil {
		return nil, err
	}

	s.engagementEntry, err = c.AddFunc(
		"@every "+engagementInterval.String(),
		s.runEngagementRefresh,
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start recovers crashed job runs, then begins running scheduled tasks.
func (s *Scheduler) Start() {
	recovered, err := s.engine.store.RecoverStaleJobRuns(context.Background(), staleJobRunAge)
	if err != nil {
		s.log.Error("recovering stale job runs failed", "error", err)
	} else if recovered > 0 {
		s.log.Warn("recovered stale job runs", "count", recovered)
	}

	s.log.Info("scheduler started")
	s.cron.Start()
	s.updateNextRunGauges()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runMatchCycle() {
	s.runJob(JobMatchCycle, s.engine.RunMatchCycle)
}

func (s *Scheduler) runEngagementRefresh() {
	s.runJob(JobEngagementRefresh, s.engine.RunEngagementRefresh)
}

// runJob wraps one scheduled execution with a distributed lock and a
// job_runs record. Losing the lock means another instance is already
// running the job.
func (s *Scheduler) runJob(name string, fn func(context.Context) error) {
	ctx := context.Background()
	defer s.updateNextRunGauges()

	ok, err := s.engine.store.AcquireLock(ctx, "job:"+name, s.engine.holder, s.engine.lockTTL)
	if err != nil {
		s.log.Error("acquiring job lock failed", "job", name, "error", err)
		return
	}
	if !ok {
		s.log.Debug("job locked by another instance, skipping", "job", name)
		return
	}
	defer func() {
		if err := s.engine.store.ReleaseLock(ctx, "job:"+name, s.engine.holder); err != nil {
			s.log.Warn("releasing job lock failed", "job", name, "error", err)
		}
	}()

	runID, err := s.engine.store.InsertJobRun(ctx, name)
	if err != nil {
		s.log.Error("recording job run failed", "job", name, "error", err)
	}

	s.log.Info("scheduled job starting", "job", name)

	status, errText := "success", ""
	if err := fn(ctx); err != nil {
		status, errText = "failed", err.Error()
		s.log.Error("scheduled job failed", "job", name, "error", err)
	}

	if runID != "" {
		if err := s.engine.store.CompleteJobRun(ctx, runID, status, errText); err != nil {
			s.log.Error("completing job run failed", "job", name, "error", err)
		}
	}
}

func (s *Scheduler) updateNextRunGauges() {
	if e := s.cron.Entry(s.matchEntry); !e.Next.IsZero() {
		metrics.SchedulerNextMatchTimestamp.Set(float64(e.Next.Unix()))
	}
	if e := s.cron.Entry(s.engagementEntry); !e.Next.IsZero() {
		metrics.SchedulerNextEngagementTimestamp.Set(float64(e.Next.Unix()))
	}
}
