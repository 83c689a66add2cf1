package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IngestionJob is one transcript ingestion pass; internal/agent implements it.
type IngestionJob interface {
	Run(ctx context.Context) error
}

// SweepJob is one reminder cycle; internal/reminder implements it.
type SweepJob interface {
	Run() error
}

// Scheduler drives the two background loops: transcript ingestion and the
// reminder sweep. Reminders are held back until the first ingestion pass
// finishes so freshly mined meetings are not missed on startup. At most one
// cycle of each job runs at a time; a cycle that fires while its predecessor
// is still running is skipped, never queued.
type Scheduler struct {
	cron       *cron.Cron
	agent      IngestionJob
	sweeper    SweepJob
	agentEvery time.Duration
	sweepEvery time.Duration
	log        *zap.SugaredLogger

	agentMu   sync.Mutex
	sweepMu   sync.Mutex
	agentDone atomic.Bool
}

func New(ag IngestionJob, sw SweepJob, agentEvery, sweepEvery time.Duration, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		agent:      ag,
		sweeper:    sw,
		agentEvery: agentEvery,
		sweepEvery: sweepEvery,
		log:        log,
	}
}

// Start registers the periodic jobs and kicks off the first ingestion pass
// immediately. The immediate runs go through runAgent/runSweep like the cron
// ones, so they can never overlap a cron-fired cycle.
func (s *Scheduler) Start() {
	s.cron.Schedule(cron.Every(s.agentEvery), cron.FuncJob(s.runAgent))
	s.cron.Schedule(cron.Every(s.sweepEvery), cron.FuncJob(s.runSweep))
	s.cron.Start()

	go func() {
		s.runAgent()
		s.runSweep()
	}()
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runAgent() {
	if !s.agentMu.TryLock() {
		s.log.Debug("transcript ingestion still running, skipping cycle")
		return
	}
	defer s.agentMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.agentEvery)
	defer cancel()

	s.log.Debug("running transcript ingestion")
	if err := s.agent.Run(ctx); err != nil {
		s.log.Errorw("transcript ingestion failed", "err", err)
		return
	}
	s.agentDone.Store(true)
}

func (s *Scheduler) runSweep() {
	if !s.sweepMu.TryLock() {
		s.log.Debug("reminder sweep still running, skipping cycle")
		return
	}
	defer s.sweepMu.Unlock()

	if !s.agentDone.Load() {
		s.log.Debug("reminder sweep skipped, waiting for first ingestion pass")
		return
	}

	s.log.Debug("running reminder sweep")
	if err := s.sweeper.Run(); err != nil {
		s.log.Errorw("reminder sweep failed", "err", err)
	}
}
