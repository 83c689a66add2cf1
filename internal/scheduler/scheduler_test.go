package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubIngest struct {
	mu   sync.Mutex
	runs int
	err  error

	started chan struct{}
	release chan struct{}
}

func (a *stubIngest) Run(ctx context.Context) error {
	if a.started != nil {
		select {
		case a.started <- struct{}{}:
		default:
		}
	}
	if a.release != nil {
		<-a.release
	}
	a.mu.Lock()
	a.runs++
	a.mu.Unlock()
	return a.err
}

func (a *stubIngest) runCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runs
}

type stubSweep struct {
	mu          sync.Mutex
	runs        int
	inFlight    int
	maxInFlight int

	started chan struct{}
	release chan struct{}
}

func (s *stubSweep) Run() error {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	if s.release != nil {
		<-s.release
	}

	s.mu.Lock()
	s.inFlight--
	s.runs++
	s.mu.Unlock()
	return nil
}

func (s *stubSweep) stats() (runs, maxInFlight int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, s.maxInFlight
}

func newTestScheduler(ag *stubIngest, sw *stubSweep) *Scheduler {
	return New(ag, sw, time.Minute, time.Minute, zap.NewNop().Sugar())
}

func TestSweepGatedUntilFirstIngestion(t *testing.T) {
	ag := &stubIngest{}
	sw := &stubSweep{}
	s := newTestScheduler(ag, sw)

	s.runSweep()
	runs, _ := sw.stats()
	assert.Zero(t, runs, "no sweep before the first ingestion pass")

	s.runAgent()
	require.Equal(t, 1, ag.runCount())

	s.runSweep()
	runs, _ = sw.stats()
	assert.Equal(t, 1, runs, "sweep runs once ingestion has completed")
}

func TestSweepStaysGatedAfterFailedIngestion(t *testing.T) {
	ag := &stubIngest{err: errors.New("model unavailable")}
	sw := &stubSweep{}
	s := newTestScheduler(ag, sw)

	s.runAgent()
	s.runSweep()

	runs, _ := sw.stats()
	assert.Zero(t, runs, "a failed ingestion pass does not open the gate")
}

func TestSweepCyclesNeverOverlap(t *testing.T) {
	ag := &stubIngest{}
	sw := &stubSweep{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := newTestScheduler(ag, sw)
	s.runAgent()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runSweep()
	}()
	<-sw.started

	// Fires while the first cycle is still inside Run; must be skipped.
	s.runSweep()

	close(sw.release)
	wg.Wait()

	runs, maxInFlight := sw.stats()
	assert.Equal(t, 1, runs, "the overlapping cycle is skipped, not queued")
	assert.Equal(t, 1, maxInFlight, "at most one sweep cycle in flight")
}

func TestIngestionCyclesNeverOverlap(t *testing.T) {
	ag := &stubIngest{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	sw := &stubSweep{}
	s := newTestScheduler(ag, sw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runAgent()
	}()
	<-ag.started

	s.runAgent()

	close(ag.release)
	wg.Wait()

	assert.Equal(t, 1, ag.runCount(), "the overlapping pass is skipped, not queued")
}
