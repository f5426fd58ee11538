// Package scheduler re-runs the search pipeline on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work, normally a full pipeline run.
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron. Ticks that arrive while a run is still in
// progress are skipped.
type Scheduler struct {
	cron       *cron.Cron
	job        Job
	spec       string
	runOnStart bool

	running atomic.Bool
	wg      sync.WaitGroup

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

type Option func(*Scheduler)

// RunOnStart runs the job once immediately when Start is called.
func RunOnStart(v bool) Option {
	return func(s *Scheduler) { s.runOnStart = v }
}

// New creates a Scheduler that fires every interval. Intervals are rounded
// down to whole seconds, with one second as the floor.
func New(job Job, interval time.Duration, opts ...Option) *Scheduler {
	if interval < time.Second {
		interval = time.Second
	}
	s := &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		job:        job,
		spec:       fmt.Sprintf("@every %s", interval.Truncate(time.Second)),
		runOnStart: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Spec() string {
	return s.spec
}

// Start registers the job and starts cron.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.Trigger(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("✅ Scheduler started: %s", s.spec)

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.Trigger(ctx)
		}()
	}
	return nil
}

// Stop stops cron and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("🛑 Scheduler stopped")
}

// Trigger runs the job now unless a run is already in progress, and reports
// whether it ran.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("⏭️ Previous search still running, skipping this tick")
		return false
	}
	defer s.running.Store(false)

	log.Printf("🔄 Auto-search triggered: %s", time.Now().Format("2006-01-02 15:04:05"))
	err := s.job(ctx)
	if err != nil {
		log.Printf("❌ Scheduled search failed: %v", err)
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.mu.Unlock()
	return true
}

func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// LastRun returns when the last run finished and its error. The time is
// zero before the first run.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}
