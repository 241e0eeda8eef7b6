package snapshot

import (
	"context"
	"log"
	"sync"
	"time"
)

// TokenSource returns the addresses for the next run.
type TokenSource func() ([]string, error)

// Scheduler runs the Writer immediately and then on every interval tick.
// Overlapping runs are skipped.
type Scheduler struct {
	writer   *Writer
	tokens   TokenSource
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	status  Status
	started time.Time
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Running    bool      `json:"running"`
	Runs       int       `json:"runs"`
	FailedRuns int       `json:"failed_runs"`
	LastRun    time.Time `json:"last_run,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	LastResult *Summary  `json:"last_result,omitempty"`
	Uptime     string    `json:"uptime"`
}

// Summary is the serializable part of a Result.
type Summary struct {
	SnapshotTime time.Time `json:"snapshot_time_utc"`
	Requested    int       `json:"requested"`
	Written      int       `json:"written"`
	NoPool       int       `json:"no_pool"`
	Failed       int       `json:"failed"`
	Duplicates   int       `json:"duplicates"`
	PartialSinks []string  `json:"partial_sinks,omitempty"`
}

// NewScheduler creates a Scheduler.
func NewScheduler(writer *Writer, tokens TokenSource, interval time.Duration, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		writer:   writer,
		tokens:   tokens,
		interval: interval,
		logger:   logger,
		started:  time.Now(),
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Printf("Starting snapshot scheduler (interval: %v)...", s.interval)

	// Run immediately on start
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single run unless one is already in progress.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.status.Running {
		s.mu.Unlock()
		s.logger.Println("Snapshot already running, skipping...")
		return
	}
	s.status.Running = true
	s.mu.Unlock()

	var (
		result *Result
		err    error
	)
	addrs, err := s.tokens()
	if err == nil {
		result, err = s.writer.Run(ctx, addrs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
	s.status.Runs++
	s.status.LastRun = time.Now().UTC()
	if result != nil {
		s.status.LastResult = &Summary{
			SnapshotTime: result.SnapshotTime,
			Requested:    result.Requested,
			Written:      result.Written,
			NoPool:       result.NoPool,
			Failed:       result.Failed,
			Duplicates:   result.Duplicates,
			PartialSinks: result.PartialSinks,
		}
	}
	if err != nil {
		s.status.FailedRuns++
		s.status.LastError = err.Error()
		s.logger.Printf("Snapshot run error: %v", err)
		return
	}
	s.status.LastError = ""
}

// Status returns the current scheduler status.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status
	st.Uptime = time.Since(s.started).Truncate(time.Second).String()
	return st
}
