// Package dispatch serializes analysis work: a single-consumer event
// dispatcher for page and bookmark events, and a rate-limited queue for
// bulk runs.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultDelay       = 2 * time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultReportEvery = 5
)

// ErrTaskTimeout is recorded for a task abandoned after its hard timeout.
var ErrTaskTimeout = errors.New("task timed out")

// Progress is a snapshot of a bulk run.
type Progress struct {
	Status     string `json:"status"`
	Total      int    `json:"total"`
	Processed  int    `json:"processed"`
	Success    int    `json:"success"`
	Failed     int    `json:"failed"`
	IsRunning  bool   `json:"isRunning"`
	IsComplete bool   `json:"isComplete"`
}

// SuccessRate is the percentage of processed items that succeeded.
func (p Progress) SuccessRate() int {
	if p.Processed == 0 {
		return 0
	}
	return p.Success * 100 / p.Processed
}

// ProgressFunc receives progress snapshots in order.
type ProgressFunc func(Progress)

// Task is one unit of bulk work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue runs tasks one at a time with a fixed delay between them.
type Queue struct {
	Delay       time.Duration
	Timeout     time.Duration
	ReportEvery int
	OnProgress  ProgressFunc
	logger      *slog.Logger
}

// NewQueue creates a Queue. A negative delay or a non-positive timeout
// falls back to the default.
func NewQueue(delay, timeout time.Duration, logger *slog.Logger) *Queue {
	if delay < 0 {
		delay = DefaultDelay
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		Delay:       delay,
		Timeout:     timeout,
		ReportEvery: DefaultReportEvery,
		logger:      logger,
	}
}

// Run processes tasks in order and returns the final progress. A failing
// or timed-out task is counted and the run moves on. Cancelling ctx stops
// the run before the next task; the final snapshot is still emitted.
func (q *Queue) Run(ctx context.Context, tasks []Task) (Progress, error) {
	p := Progress{
		Status:    "starting",
		Total:     len(tasks),
		IsRunning: true,
	}
	q.emit(p)

	var runErr error
	for i, task := range tasks {
		if i > 0 && q.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(q.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if err := q.runOne(ctx, task); err != nil {
			p.Failed++
			q.logger.Warn("task failed", "task", task.Name, "error", err)
		} else {
			p.Success++
		}
		p.Processed++
		p.Status = fmt.Sprintf("processed %d/%d", p.Processed, p.Total)

		if q.ReportEvery > 0 && p.Processed%q.ReportEvery == 0 && p.Processed < p.Total {
			q.emit(p)
		}
	}

	p.IsRunning = false
	p.IsComplete = true
	if runErr != nil {
		p.Status = "cancelled"
	} else {
		p.Status = fmt.Sprintf("complete, success rate %d%%", p.SuccessRate())
	}
	q.emit(p)
	return p, runErr
}

// runOne runs a task under the hard timeout. A task that ignores its
// context is abandoned once the timeout fires.
func (q *Queue) runOne(ctx context.Context, task Task) error {
	ctx, cancel := context.WithTimeout(ctx, q.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("task %s panicked: %v", task.Name, r)
			}
		}()
		done <- task.Run(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", task.Name, ErrTaskTimeout)
		}
		return ctx.Err()
	}
}

func (q *Queue) emit(p Progress) {
	if q.OnProgress != nil {
		q.OnProgress(p)
	}
}
