// Package jobs runs periodic background work.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"library-management/backend/internal/observability"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Runner schedules jobs until its context is cancelled.
type Runner struct {
	ctx    context.Context
	logger *zap.Logger
	wg     sync.WaitGroup
}

// New returns a Runner bound to ctx.
func New(ctx context.Context, logger *zap.Logger) *Runner {
	return &Runner{ctx: ctx, logger: logger}
}

// Every runs fn each interval. A non-positive interval disables the job.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	if interval <= 0 {
		r.logger.Info("job disabled", zap.String("job", name))
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.RunOnce(name, fn)
			}
		}
	}()
}

// RunOnce executes fn synchronously with metrics, panic recovery and error reporting.
func (r *Runner) RunOnce(name string, fn Job) (err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in job %s: %v", name, p)
		}
		if err != nil {
			jobErrors.WithLabelValues(name).Inc()
			observability.CaptureErr(err)
			r.logger.Error("job failed", zap.String("job", name), zap.Error(err))
		}
		jobRuns.WithLabelValues(name).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()
	return fn(r.ctx)
}

// Wait blocks until every scheduled job has returned after cancellation.
func (r *Runner) Wait() {
	r.wg.Wait()
}
