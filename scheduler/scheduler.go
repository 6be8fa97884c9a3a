// Package scheduler invokes a job on a cron schedule. Missed ticks are not
// replayed, failed runs are not retried, and a tick is skipped while the
// previous run is still going.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"member-etl/utils"
)

// Scheduler runs one job on a standard five-field cron expression.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	entry  cron.EntryID
	logger *utils.Logger
}

// New validates spec and registers job.
func New(spec string, logger *utils.Logger, job func()) (*Scheduler, error) {
	cl := cronLogger{logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)),
	)

	id, err := c.AddFunc(spec, job)
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec, entry: id, logger: logger}, nil
}

// Next returns the next activation time, or the zero time before Run.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// Run blocks until ctx is done, then waits for an in-flight job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("[scheduler] Schedule %q active, next run at %s", s.spec, s.Next().Format(time.RFC3339))

	<-ctx.Done()
	s.logger.Info("[scheduler] Stopping, waiting for running job")
	<-s.cron.Stop().Done()
}

// cronLogger adapts utils.Logger to cron.Logger.
type cronLogger struct {
	l *utils.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("[scheduler] %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("[scheduler] %s: %v %v", msg, err, keysAndValues)
}
