package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"grocery.GO/app"
	"grocery.GO/config"
	"grocery.GO/service/catalog"
)

const jobTimeout = 5 * time.Minute

// Builtin returns the storefront's own jobs with schedules from configuration. A job with an
// empty schedule still runs on demand through cron:start --job.
func Builtin(a *app.App) map[string]Job {
	schedules := config.CronSchedules(a.Config)
	log := a.Log.Named("cron")
	return map[string]Job{
		"session:prune": {
			Schedule: schedules["session:prune"],
			Run: func(context.Context, ...string) error {
				n := a.Sessions.Prune(a.Config.SessionMaxIdle)
				log.Info("idle sessions pruned", zap.Int("pruned", n), zap.Int("active", a.Sessions.Len()))
				return nil
			},
		},
		"catalog:reindex": {
			Schedule: schedules["catalog:reindex"],
			Run: func(ctx context.Context, _ ...string) error {
				n, err := a.Catalog.Reindex(ctx)
				if errors.Is(err, catalog.ErrNoIndex) {
					log.Debug("catalog reindex skipped, no search index configured")
					return nil
				}
				if err != nil {
					return err
				}
				log.Info("catalog reindexed", zap.Int("products", n))
				return nil
			},
		},
	}
}

// All merges the built-in jobs with those registered by custom packages. Built-in names win.
func All(a *app.App) map[string]Job {
	jobs := Jobs()
	for name, j := range Builtin(a) {
		jobs[name] = j
	}
	return jobs
}

// RunNow runs one job under the job timeout.
func RunNow(ctx context.Context, j Job, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	return j.Run(ctx, args...)
}

// StartCron schedules every job with a non-empty schedule and starts the scheduler. Job
// failures are logged; they never stop the scheduler.
func StartCron(a *app.App) (*cron.Cron, error) {
	log := a.Log.Named("cron")
	c := cron.New(cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(log))))
	for name, j := range All(a) {
		if j.Schedule == "" {
			continue
		}
		name, j := name, j
		_, err := c.AddFunc(j.Schedule, func() {
			start := time.Now()
			if err := RunNow(context.Background(), j); err != nil {
				log.Error("job failed", zap.String("job", name), zap.Error(err))
				return
			}
			log.Debug("job done", zap.String("job", name), zap.Duration("took", time.Since(start)))
		})
		if err != nil {
			return nil, fmt.Errorf("register job %s: %w", name, err)
		}
	}
	c.Start()
	return c, nil
}
