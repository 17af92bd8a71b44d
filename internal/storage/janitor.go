package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pruner removes stored objects older than a given age.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int, error)
}

// Janitor periodically enforces upload retention on a Pruner.
type Janitor struct {
	pruner    Pruner
	interval  time.Duration
	retention time.Duration
	log       *zap.Logger
}

// NewJanitor returns a janitor that sweeps every interval, removing objects older than retention.
func NewJanitor(p Pruner, interval, retention time.Duration, log *zap.Logger) *Janitor {
	return &Janitor{
		pruner:    p,
		interval:  interval,
		retention: retention,
		log:       log.With(zap.String("component", "janitor")),
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
// Sweep failures are logged and do not stop the loop.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info("janitor_started",
		zap.Duration("interval", j.interval),
		zap.Duration("retention", j.retention),
	)

	j.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			j.log.Info("janitor_stopped")
			return nil
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	start := time.Now()
	n, err := j.pruner.Prune(ctx, j.retention)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		j.log.Error("janitor_sweep_failed", zap.Error(err), zap.Int("removed", n))
		return
	}
	j.log.Debug("janitor_sweep",
		zap.Int("removed", n),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}
