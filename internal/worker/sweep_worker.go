package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/config"
	"github.com/spec-kit/maintenance-sla/internal/persistence"
	"github.com/spec-kit/maintenance-sla/internal/service"
)

const sweepLockKey = "sla:sweep:lock"

// SweepWorker runs the SLA sweep on a fixed interval. Singleton gocron mode
// prevents overlapping runs inside one process; the redis advisory lock
// keeps multiple instances from sweeping the same tick.
type SweepWorker struct {
	scheduler gocron.Scheduler
	sweep     *service.SweepService
	redis     *persistence.Redis
	cfg       config.SweepConfig
	logger    *zap.Logger
	instance  string
}

// NewSweepWorker constructs the worker.
func NewSweepWorker(sweep *service.SweepService, redis *persistence.Redis, cfg config.SweepConfig, logger *zap.Logger) (*SweepWorker, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &SweepWorker{
		scheduler: scheduler,
		sweep:     sweep,
		redis:     redis,
		cfg:       cfg,
		logger:    logger,
		instance:  uuid.NewString(),
	}, nil
}

// Start registers the sweep job and begins ticking. No-op when the sweep is
// disabled by configuration.
func (w *SweepWorker) Start() error {
	if !w.cfg.Enabled {
		w.logger.Info("sla sweep disabled by configuration")
		return nil
	}

	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.cfg.Interval()),
		gocron.NewTask(w.tick),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("sla-sweep"),
	)
	if err != nil {
		return err
	}

	w.scheduler.Start()
	w.logger.Info("sla sweep scheduled", zap.Duration("interval", w.cfg.Interval()))
	return nil
}

// Stop shuts the scheduler down, letting an in-flight sweep finish.
func (w *SweepWorker) Stop() {
	if err := w.scheduler.Shutdown(); err != nil {
		w.logger.Warn("sweep scheduler shutdown", zap.Error(err))
	}
}

func (w *SweepWorker) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Interval())
	defer cancel()

	if !w.redis.TryLock(ctx, sweepLockKey, w.instance, w.cfg.LockTTL()) {
		w.logger.Debug("sweep lock held by another instance; skipping tick")
		return
	}
	defer w.redis.Unlock(ctx, sweepLockKey, w.instance)

	start := time.Now()
	if _, err := w.sweep.Run(ctx); err != nil {
		w.logger.Error("sweep run failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)))
	}
}
