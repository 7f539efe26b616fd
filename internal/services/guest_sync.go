package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/disciplinehub/backend/internal/infrastructure/gueststore"
	"github.com/disciplinehub/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// SyncConfig controls how frequently claimed guest tasks are drained.
type SyncConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// GuestSyncProcessor moves claimed guest tasks from the local bolt store into
// the primary task repository whenever the primary stores are reachable.
type GuestSyncProcessor struct {
	store    *gueststore.Store
	monitor  ConnectionHealth
	taskRepo repository.TaskRepository
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      SyncConfig
}

func NewGuestSyncProcessor(
	store *gueststore.Store,
	monitor ConnectionHealth,
	taskRepo repository.TaskRepository,
	logger *zap.Logger,
	cfg SyncConfig,
) *GuestSyncProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gp := &GuestSyncProcessor{
		store:    store,
		monitor:  monitor,
		taskRepo: taskRepo,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = gp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := gp.Drain(ctx); err != nil {
			gp.logger.Error("guest sync drain failed", zap.Error(err))
		}
	})

	return gp
}

// Start launches the cron scheduler.
func (gp *GuestSyncProcessor) Start() {
	if gp == nil || gp.cron == nil {
		return
	}
	gp.cron.Start()
	gp.logger.Info("guest sync processor started")
}

// Stop gracefully stops the scheduler.
func (gp *GuestSyncProcessor) Stop(ctx context.Context) {
	if gp == nil || gp.cron == nil {
		return
	}
	stopCtx := gp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	gp.logger.Info("guest sync processor stopped")
}

// Drain imports claimed guest tasks synchronously.
func (gp *GuestSyncProcessor) Drain(ctx context.Context) error {
	if gp == nil || gp.store == nil {
		return nil
	}
	if gp.monitor != nil && !gp.monitor.IsOnline() {
		gp.logger.Debug("skipping guest sync (offline)")
		return nil
	}

	records, err := gp.store.ClaimedBatch(gp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := gp.importRecord(ctx, rec); err != nil {
			gp.logger.Error("failed to import guest task",
				zap.String("record_id", rec.ID),
				zap.String("user_id", rec.ClaimedBy),
				zap.Error(err))

			rec.Retries++
			if rec.Retries >= gp.cfg.MaxRetries {
				gp.logger.Warn("dropping guest task (max retries reached)", zap.String("record_id", rec.ID))
				_ = gp.store.Remove(rec.ID)
				continue
			}
			if err := gp.store.Update(rec); err != nil {
				gp.logger.Warn("failed to update guest task retries", zap.Error(err))
			}
			continue
		}

		if err := gp.store.Remove(rec.ID); err != nil {
			gp.logger.Warn("failed to purge imported guest task", zap.Error(err))
		}
	}
	return nil
}

func (gp *GuestSyncProcessor) importRecord(ctx context.Context, rec gueststore.Record) error {
	if ctx == nil {
		ctx = context.Background()
	}
	task := rec.Task
	task.UserID = rec.ClaimedBy
	// A fresh id avoids colliding with a task imported by an earlier partial drain.
	task.ID = ""
	_, err := gp.taskRepo.Create(ctx, &task)
	return err
}
