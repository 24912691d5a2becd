// Package sweeper reclaims orphaned blobs. Deleting a message or
// swapping an avatar only drops the document's reference; the bytes stay
// in the blob store until a sweep finds them unreferenced and past the
// grace period.
package sweeper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adhocore/gronx"

	"pairlog/pkg/bridge"
	"pairlog/pkg/config"
	"pairlog/pkg/logger"
	"pairlog/pkg/state"
)

// Start starts the sweep scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg config.SweepConfig, b *bridge.Bridge) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("sweep_disabled")
		return func() {}, nil
	}

	sweepPath := state.PathsVar.Sweep
	if err := os.MkdirAll(sweepPath, 0o700); err != nil {
		logger.Error("sweep_path_create_failed", "path", sweepPath, "error", err)
		return nil, err
	}

	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "0 4 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("sweep_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid sweep cron expression: %s", cfg.Cron)
	}

	logger.Info("sweep_enabled", "cron", cronExpr, "grace", cfg.GracePeriod.Duration().String(), "path", sweepPath)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cfg, b, sweepPath, cronExpr)
	return cancel, nil
}

// runScheduler uses gronx to compute the next tick for the configured
// cron expression and sleeps until that time.
func runScheduler(ctx context.Context, cfg config.SweepConfig, b *bridge.Bridge, sweepPath, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("sweep_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("sweep_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("sweep_scheduler_stopping")
				return
			}
			continue
		}

		wait := time.Until(next)
		if wait <= 0 {
			wait = time.Second
		}
		select {
		case <-time.After(wait):
			if err := RunOnce(ctx, cfg, b, sweepPath); err != nil {
				logger.Error("sweep_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("sweep_scheduler_stopping")
			return
		}
	}
}

// markerFile records when the last sweep completed.
const markerFile = "last_run"

// writeMarker is best-effort; a failed marker write never fails the run.
func writeMarker(sweepPath string) {
	if sweepPath == "" {
		return
	}
	_ = os.WriteFile(filepath.Join(sweepPath, markerFile), []byte(time.Now().UTC().Format(time.RFC3339)), 0o600)
}
