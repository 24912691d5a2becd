package sweeper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pairlog/pkg/bridge"
	"pairlog/pkg/config"
	"pairlog/pkg/logger"
	"pairlog/pkg/models"
	"pairlog/pkg/store"
	"pairlog/pkg/utils"
)

var (
	sweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_sweep_runs_total",
		Help: "Completed sweep runs.",
	})
	sweepDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_sweep_blobs_deleted_total",
		Help: "Blobs deleted by the sweeper.",
	})
	sweepSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_sweep_blobs_skipped_total",
		Help: "Unreferenced blobs kept because they are within the grace period.",
	})
)

// lockFile guards against overlapping runs, including a second process
// pointed at the same data dir.
const lockFile = "sweep.lock"

// RunOnce performs one mark-and-sweep pass: collect every blob ID the
// document references, list the store, and delete what is unreferenced
// and older than the grace period. The document snapshot is taken once;
// a blob uploaded mid-run is protected by its creation-time grace.
func RunOnce(ctx context.Context, cfg config.SweepConfig, b *bridge.Bridge, sweepPath string) error {
	lock := filepath.Join(sweepPath, lockFile)
	f, err := os.OpenFile(lock, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			logger.Warn("sweep_already_running", "lock", lock)
			return nil
		}
		return fmt.Errorf("sweep lock: %w", err)
	}
	f.Close()
	defer os.Remove(lock)

	start := time.Now()
	referenced := collectRefs(b.Snapshot())
	ids, err := store.ListBlobIDs()
	if err != nil {
		return err
	}

	grace := cfg.GracePeriod.Duration()
	cutoff := time.Now().Add(-grace)
	deleted, skipped := 0, 0
	batch := 0
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if referenced[id] {
			continue
		}
		if t := utils.BlobIDTime(id); !t.IsZero() && t.After(cutoff) {
			skipped++
			sweepSkipped.Inc()
			continue
		}
		if cfg.DryRun {
			logger.Info("sweep_would_delete", "blob", id)
			deleted++
			continue
		}
		if err := store.DeleteBlob(ctx, id); err != nil {
			logger.Error("sweep_delete_failed", "blob", id, "error", err)
			continue
		}
		deleted++
		sweepDeleted.Inc()

		batch++
		if cfg.BatchSize > 0 && batch >= cfg.BatchSize {
			batch = 0
			if sleep := cfg.BatchSleep.Duration(); sleep > 0 {
				select {
				case <-time.After(sleep):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}

	sweepRuns.Inc()
	writeMarker(sweepPath)
	logger.Info("sweep_completed",
		"total", len(ids),
		"referenced", len(referenced),
		"deleted", deleted,
		"skipped", skipped,
		"dry_run", cfg.DryRun,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// collectRefs walks the whole document and gathers every blob reference:
// pair backgrounds and slides, character avatars and banners, image and
// video message content, and sticker images.
func collectRefs(doc []models.Pair) map[string]bool {
	refs := map[string]bool{}
	add := func(id string) {
		if id != "" {
			refs[id] = true
		}
	}
	for i := range doc {
		p := &doc[i]
		add(p.BackgroundImage)
		for _, id := range p.SlideImages {
			add(id)
		}
		for _, list := range [][]models.CharacterVersion{p.Characters.Me, p.Characters.Other} {
			for _, v := range list {
				add(v.Avatar)
				add(v.ProfileBanner)
			}
		}
		for ci := range p.Conversations {
			c := &p.Conversations[ci]
			for _, m := range c.Messages {
				if m.Type == models.MessageImage || m.Type == models.MessageVideo {
					add(m.TextContent())
				}
			}
			for _, st := range c.Stickers {
				add(st.ImageID)
			}
		}
	}
	return refs
}
