package sweeper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pairlog/pkg/bridge"
	"pairlog/pkg/config"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"
	"pairlog/pkg/store"
)

func openStore(t *testing.T) {
	t.Helper()
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
}

func TestCollectRefs(t *testing.T) {
	me := models.NewDefaultCharacterVersion("M", "m")
	me.Avatar = "blob-avatar"
	me.ProfileBanner = "blob-banner"
	doc := []models.Pair{{
		ID:              "p",
		BackgroundImage: "blob-bg",
		SlideImages:     []string{"blob-s1", "blob-s2"},
		Characters: models.Characters{
			Me:    []models.CharacterVersion{me},
			Other: []models.CharacterVersion{models.NewDefaultCharacterVersion("O", "o")},
		},
		Conversations: []models.Conversation{{
			ID: "c",
			Messages: []models.Message{
				{Type: models.MessageImage, Content: pairs.TextContent("blob-img")},
				{Type: models.MessageVideo, Content: pairs.TextContent("blob-vid")},
				{Type: models.MessageText, Content: pairs.TextContent("blob-not-a-ref")},
			},
			Stickers: []models.Sticker{{ID: "st", ImageID: "blob-sticker"}},
		}},
	}}

	refs := collectRefs(doc)
	for _, want := range []string{
		"blob-bg", "blob-s1", "blob-s2", "blob-avatar", "blob-banner",
		"blob-img", "blob-vid", "blob-sticker",
	} {
		if !refs[want] {
			t.Errorf("missing reference %s", want)
		}
	}
	if refs["blob-not-a-ref"] {
		t.Error("text content must not count as a blob reference")
	}
	if refs[""] {
		t.Error("empty IDs must not be collected")
	}
}

func TestRunOnceDeletesOrphans(t *testing.T) {
	openStore(t)
	ctx := context.Background()

	kept, err := store.PutBlob(ctx, []byte("referenced"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	orphan, err := store.PutBlob(ctx, []byte("orphaned"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	b, err := bridge.Load()
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}
	if _, err := b.Apply(func(doc []models.Pair) []models.Pair {
		doc = pairs.CreatePair(doc, pairs.PairDetails{Title: "x", BackgroundImage: kept})
		return doc
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sweepPath := t.TempDir()
	// Zero grace so freshly written blobs are eligible.
	cfg := config.SweepConfig{GracePeriod: config.Duration(0)}
	if err := RunOnce(ctx, cfg, b, sweepPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := store.GetBlob(ctx, kept); err != nil {
		t.Fatalf("referenced blob deleted: %v", err)
	}
	if _, err := store.GetBlob(ctx, orphan); !errors.Is(err, store.ErrBlobNotFound) {
		t.Fatalf("orphan survived: %v", err)
	}

	if _, err := os.Stat(filepath.Join(sweepPath, markerFile)); err != nil {
		t.Fatalf("marker not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sweepPath, lockFile)); !os.IsNotExist(err) {
		t.Fatal("lock file not released")
	}
}

func TestRunOnceGracePeriod(t *testing.T) {
	openStore(t)
	ctx := context.Background()

	orphan, err := store.PutBlob(ctx, []byte("young orphan"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	b, err := bridge.Load()
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}

	cfg := config.SweepConfig{GracePeriod: config.Duration(24 * time.Hour)}
	if err := RunOnce(ctx, cfg, b, t.TempDir()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := store.GetBlob(ctx, orphan); err != nil {
		t.Fatalf("blob inside the grace period must survive: %v", err)
	}
}

func TestRunOnceDryRun(t *testing.T) {
	openStore(t)
	ctx := context.Background()

	orphan, err := store.PutBlob(ctx, []byte("orphaned"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	b, err := bridge.Load()
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}

	cfg := config.SweepConfig{GracePeriod: config.Duration(0), DryRun: true}
	if err := RunOnce(ctx, cfg, b, t.TempDir()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := store.GetBlob(ctx, orphan); err != nil {
		t.Fatalf("dry run must not delete: %v", err)
	}
}

func TestRunOnceRespectsLock(t *testing.T) {
	openStore(t)
	b, err := bridge.Load()
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}
	sweepPath := t.TempDir()
	if err := os.WriteFile(filepath.Join(sweepPath, lockFile), nil, 0o600); err != nil {
		t.Fatalf("plant lock: %v", err)
	}

	orphan, err := store.PutBlob(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	cfg := config.SweepConfig{GracePeriod: config.Duration(0)}
	if err := RunOnce(context.Background(), cfg, b, sweepPath); err != nil {
		t.Fatalf("locked run must return nil: %v", err)
	}
	if _, err := store.GetBlob(context.Background(), orphan); err != nil {
		t.Fatal("locked run must not sweep")
	}
}
