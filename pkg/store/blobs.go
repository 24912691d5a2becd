package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"pairlog/pkg/logger"
	"pairlog/pkg/utils"

	"github.com/cockroachdb/pebble"
)

// ErrBlobNotFound is returned when a blob ID does not resolve. Metadata
// may legitimately still reference such an ID; display code renders
// "unavailable" rather than failing.
var ErrBlobNotFound = errors.New("blob not found")

// PutBlob stores a binary payload and returns its store-assigned ID.
// Callers must commit a blob before writing metadata that references it,
// so the document never carries a dangling forward-reference.
func PutBlob(ctx context.Context, data []byte) (string, error) {
	if err := ensureOpen(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := utils.GenBlobID()
	if err := db.Set([]byte(blobPrefix+id), data, pebble.Sync); err != nil {
		logger.Error("blob_put_failed", "id", id, "error", err)
		return "", fmt.Errorf("put blob: %w", err)
	}
	blobOps.WithLabelValues("put").Inc()
	blobBytesWritten.Add(float64(len(data)))
	logger.Debug("blob_saved", "id", id, "len", len(data))
	return id, nil
}

// GetBlob returns a copy of the blob's payload, or ErrBlobNotFound. The
// underlying storage handle is released before returning, so callers own
// the bytes outright.
func GetBlob(ctx context.Context, id string) ([]byte, error) {
	if err := ensureOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, closer, err := db.Get([]byte(blobPrefix + id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrBlobNotFound
		}
		logger.Error("blob_get_failed", "id", id, "error", err)
		return nil, err
	}
	out := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	blobOps.WithLabelValues("get").Inc()
	return out, nil
}

// DeleteBlob removes a blob. Deleting a missing ID is not an error.
func DeleteBlob(ctx context.Context, id string) error {
	if err := ensureOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := db.Delete([]byte(blobPrefix+id), pebble.Sync); err != nil {
		logger.Error("blob_delete_failed", "id", id, "error", err)
		return err
	}
	blobOps.WithLabelValues("delete").Inc()
	return nil
}

// ListBlobIDs returns the IDs of all stored blobs, for the sweeper.
func ListBlobIDs() ([]string, error) {
	if err := ensureOpen(); err != nil {
		return nil, err
	}
	prefix := []byte(blobPrefix)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		out = append(out, string(iter.Key()[len(prefix):]))
	}
	return out, iter.Error()
}
