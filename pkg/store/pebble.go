package store

import (
	"bytes"
	"errors"
	"fmt"

	"pairlog/pkg/logger"

	"github.com/cockroachdb/pebble"
)

// One Pebble database backs both stores under separate key namespaces:
// "meta:<key>" holds independently serialized JSON documents and
// "blob:<id>" holds raw binary payloads. There is no transactional link
// between the two; metadata may reference a blob ID that no longer
// resolves and readers treat that as "unavailable", not fatal.

var (
	db     *pebble.DB
	dbPath string
)

const (
	metaPrefix = "meta:"
	blobPrefix = "blob:"
)

// Open opens (or creates) the Pebble database at the given path and keeps
// a global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	dbPath = ""
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// Path returns the directory the database was opened at.
func Path() string { return dbPath }

func ensureOpen() error {
	if db == nil {
		return errors.New("pebble not opened; call store.Open first")
	}
	return nil
}

// SaveMeta writes a raw serialized document under the given metadata key,
// overwriting any previous value. Each key holds one whole document.
func SaveMeta(key string, data []byte) error {
	if err := ensureOpen(); err != nil {
		return err
	}
	if err := db.Set([]byte(metaPrefix+key), data, pebble.Sync); err != nil {
		logger.Error("save_meta_failed", "key", key, "error", err)
		return fmt.Errorf("save meta %q: %w", key, err)
	}
	metaWrites.Inc()
	logger.Debug("meta_saved", "key", key, "len", len(data))
	return nil
}

// LoadMeta returns the raw stored document for a metadata key, or false
// when the key is absent. Read errors other than not-found are logged and
// reported as absent so callers fall back to their defaults instead of
// failing.
func LoadMeta(key string) ([]byte, bool) {
	if err := ensureOpen(); err != nil {
		logger.Error("load_meta_failed", "key", key, "error", err)
		return nil, false
	}
	v, closer, err := db.Get([]byte(metaPrefix + key))
	if err != nil {
		if !errors.Is(err, pebble.ErrNotFound) {
			metaReadFailures.Inc()
			logger.Error("load_meta_failed", "key", key, "error", err)
		}
		return nil, false
	}
	out := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	return out, true
}

// ListMetaKeys returns all metadata keys present in the store.
func ListMetaKeys() ([]string, error) {
	if err := ensureOpen(); err != nil {
		return nil, err
	}
	prefix := []byte(metaPrefix)
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
