// Package bridge glues the pure document operations to the stores: it
// owns the in-memory pair collection, runs migration once at load, and
// writes the whole serialized document back to the metadata store after
// every successful mutation. The write is a full-document overwrite, not a
// diff; each edit costs O(document size) in exchange for having no
// partial-write states to reconcile.
package bridge

import (
	"sync"

	"pairlog/pkg/logger"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"
	"pairlog/pkg/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// pairsKey is the fixed metadata key the whole pair array lives under.
// The key names are carried over from the legacy document format so
// existing stores load as-is.
const pairsKey = "pair-chat-data"

var (
	mutationsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_mutations_applied_total",
		Help: "Mutations that changed and persisted the document.",
	})
	mutationsNoop = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_mutations_noop_total",
		Help: "Mutations that targeted unknown IDs and changed nothing.",
	})
	mutationsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_mutations_rejected_total",
		Help: "Mutations rejected by an invariant guard or a failed write.",
	})
)

// Bridge holds the live document. A single mutex serializes mutations:
// every operation reads the latest document and writes the whole thing
// back, so within this process there is no lost-update window.
type Bridge struct {
	mu  sync.Mutex
	doc []models.Pair
}

// Load reads the pair collection from the metadata store, runs migration
// before the document is exposed to any mutation, and persists the
// migrated form when anything was backfilled. A missing or unparsable
// document starts empty.
func Load() (*Bridge, error) {
	doc := []models.Pair{}
	if !store.LoadJSON(pairsKey, &doc) {
		logger.Info("pairs_document_absent", "key", pairsKey)
	}
	migrated := pairs.Migrate(doc)
	if !sameDoc(doc, migrated) {
		if err := store.SaveJSON(pairsKey, migrated); err != nil {
			return nil, err
		}
		logger.Info("pairs_document_migrated", "pairs", len(migrated))
	}
	logger.Info("pairs_document_loaded", "pairs", len(migrated))
	return &Bridge{doc: migrated}, nil
}

// Snapshot returns the current document. Operations never mutate a
// document in place, so the snapshot stays valid while later mutations
// build new ones.
func (b *Bridge) Snapshot() []models.Pair {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

// Apply runs a pure operation against the latest document and persists
// the result. It reports whether the document changed; an unchanged
// result (unknown target ID) skips the write. A failed write keeps the
// previous document so memory and store never diverge.
func (b *Bridge) Apply(op func([]models.Pair) []models.Pair) (bool, error) {
	return b.ApplyGuarded(func(doc []models.Pair) ([]models.Pair, error) {
		return op(doc), nil
	})
}

// ApplyGuarded is Apply for operations that can reject with an invariant
// guard error. On rejection the document is left untouched and the error
// is returned for the caller to surface.
func (b *Bridge) ApplyGuarded(op func([]models.Pair) ([]models.Pair, error)) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := op(b.doc)
	if err != nil {
		mutationsRejected.Inc()
		return false, err
	}
	if sameDoc(b.doc, next) {
		mutationsNoop.Inc()
		return false, nil
	}
	if err := store.SaveJSON(pairsKey, next); err != nil {
		mutationsRejected.Inc()
		return false, err
	}
	b.doc = next
	mutationsApplied.Inc()
	return true, nil
}

// sameDoc reports whether two documents are the same value. Operations
// return their input slice untouched on a no-op, so identity of the
// backing array is the signal.
func sameDoc(a, b []models.Pair) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
