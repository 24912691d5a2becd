package store

import (
	"encoding/json"

	"pairlog/pkg/logger"
)

// SaveJSON marshals v and stores it under the metadata key.
func SaveJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return SaveMeta(key, b)
}

// LoadJSON loads and unmarshals the document stored under a metadata key
// into out. A missing key or an unparsable value leaves out untouched and
// returns false; parse errors are logged and treated as "absent", never
// propagated. Callers pre-fill out with their default.
func LoadJSON(key string, out any) bool {
	b, ok := LoadMeta(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		metaReadFailures.Inc()
		logger.Error("meta_parse_failed", "key", key, "error", err)
		return false
	}
	return true
}
