package app

import (
	"fmt"

	"github.com/adhocore/gronx"

	"pairlog/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// and focused so callers can surface user-friendly errors.
func validateConfig(cfg *config.Config) error {
	if cfg.Storage.DBPath == "" {
		return fmt.Errorf("database path is empty: set --db flag, PAIRLOG_DB_PATH env, or storage.db_path in config")
	}
	if cfg.Storage.MaxBlobSize < 0 {
		return fmt.Errorf("storage.max_blob_size must not be negative")
	}
	if cfg.Sweep.Enabled && cfg.Sweep.Cron != "" && !gronx.IsValid(cfg.Sweep.Cron) {
		return fmt.Errorf("invalid sweep.cron expression: %s", cfg.Sweep.Cron)
	}
	if cfg.Security.RateLimit.RPS < 0 {
		return fmt.Errorf("security.rate_limit.rps must not be negative")
	}
	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}
	return nil
}
