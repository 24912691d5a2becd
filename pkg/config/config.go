package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied where the file and environment leave a value unset.
const (
	defaultAddress     = "127.0.0.1"
	defaultPort        = 4517
	defaultDBPath      = "./.pairlog"
	defaultMaxBlobSize = SizeBytes(64 << 20)
	defaultSweepCron   = "0 4 * * *"
	defaultSweepGrace  = Duration(24 * time.Hour)
)

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = defaultAddress
	}
	p := c.Server.Port
	if p == 0 {
		p = defaultPort
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// ApplyDefaults fills unset values. Called after file and env merging so
// every consumer sees complete settings.
func (c *Config) ApplyDefaults() {
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = defaultDBPath
	}
	if c.Storage.MaxBlobSize == 0 {
		c.Storage.MaxBlobSize = defaultMaxBlobSize
	}
	if c.Sweep.Cron == "" {
		c.Sweep.Cron = defaultSweepCron
	}
	if c.Sweep.GracePeriod == 0 {
		c.Sweep.GracePeriod = defaultSweepGrace
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvOverrides applies environment overrides onto the provided cfg
// and reports whether any env var was used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	parseList := func(v string) []string {
		parts := []string{}
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("PAIRLOG_ADDRESS"); v != "" {
		envUsed = true
		cfg.Server.Address = v
	}
	if v := os.Getenv("PAIRLOG_PORT"); v != "" {
		envUsed = true
		if pi, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = pi
		}
	}
	if v := os.Getenv("PAIRLOG_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("PAIRLOG_MAX_BLOB_SIZE"); v != "" {
		envUsed = true
		var sb SizeBytes
		if err := sb.UnmarshalYAML(&yaml.Node{Value: v}); err == nil {
			cfg.Storage.MaxBlobSize = sb
		}
	}
	if v := os.Getenv("PAIRLOG_CORS_ORIGINS"); v != "" {
		envUsed = true
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("PAIRLOG_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("PAIRLOG_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("PAIRLOG_SWEEP_ENABLED"); v != "" {
		envUsed = true
		vl := strings.ToLower(strings.TrimSpace(v))
		cfg.Sweep.Enabled = vl == "1" || vl == "true" || vl == "yes"
	}
	if v := os.Getenv("PAIRLOG_SWEEP_CRON"); v != "" {
		envUsed = true
		cfg.Sweep.Cron = v
	}
	if v := os.Getenv("PAIRLOG_SWEEP_GRACE"); v != "" {
		if td, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Sweep.GracePeriod = Duration(td)
		}
	}
	if v := os.Getenv("PAIRLOG_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PAIRLOG_LOG_FORMAT"); v != "" {
		envUsed = true
		cfg.Logging.Format = v
	}
	return envUsed
}

// LoadEffective loads config from the given path and applies environment
// overrides and defaults. A missing file is not an error; env and
// defaults still apply.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, false, err
		}
		cfg = &Config{}
	}
	envUsed := LoadEnvOverrides(cfg)
	cfg.ApplyDefaults()
	return cfg, envUsed, nil
}

// ResolveConfigPath decides the config file path using the flag-provided
// value and the environment variable `PAIRLOG_CONFIG` when the flag was
// not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("PAIRLOG_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
