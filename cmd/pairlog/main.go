package main

import (
	"context"
	"fmt"
	"os"

	"pairlog/internal/app"
	"pairlog/pkg/config"
	"pairlog/pkg/logger"
	"pairlog/pkg/shutdown"
)

// set build metadata
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	flags := config.ParseConfigFlags()

	cfgPath := config.ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.ApplyFlags(cfg, flags)

	// initialize logger after config is fully loaded
	logger.InitWithFormat(cfg.Logging.Level, cfg.Logging.Format)

	source := configSource(flags, envUsed, cfgPath)
	logger.Info("effective_config_loaded", "source", source, "addr", cfg.Addr(), "db_path", cfg.Storage.DBPath)

	a, err := app.New(cfg, source, version, commit, buildDate)
	if err != nil {
		shutdown.Abort("failed to initialize app", err, cfg.Storage.DBPath)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("server exited with error", err, cfg.Storage.DBPath)
	}
}

// configSource names the highest-priority layer that contributed to the
// effective config, for the startup log and banner.
func configSource(flags config.Flags, envUsed bool, cfgPath string) string {
	if flags.Set["addr"] || flags.Set["db"] {
		return "flags"
	}
	if envUsed {
		return "env"
	}
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath
	}
	return "defaults"
}
