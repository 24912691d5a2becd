package banner

import (
	"fmt"

	"pairlog/pkg/config"
)

const banner = `
██████╗  █████╗ ██╗██████╗ ██╗      ██████╗  ██████╗
██╔══██╗██╔══██╗██║██╔══██╗██║     ██╔═══██╗██╔════╝
██████╔╝███████║██║██████╔╝██║     ██║   ██║██║  ███╗
██╔═══╝ ██╔══██║██║██╔══██╗██║     ██║   ██║██║   ██║
██║     ██║  ██║██║██║  ██║███████╗╚██████╔╝╚██████╔╝
╚═╝     ╚═╝  ╚═╝╚═╝╚═╝  ╚═╝╚══════╝ ╚═════╝  ╚═════╝
`

// Print writes the startup banner and effective runtime info.
func Print(cfg *config.Config, version, source string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:    %s\n", cfg.Addr())
	fmt.Printf("Data Path: %s\n", cfg.Storage.DBPath)
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	if source != "" {
		fmt.Printf("Config:    %s\n", source)
	}

	if cfg.Sweep.Enabled {
		sweepInfo := "cron=" + cfg.Sweep.Cron
		if cfg.Sweep.DryRun {
			sweepInfo += " (dry run)"
		}
		fmt.Printf("Sweep:     enabled (%s)\n", sweepInfo)
	} else {
		fmt.Println("Sweep:     disabled")
	}

	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl 'http://%s/v1/pairs'\n", cfg.Addr())
	fmt.Printf("curl -X POST 'http://%s/v1/pairs' -d '{\"title\":\"new pair\"}'\n", cfg.Addr())
	fmt.Println("Docs at /docs/ once the server is up.")

	fmt.Println("\n== Logs: =================================================")
}
