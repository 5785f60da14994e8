package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"exclusioncheck/database"
	"exclusioncheck/internal/config"
)

func main() {
	fmt.Println("=== Configuration check ===")
	fmt.Println("")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Server:")
	fmt.Printf("  Port: %s\n", cfg.Port)
	fmt.Printf("  Shutdown timeout: %v\n", cfg.ShutdownTimeout)
	fmt.Printf("  Rate limit: %.1f/s (burst %d)\n", cfg.RateLimitPerSec, cfg.RateLimitBurst)
	fmt.Printf("  Log level: %s\n", cfg.LogLevel)
	fmt.Println("")

	fmt.Println("Storage:")
	fmt.Printf("  Data dir: %s\n", cfg.DataDir)
	fmt.Printf("  Reference cache: %s\n", cfg.ReferenceCacheDir)
	fmt.Printf("  Runs: %s\n", cfg.RunsDir)
	fmt.Printf("  Clients: %s\n", cfg.ClientsDir)
	fmt.Printf("  SAM batch size: %d\n", cfg.SAMBatchSize)
	fmt.Println("")

	if cache, err := database.NewReferenceCache(cfg.ReferenceCacheDir); err != nil {
		fmt.Printf("Reference cache: %v\n", err)
	} else if snapshots, err := cache.List(); err != nil {
		fmt.Printf("Reference cache: %v\n", err)
	} else {
		fmt.Printf("Snapshots: %d\n", len(snapshots))
		for _, s := range snapshots {
			fmt.Printf("  %s  %d bytes\n", s.Month, s.SizeBytes)
		}
	}
	fmt.Println("")

	failed := checkClients(cfg.ClientsDir)

	fmt.Println("=== Check complete ===")
	if failed {
		os.Exit(1)
	}
}

// checkClients loads every client config in dir and reports whether any is invalid.
func checkClients(dir string) bool {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	fmt.Printf("Client configs: %d\n", len(paths))
	failed := false
	for _, path := range paths {
		client, err := config.LoadClientConfig(path)
		if err != nil {
			fmt.Printf("  %s: %v\n", filepath.Base(path), err)
			failed = true
			continue
		}
		var sections []string
		for _, name := range []string{"staff", "board", "vendors"} {
			if client.Section(name) != nil {
				sections = append(sections, name)
			}
		}
		fmt.Printf("  %s: %s %v\n", filepath.Base(path), client.ClientName, sections)
	}
	fmt.Println("")
	return failed
}
