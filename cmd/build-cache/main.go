package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exclusioncheck/database"
	"exclusioncheck/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run builds one monthly snapshot and returns the process exit code. A
// refused build (snapshot exists, no -force) is a failure.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("build-cache", flag.ContinueOnError)
	fs.SetOutput(stderr)
	month := fs.String("month", "", "Reporting month, YYYY-MM")
	oigPath := fs.String("oig", "", "Path to the OIG LEIE extract (CSV)")
	samPath := fs.String("sam", "", "Path to the SAM exclusions extract (CSV)")
	force := fs.Bool("force", false, "Replace an existing snapshot for the month")
	cacheDir := fs.String("cache-dir", "", "Reference cache directory (default from REFERENCE_CACHE_DIR)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *month == "" || *oigPath == "" || *samPath == "" {
		fs.Usage()
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	dir := cfg.ReferenceCacheDir
	if *cacheDir != "" {
		dir = *cacheDir
	}

	cache, err := database.NewReferenceCache(dir, database.WithBatchSize(cfg.SAMBatchSize))
	if err != nil {
		fmt.Fprintf(stderr, "failed to open reference cache: %v\n", err)
		return 1
	}

	summary, err := cache.Build(ctx, database.BuildRequest{
		Month:        *month,
		OIGPath:      *oigPath,
		SAMPath:      *samPath,
		ForceRebuild: *force,
	})
	if errors.Is(err, database.ErrSnapshotAlreadyExists) {
		fmt.Fprintf(stderr, "Snapshot for %s already exists at %s (use -force to rebuild)\n", *month, cache.CachePath(*month))
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to build snapshot: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "\n--- Reference Snapshot ---")
	fmt.Fprintf(stdout, "Month: %s\n", summary.Month)
	fmt.Fprintf(stdout, "Path: %s\n", summary.Path)
	fmt.Fprintf(stdout, "Replaced: %t\n", summary.Replaced)
	fmt.Fprintf(stdout, "OIG rows: %d (people %d, entities %d)\n", summary.OIGRows, summary.OIGPeople, summary.OIGEntities)
	fmt.Fprintf(stdout, "SAM rows: %d (people %d, entities %d)\n", summary.SAMRows, summary.SAMPeople, summary.SAMEntities)
	fmt.Fprintf(stdout, "OIG sha256: %s\n", summary.OIGSHA256)
	fmt.Fprintf(stdout, "SAM sha256: %s\n", summary.SAMSHA256)
	fmt.Fprintf(stdout, "Duration: %s\n", summary.Duration.Round(time.Millisecond))
	return 0
}
