package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"exclusioncheck/database"
	"exclusioncheck/internal/config"
	"exclusioncheck/screening"
)

func main() {
	clientPath := flag.String("client", "", "Path to the client YAML config")
	month := flag.String("month", "", "Reporting month, YYYY-MM")
	staff := flag.String("staff", "", "Staff roster (CSV or XLSX)")
	board := flag.String("board", "", "Board roster (CSV or XLSX)")
	vendors := flag.String("vendors", "", "Vendor list (CSV or XLSX)")
	oigPath := flag.String("oig", "", "OIG extract used for the snapshot, recorded as a fingerprint")
	samPath := flag.String("sam", "", "SAM extract used for the snapshot, recorded as a fingerprint")
	flag.Parse()

	if *clientPath == "" || *month == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	client, err := config.LoadClientConfig(*clientPath)
	if err != nil {
		log.Fatalf("failed to load client config: %v", err)
	}

	cache, err := database.NewReferenceCache(cfg.ReferenceCacheDir)
	if err != nil {
		log.Fatalf("failed to open reference cache: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := screening.NewRunner(cache, cfg.RunsDir).Run(ctx, screening.Request{
		Client:     client,
		Month:      *month,
		StaffPath:  *staff,
		BoardPath:  *board,
		VendorPath: *vendors,
		OIGPath:    *oigPath,
		SAMPath:    *samPath,
	})
	if err != nil {
		log.Fatalf("screening failed: %v", err)
	}

	m := report.Metadata
	fmt.Println("\n--- Exclusion Check ---")
	fmt.Printf("Client: %s\n", m.Client)
	fmt.Printf("Month: %s\n", m.Month)
	fmt.Printf("Run ID: %s\n", m.RunID)
	fmt.Printf("Staff: %d\n", m.StaffCount)
	fmt.Printf("Board: %d\n", m.BoardCount)
	fmt.Printf("Vendors: %d\n", m.VendorCount)
	fmt.Printf("Confirmed: %d\n", m.ConfirmedCount)
	fmt.Printf("Review items: %d\n", m.ReviewCount)
	for _, f := range report.Failures {
		fmt.Printf("FAILED %s\n", f.Error())
	}
	fmt.Printf("Audit workbook: %s\n", report.AuditPath)

	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}
