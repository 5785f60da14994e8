package screening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"exclusioncheck/database"
	"exclusioncheck/internal/config"
	"exclusioncheck/matching"
	"exclusioncheck/normalization/algorithms"
)

var (
	// ErrInvalidRequest is returned for requests missing a client or inputs.
	ErrInvalidRequest = errors.New("invalid screening request")
	// ErrSectionMissing is returned when an input is supplied for a category
	// the client configuration does not describe.
	ErrSectionMissing = errors.New("client config has no section for category")
)

// Request describes one screening run. Input paths left empty skip their
// category. OIGPath and SAMPath are optional and only fingerprint the run.
type Request struct {
	Client     *config.ClientConfig
	Month      string
	StaffPath  string
	BoardPath  string
	VendorPath string
	OIGPath    string
	SAMPath    string
}

// RunObserver receives finished runs. internal/monitoring implements it.
type RunObserver interface {
	ObserveRun(result string, d time.Duration, records map[string]int)
}

// Runner screens client inputs against built reference snapshots and keeps
// the run history.
type Runner struct {
	cache    *database.ReferenceCache
	runsDir  string
	recorder matching.Recorder
	observer RunObserver
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMatchRecorder reports every match made during runs.
func WithMatchRecorder(r matching.Recorder) RunnerOption {
	return func(rn *Runner) {
		rn.recorder = r
	}
}

// WithRunObserver reports finished runs.
func WithRunObserver(o RunObserver) RunnerOption {
	return func(rn *Runner) {
		rn.observer = o
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RunnerOption {
	return func(rn *Runner) {
		rn.now = now
	}
}

// NewRunner creates a runner writing run directories below runsDir.
func NewRunner(cache *database.ReferenceCache, runsDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		cache:   cache,
		runsDir: runsDir,
		logger:  slog.Default().With("component", "screening_runner"),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run screens every supplied category, writes Audit.xlsx, metadata.json
// and run_log.txt into the run directory and returns the report.
//
// A category that fails (unresolvable columns, unreadable file) is recorded
// in Report.Failures and the remaining categories still run. A missing
// snapshot, a cancelled context or a failure writing the run directory
// fails the whole run.
func (r *Runner) Run(ctx context.Context, req Request) (report *Report, err error) {
	start := r.now()
	defer func() {
		if r.observer == nil {
			return
		}
		result := "success"
		records := map[string]int{}
		switch {
		case err != nil:
			result = "error"
		case len(report.Failures) > 0:
			result = "partial"
		}
		if report != nil {
			records[string(CategoryStaff)] = len(report.Staff)
			records[string(CategoryBoard)] = len(report.Board)
			records[string(CategoryVendors)] = len(report.Vendors)
		}
		r.observer.ObserveRun(result, r.now().Sub(start), records)
	}()

	if req.Client == nil {
		return nil, fmt.Errorf("%w: client config is required", ErrInvalidRequest)
	}
	if err := req.Client.Validate(); err != nil {
		return nil, err
	}
	if req.StaffPath == "" && req.BoardPath == "" && req.VendorPath == "" {
		return nil, fmt.Errorf("%w: no staff, board or vendor input supplied", ErrInvalidRequest)
	}

	snap, err := r.cache.Open(req.Month)
	if err != nil {
		return nil, err
	}
	defer snap.Close()

	report = &Report{
		RunID:  r.newID(),
		Client: req.Client.ClientName,
		Month:  req.Month,
	}
	logger := r.logger.With("run_id", report.RunID, "client", report.Client, "month", report.Month)
	logger.Info("screening run started")

	engine := matching.NewEngine(snap, matching.WithRecorder(r.recorder))
	s := &categoryScreener{engine: engine, client: req.Client}

	categories := []struct {
		category Category
		path     string
		run      func(context.Context, string) (int, error)
	}{
		{CategoryStaff, req.StaffPath, func(ctx context.Context, path string) (int, error) {
			records, err := s.staff(ctx, path)
			report.Staff = records
			return len(records), err
		}},
		{CategoryBoard, req.BoardPath, func(ctx context.Context, path string) (int, error) {
			records, err := s.board(ctx, path)
			report.Board = records
			return len(records), err
		}},
		{CategoryVendors, req.VendorPath, func(ctx context.Context, path string) (int, error) {
			records, err := s.vendors(ctx, path)
			report.Vendors = records
			return len(records), err
		}},
	}

	var logLines []string
	for _, c := range categories {
		if c.path == "" {
			continue
		}
		n, err := c.run(ctx, c.path)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			logger.Warn("category failed", "category", c.category, "error", err)
			report.Failures = append(report.Failures, CategoryFailure{Category: c.category, Err: err})
			logLines = append(logLines, fmt.Sprintf("%s failed: %v", c.category, err))
			continue
		}
		logger.Info("category screened", "category", c.category, "records", n)
		logLines = append(logLines, fmt.Sprintf("%s screened: %d records", c.category, n))
	}

	report.Metadata, err = r.metadata(ctx, snap, req, report)
	if err != nil {
		return nil, err
	}
	if mismatch := fingerprintMismatch(report.Metadata); mismatch != "" {
		logger.Warn("source files differ from snapshot", "detail", mismatch)
		logLines = append(logLines, "warning: "+mismatch)
	}

	if err := r.writeRunDirectory(report, logLines); err != nil {
		return nil, err
	}

	logger.Info("screening run completed",
		"staff", len(report.Staff),
		"board", len(report.Board),
		"vendors", len(report.Vendors),
		"confirmed", report.Metadata.ConfirmedCount,
		"reviews", report.Metadata.ReviewCount,
		"failures", len(report.Failures))
	return report, nil
}

func (r *Runner) metadata(ctx context.Context, snap *database.Snapshot, req Request, report *Report) (Metadata, error) {
	m := Metadata{
		RunID:            report.RunID,
		Client:           report.Client,
		Month:            report.Month,
		EngineVersion:    matching.EngineVersion,
		ThresholdVersion: algorithms.ThresholdVersion,
		Timestamp:        r.now().UTC(),
		StaffCount:       len(report.Staff),
		BoardCount:       len(report.Board),
		VendorCount:      len(report.Vendors),
		ConfirmedCount:   report.confirmedCount(),
		ReviewCount:      len(report.ReviewRows()),
	}
	for _, f := range report.Failures {
		m.FailedCategories = append(m.FailedCategories, string(f.Category))
	}

	var err error
	if req.OIGPath != "" {
		if m.OIGFileHash, err = database.FileChecksum(req.OIGPath); err != nil {
			return m, err
		}
	}
	if req.SAMPath != "" {
		if m.SAMFileHash, err = database.FileChecksum(req.SAMPath); err != nil {
			return m, err
		}
	}

	meta, err := snap.Meta(ctx)
	if err != nil {
		return m, err
	}
	m.SnapshotOIGHash = meta[database.MetaOIGSHA256]
	m.SnapshotSAMHash = meta[database.MetaSAMSHA256]
	m.SnapshotBuiltAt = meta[database.MetaBuiltAt]
	return m, nil
}

// fingerprintMismatch describes supplied source files whose checksum differs
// from the ones the snapshot was built from.
func fingerprintMismatch(m Metadata) string {
	switch {
	case m.OIGFileHash != "" && m.SnapshotOIGHash != "" && m.OIGFileHash != m.SnapshotOIGHash:
		return "OIG file checksum differs from the snapshot's"
	case m.SAMFileHash != "" && m.SnapshotSAMHash != "" && m.SAMFileHash != m.SnapshotSAMHash:
		return "SAM file checksum differs from the snapshot's"
	}
	return ""
}

func (r *Runner) writeRunDirectory(report *Report, logLines []string) error {
	dir, err := CreateRunDirectory(r.runsDir, report.Client, report.Month)
	if err != nil {
		return err
	}
	report.RunDir = dir
	report.AuditPath = filepath.Join(dir, auditFile)

	if err := WriteAuditWorkbook(report.AuditPath, report); err != nil {
		return err
	}
	if _, err := WriteMetadata(dir, report.Metadata); err != nil {
		return err
	}

	now := r.now()
	if err := AppendRunLog(dir, now, "Run "+report.RunID+" started."); err != nil {
		return err
	}
	for _, line := range logLines {
		if err := AppendRunLog(dir, now, line); err != nil {
			return err
		}
	}
	status := "Exclusion check completed successfully."
	if len(report.Failures) > 0 {
		status = fmt.Sprintf("Exclusion check completed with %d failed categories.", len(report.Failures))
	}
	return AppendRunLog(dir, now, status)
}
