package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"exclusioncheck/importer"
	"exclusioncheck/normalization"
	"exclusioncheck/normalization/algorithms"
)

// SchemaVersion is bumped whenever the snapshot layout changes.
const SchemaVersion = "1"

// snapshot_meta keys.
const (
	MetaMonth            = "month"
	MetaBuiltAt          = "built_at"
	MetaSchemaVersion    = "schema_version"
	MetaThresholdVersion = "threshold_version"
	MetaOIGFile          = "oig_file"
	MetaOIGSHA256        = "oig_sha256"
	MetaSAMFile          = "sam_file"
	MetaSAMSHA256        = "sam_sha256"
	MetaOIGPeople        = "oig_people_rows"
	MetaOIGEntities      = "oig_entities_rows"
	MetaSAMPeople        = "sam_people_rows"
	MetaSAMEntities      = "sam_entities_rows"
)

// BuildRequest names the source extracts for one reporting month.
type BuildRequest struct {
	Month        string `json:"month"`
	OIGPath      string `json:"oig_path"`
	SAMPath      string `json:"sam_path"`
	ForceRebuild bool   `json:"force_rebuild"`
}

// BuildSummary reports what a completed build loaded.
type BuildSummary struct {
	Month       string        `json:"month"`
	Path        string        `json:"path"`
	OIGRows     int           `json:"oig_rows"`
	SAMRows     int           `json:"sam_rows"`
	OIGPeople   int           `json:"oig_people"`
	OIGEntities int           `json:"oig_entities"`
	SAMPeople   int           `json:"sam_people"`
	SAMEntities int           `json:"sam_entities"`
	OIGSHA256   string        `json:"oig_sha256"`
	SAMSHA256   string        `json:"sam_sha256"`
	Replaced    bool          `json:"replaced"`
	Duration    time.Duration `json:"duration_ns"`
}

// Build ingests both source extracts into a new snapshot for req.Month.
//
// Without ForceRebuild an existing snapshot is left untouched and
// ErrSnapshotAlreadyExists is returned. The snapshot is written to a
// temporary file and renamed into place only after every row, index and
// metadata entry is stored, so a failed or cancelled build never leaves a
// partial snapshot, and a forced rebuild replaces the old file whole.
func (c *ReferenceCache) Build(ctx context.Context, req BuildRequest) (*BuildSummary, error) {
	if err := ValidateMonth(req.Month); err != nil {
		return nil, err
	}
	if err := c.acquire(req.Month); err != nil {
		return nil, err
	}
	defer c.release(req.Month)

	target := c.CachePath(req.Month)
	replaced := c.Exists(req.Month)
	if replaced && !req.ForceRebuild {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotAlreadyExists, req.Month)
	}

	start := time.Now()
	summary := &BuildSummary{Month: req.Month, Path: target, Replaced: replaced}

	var err error
	if summary.OIGSHA256, err = FileChecksum(req.OIGPath); err != nil {
		return nil, fmt.Errorf("OIG extract: %w", err)
	}
	if summary.SAMSHA256, err = FileChecksum(req.SAMPath); err != nil {
		return nil, fmt.Errorf("SAM extract: %w", err)
	}

	tmp := target + buildingExt
	if err := removeIfExists(tmp); err != nil {
		return nil, fmt.Errorf("failed to remove stale build file: %w", err)
	}

	logger := c.logger.With("month", req.Month)
	logger.Info("building reference snapshot", "oig", req.OIGPath, "sam", req.SAMPath, "force", req.ForceRebuild)

	if err := c.buildInto(ctx, tmp, req, summary); err != nil {
		if rmErr := removeIfExists(tmp); rmErr != nil {
			logger.Warn("failed to remove partial build file", "path", tmp, "error", rmErr)
		}
		logger.Error("reference snapshot build failed", "error", err)
		return nil, err
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = removeIfExists(tmp)
		return nil, fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	summary.Duration = time.Since(start)
	logger.Info("reference snapshot built",
		"oig_people", summary.OIGPeople,
		"oig_entities", summary.OIGEntities,
		"sam_people", summary.SAMPeople,
		"sam_entities", summary.SAMEntities,
		"duration", summary.Duration)
	return summary, nil
}

func (c *ReferenceCache) buildInto(ctx context.Context, path string, req BuildRequest, summary *BuildSummary) error {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer conn.Close()

	// PRAGMAs are per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping snapshot database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = MEMORY",
		"PRAGMA synchronous = OFF",
		"PRAGMA encoding = 'UTF-8'",
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := InitReferenceSchema(conn); err != nil {
		return err
	}

	c.logger.Info("loading OIG extract", "month", req.Month)
	if err := loadOIG(ctx, conn, req.OIGPath, summary); err != nil {
		return err
	}

	c.logger.Info("loading SAM extract", "month", req.Month, "batch_size", c.batchSize)
	if err := c.loadSAM(ctx, conn, req.SAMPath, summary); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	c.logger.Info("creating snapshot indexes", "month", req.Month)
	if err := CreateReferenceIndexes(conn); err != nil {
		return err
	}

	if err := writeMeta(ctx, conn, req, summary); err != nil {
		return err
	}

	return conn.Close()
}

func loadOIG(ctx context.Context, conn *sql.DB, path string, summary *BuildSummary) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin OIG transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	personStmt, err := tx.PrepareContext(ctx, `INSERT INTO oig_people (first, last, dob, dob_compact, exclusion_date) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare OIG person insert: %w", err)
	}
	defer personStmt.Close()

	entityStmt, err := tx.PrepareContext(ctx, `INSERT INTO oig_entities (name, exclusion_date) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare OIG entity insert: %w", err)
	}
	defer entityStmt.Close()

	summary.OIGRows, err = importer.ReadOIG(ctx, path, func(r importer.OIGRecord) error {
		// One row may describe a person, a business, or both.
		if r.FirstName != "" && r.LastName != "" {
			name := normalization.NormalizePersonName(r.FirstName, r.LastName, "")
			iso, compact, _ := normalization.NormalizeDOB(r.DOB)
			if _, err := personStmt.ExecContext(ctx, name.First, name.Last, iso, compact, r.ExclusionDate); err != nil {
				return fmt.Errorf("failed to insert OIG person: %w", err)
			}
			summary.OIGPeople++
		}
		if r.BusinessName != "" {
			if _, err := entityStmt.ExecContext(ctx, normalization.NormalizeEntityName(r.BusinessName), r.ExclusionDate); err != nil {
				return fmt.Errorf("failed to insert OIG entity: %w", err)
			}
			summary.OIGEntities++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load OIG extract: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit OIG rows: %w", err)
	}
	return nil
}

func (c *ReferenceCache) loadSAM(ctx context.Context, conn *sql.DB, path string, summary *BuildSummary) error {
	batches := 0
	rows, err := importer.ReadSAMBatches(ctx, path, c.batchSize, func(batch []importer.SAMRecord) error {
		people, entities, err := insertSAMBatch(ctx, conn, batch)
		if err != nil {
			return err
		}
		summary.SAMPeople += people
		summary.SAMEntities += entities
		batches++
		c.logger.Debug("SAM batch committed", "batch", batches, "rows", len(batch))
		return nil
	})
	summary.SAMRows = rows
	if err != nil {
		return fmt.Errorf("failed to load SAM extract: %w", err)
	}
	return nil
}

// insertSAMBatch stores one batch in its own transaction.
func insertSAMBatch(ctx context.Context, conn *sql.DB, batch []importer.SAMRecord) (people, entities int, err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin SAM transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	personStmt, err := tx.PrepareContext(ctx, `INSERT INTO sam_people (first, last, exclusion_date, city, state, zip) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare SAM person insert: %w", err)
	}
	defer personStmt.Close()

	entityStmt, err := tx.PrepareContext(ctx, `INSERT INTO sam_entities (name, exclusion_date, city, state, zip) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare SAM entity insert: %w", err)
	}
	defer entityStmt.Close()

	for _, r := range batch {
		city := normalization.NormalizeLocation(r.City)
		state := normalization.NormalizeLocation(r.State)
		zip := normalization.NormalizeZip(r.Zip)

		if r.First != "" && r.Last != "" {
			name := normalization.NormalizePersonName(r.First, r.Last, "")
			if _, err = personStmt.ExecContext(ctx, name.First, name.Last, r.ExclusionDate, city, state, zip); err != nil {
				return 0, 0, fmt.Errorf("failed to insert SAM person: %w", err)
			}
			people++
		}
		if r.Name != "" {
			if _, err = entityStmt.ExecContext(ctx, normalization.NormalizeEntityName(r.Name), r.ExclusionDate, city, state, zip); err != nil {
				return 0, 0, fmt.Errorf("failed to insert SAM entity: %w", err)
			}
			entities++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit SAM batch: %w", err)
	}
	return people, entities, nil
}

func writeMeta(ctx context.Context, conn *sql.DB, req BuildRequest, summary *BuildSummary) error {
	meta := map[string]string{
		MetaMonth:            req.Month,
		MetaBuiltAt:          time.Now().UTC().Format(time.RFC3339),
		MetaSchemaVersion:    SchemaVersion,
		MetaThresholdVersion: algorithms.ThresholdVersion,
		MetaOIGFile:          req.OIGPath,
		MetaOIGSHA256:        summary.OIGSHA256,
		MetaSAMFile:          req.SAMPath,
		MetaSAMSHA256:        summary.SAMSHA256,
		MetaOIGPeople:        strconv.Itoa(summary.OIGPeople),
		MetaOIGEntities:      strconv.Itoa(summary.OIGEntities),
		MetaSAMPeople:        strconv.Itoa(summary.SAMPeople),
		MetaSAMEntities:      strconv.Itoa(summary.SAMEntities),
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin metadata transaction: %w", err)
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return errors.Join(fmt.Errorf("failed to write snapshot metadata %s: %w", key, err), tx.Rollback())
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot metadata: %w", err)
	}
	return nil
}
