package database

import (
	"database/sql"
	"fmt"
)

// InitReferenceSchema creates the four exclusion relations and the metadata
// table of a snapshot. Indexes are created separately, after loading.
func InitReferenceSchema(db *sql.DB) error {
	schema := `
	-- OIG individuals
	CREATE TABLE oig_people (
		first TEXT NOT NULL,
		last TEXT NOT NULL,
		dob TEXT NOT NULL DEFAULT '',          -- ISO date, '' when unparseable
		dob_compact TEXT NOT NULL DEFAULT '',  -- YYYYMMDD, '' when unparseable
		exclusion_date TEXT NOT NULL DEFAULT ''
	);

	-- OIG businesses
	CREATE TABLE oig_entities (
		name TEXT NOT NULL,
		exclusion_date TEXT NOT NULL DEFAULT ''
	);

	-- SAM individuals
	CREATE TABLE sam_people (
		first TEXT NOT NULL,
		last TEXT NOT NULL,
		exclusion_date TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT ''
	);

	-- SAM businesses
	CREATE TABLE sam_entities (
		name TEXT NOT NULL,
		exclusion_date TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE snapshot_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create reference schema: %w", err)
	}
	return nil
}

// CreateReferenceIndexes builds the lookup indexes once all rows are loaded.
func CreateReferenceIndexes(db *sql.DB) error {
	indexes := `
	CREATE INDEX idx_oig_people ON oig_people(last, first, dob_compact);
	CREATE INDEX idx_oig_entities ON oig_entities(name);
	CREATE INDEX idx_sam_people ON sam_people(last, first);
	CREATE INDEX idx_sam_entities ON sam_entities(name);
	`

	if _, err := db.Exec(indexes); err != nil {
		return fmt.Errorf("failed to create reference indexes: %w", err)
	}
	return nil
}
