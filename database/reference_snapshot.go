package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Exclusion sources.
const (
	SourceOIG = "OIG"
	SourceSAM = "SAM"
)

// PersonExclusion is one excluded individual. DOB fields are set for OIG
// rows only; location fields for SAM rows only.
type PersonExclusion struct {
	Source        string
	First         string
	Last          string
	DOB           string
	DOBCompact    string
	ExclusionDate string
	City          string
	State         string
	Zip           string
}

// EntityExclusion is one excluded business. Location fields are set for SAM
// rows only.
type EntityExclusion struct {
	Source        string
	Name          string
	ExclusionDate string
	City          string
	State         string
	Zip           string
}

// Snapshot is a read-only handle on one month's reference data. Query
// results come back in source file order.
type Snapshot struct {
	conn *sql.DB
	path string
}

// OpenSnapshot opens a snapshot file read-only.
func OpenSnapshot(path string) (*Snapshot, error) {
	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open reference snapshot: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping reference snapshot: %w", err)
	}
	return &Snapshot{conn: conn, path: path}, nil
}

// Path returns the snapshot file path.
func (s *Snapshot) Path() string {
	return s.path
}

// Close releases the snapshot.
func (s *Snapshot) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// OIGPeopleByLast returns every OIG individual with the given normalized last name.
func (s *Snapshot) OIGPeopleByLast(ctx context.Context, last string) ([]PersonExclusion, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT first, last, dob, dob_compact, exclusion_date FROM oig_people WHERE last = ? ORDER BY rowid`, last)
	if err != nil {
		return nil, fmt.Errorf("failed to query OIG people: %w", err)
	}
	defer rows.Close()

	var people []PersonExclusion
	for rows.Next() {
		p := PersonExclusion{Source: SourceOIG}
		if err := rows.Scan(&p.First, &p.Last, &p.DOB, &p.DOBCompact, &p.ExclusionDate); err != nil {
			return nil, fmt.Errorf("failed to scan OIG person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// SAMPeopleByLast returns every SAM individual with the given normalized last name.
func (s *Snapshot) SAMPeopleByLast(ctx context.Context, last string) ([]PersonExclusion, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT first, last, exclusion_date, city, state, zip FROM sam_people WHERE last = ? ORDER BY rowid`, last)
	if err != nil {
		return nil, fmt.Errorf("failed to query SAM people: %w", err)
	}
	defer rows.Close()

	var people []PersonExclusion
	for rows.Next() {
		p := PersonExclusion{Source: SourceSAM}
		if err := rows.Scan(&p.First, &p.Last, &p.ExclusionDate, &p.City, &p.State, &p.Zip); err != nil {
			return nil, fmt.Errorf("failed to scan SAM person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// OIGEntityByName returns the first OIG business with exactly this
// normalized name, or nil.
func (s *Snapshot) OIGEntityByName(ctx context.Context, name string) (*EntityExclusion, error) {
	e := EntityExclusion{Source: SourceOIG}
	err := s.conn.QueryRowContext(ctx,
		`SELECT name, exclusion_date FROM oig_entities WHERE name = ? ORDER BY rowid LIMIT 1`, name).
		Scan(&e.Name, &e.ExclusionDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query OIG entity: %w", err)
	}
	return &e, nil
}

// SAMEntityByName returns the first SAM business with exactly this
// normalized name, or nil.
func (s *Snapshot) SAMEntityByName(ctx context.Context, name string) (*EntityExclusion, error) {
	e := EntityExclusion{Source: SourceSAM}
	err := s.conn.QueryRowContext(ctx,
		`SELECT name, exclusion_date, city, state, zip FROM sam_entities WHERE name = ? ORDER BY rowid LIMIT 1`, name).
		Scan(&e.Name, &e.ExclusionDate, &e.City, &e.State, &e.Zip)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query SAM entity: %w", err)
	}
	return &e, nil
}

// ScanOIGEntities calls fn for each OIG business in source order until fn
// returns false.
func (s *Snapshot) ScanOIGEntities(ctx context.Context, fn func(EntityExclusion) bool) error {
	rows, err := s.conn.QueryContext(ctx, `SELECT name, exclusion_date FROM oig_entities ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to scan OIG entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e := EntityExclusion{Source: SourceOIG}
		if err := rows.Scan(&e.Name, &e.ExclusionDate); err != nil {
			return fmt.Errorf("failed to scan OIG entity: %w", err)
		}
		if !fn(e) {
			return nil
		}
	}
	return rows.Err()
}

// ScanSAMEntities calls fn for each SAM business in source order until fn
// returns false.
func (s *Snapshot) ScanSAMEntities(ctx context.Context, fn func(EntityExclusion) bool) error {
	rows, err := s.conn.QueryContext(ctx, `SELECT name, exclusion_date, city, state, zip FROM sam_entities ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to scan SAM entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e := EntityExclusion{Source: SourceSAM}
		if err := rows.Scan(&e.Name, &e.ExclusionDate, &e.City, &e.State, &e.Zip); err != nil {
			return fmt.Errorf("failed to scan SAM entity: %w", err)
		}
		if !fn(e) {
			return nil
		}
	}
	return rows.Err()
}

// Meta returns the snapshot_meta key/value pairs.
func (s *Snapshot) Meta(ctx context.Context) (map[string]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT key, value FROM snapshot_meta`)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot metadata: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}
