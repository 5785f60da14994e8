package database

import "errors"

var (
	// ErrSnapshotAlreadyExists is returned by Build when the month already has
	// a snapshot and a rebuild was not forced.
	ErrSnapshotAlreadyExists = errors.New("reference snapshot already exists")
	// ErrSnapshotNotFound is returned when a month has no built snapshot.
	ErrSnapshotNotFound = errors.New("reference snapshot not found")
	// ErrInvalidMonth is returned for month keys that are not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid reporting month")
	// ErrBuildInProgress is returned when another build of the same month is running.
	ErrBuildInProgress = errors.New("reference snapshot build already in progress")
)
