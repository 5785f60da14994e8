package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// DefaultSAMBatchSize bounds how many SAM rows are held in memory at once.
const DefaultSAMBatchSize = 50000

// OIG LEIE extract columns.
const (
	OIGColumnFirstName     = "FIRSTNAME"
	OIGColumnLastName      = "LASTNAME"
	OIGColumnMiddleName    = "MIDNAME"
	OIGColumnBusinessName  = "BUSNAME"
	OIGColumnDOB           = "DOB"
	OIGColumnExclusionDate = "EXCLDATE"
)

// SAM exclusions extract columns. Later aliases cover the public extract's
// longer header names.
var (
	samFirstColumns         = []string{"First"}
	samLastColumns          = []string{"Last"}
	samNameColumns          = []string{"Name"}
	samCityColumns          = []string{"City"}
	samStateColumns         = []string{"State", "State / Province"}
	samZipColumns           = []string{"Zip", "Zip Code"}
	samExclusionDateColumns = []string{"Exclusion Date", "Active Date"}
)

// OIGRecord is one raw row of the OIG exclusion extract. A row describes an
// individual, a business, or both.
type OIGRecord struct {
	FirstName     string
	LastName      string
	MiddleName    string
	BusinessName  string
	DOB           string
	ExclusionDate string
}

// SAMRecord is one raw row of the SAM exclusion extract.
type SAMRecord struct {
	First         string
	Last          string
	Name          string
	City          string
	State         string
	Zip           string
	ExclusionDate string
}

// ReadOIG streams the OIG extract one row at a time and returns the number
// of rows read.
func ReadOIG(ctx context.Context, path string, fn func(OIGRecord) error) (int, error) {
	source, err := OpenCSV(path, SourceOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to open OIG extract: %w", err)
	}
	defer source.Close()

	count := 0
	for {
		if count%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return count, err
			}
		}

		record, err := source.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("OIG row %d: %w", count+1, err)
		}
		count++

		if err := fn(oigRecordFrom(record)); err != nil {
			return count, err
		}
	}
}

// ReadSAMBatches streams the SAM extract in batches of at most batchSize rows
// and returns the number of rows read. The batch slice is reused between
// calls; fn must not retain it.
func ReadSAMBatches(ctx context.Context, path string, batchSize int, fn func([]SAMRecord) error) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultSAMBatchSize
	}

	source, err := OpenCSV(path, SourceOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to open SAM extract: %w", err)
	}
	defer source.Close()

	batch := make([]SAMRecord, 0, batchSize)
	count := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(batch)
		batch = batch[:0]
		return err
	}

	for {
		record, err := source.Next()
		if errors.Is(err, io.EOF) {
			return count, flush()
		}
		if err != nil {
			return count, fmt.Errorf("SAM row %d: %w", count+1, err)
		}
		count++

		batch = append(batch, samRecordFrom(record))
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
}

func oigRecordFrom(record Record) OIGRecord {
	return OIGRecord{
		FirstName:     record.Get(OIGColumnFirstName),
		LastName:      record.Get(OIGColumnLastName),
		MiddleName:    record.Get(OIGColumnMiddleName),
		BusinessName:  record.Get(OIGColumnBusinessName),
		DOB:           record.Get(OIGColumnDOB),
		ExclusionDate: record.Get(OIGColumnExclusionDate),
	}
}

func samRecordFrom(record Record) SAMRecord {
	return SAMRecord{
		First:         firstPresent(record, samFirstColumns),
		Last:          firstPresent(record, samLastColumns),
		Name:          firstPresent(record, samNameColumns),
		City:          firstPresent(record, samCityColumns),
		State:         firstPresent(record, samStateColumns),
		Zip:           firstPresent(record, samZipColumns),
		ExclusionDate: firstPresent(record, samExclusionDateColumns),
	}
}

func firstPresent(record Record, columns []string) string {
	for _, column := range columns {
		if _, ok := record.header.Lookup(column); ok {
			return record.Get(column)
		}
	}
	return ""
}
