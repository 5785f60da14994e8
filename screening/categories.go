package screening

import (
	"context"
	"errors"
	"fmt"
	"io"

	"exclusioncheck/importer"
	"exclusioncheck/internal/config"
	"exclusioncheck/matching"
	"exclusioncheck/normalization"
)

// Logical fields each category cannot run without.
var (
	staffRequired  = []string{config.FieldFirstName, config.FieldLastName, config.FieldDOB}
	boardRequired  = []string{config.FieldNameColumn, config.FieldDOB}
	vendorRequired = []string{config.FieldEntityName}
)

type categoryScreener struct {
	engine *matching.Engine
	client *config.ClientConfig
}

func (s *categoryScreener) staff(ctx context.Context, path string) ([]PersonRecord, error) {
	var records []PersonRecord
	err := s.eachRow(ctx, CategoryStaff, path, staffRequired, func(row importer.Row) error {
		name := normalization.NormalizePersonName(
			row.Field(config.FieldFirstName),
			row.Field(config.FieldLastName),
			row.Field(config.FieldMiddleName),
		)
		record, err := s.screenPerson(ctx, name, row)
		if err != nil {
			return err
		}
		record.Role = row.Field(config.FieldJobTitle)
		record.Status = row.Field(config.FieldStatus)
		records = append(records, record)
		return nil
	})
	return records, err
}

func (s *categoryScreener) board(ctx context.Context, path string) ([]PersonRecord, error) {
	var records []PersonRecord
	err := s.eachRow(ctx, CategoryBoard, path, boardRequired, func(row importer.Row) error {
		first, last := normalization.SplitFullName(row.Field(config.FieldNameColumn))
		record, err := s.screenPerson(ctx, normalization.NormalizePersonName(first, last, ""), row)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	return records, err
}

func (s *categoryScreener) vendors(ctx context.Context, path string) ([]VendorRecord, error) {
	var records []VendorRecord
	err := s.eachRow(ctx, CategoryVendors, path, vendorRequired, func(row importer.Row) error {
		name := row.Field(config.FieldEntityName)
		class, result, err := s.engine.MatchVendor(ctx, matching.VendorQuery{
			Name:  name,
			TaxID: row.Field(config.FieldTaxID),
			State: row.Field(config.FieldState),
			Zip:   row.Field(config.FieldZip),
		})
		if err != nil {
			return err
		}
		records = append(records, VendorRecord{
			Name:           name,
			VendorID:       row.Field(config.FieldVendorID),
			Classification: class,
			Match:          result,
		})
		return nil
	})
	return records, err
}

// screenPerson matches an already normalized name using the row's DOB, zip
// and SSN fields. Roster city and state are not compared against SAM.
func (s *categoryScreener) screenPerson(ctx context.Context, name normalization.PersonName, row importer.Row) (PersonRecord, error) {
	dobISO, dobCompact, _ := normalization.NormalizeDOB(row.Field(config.FieldDOB))
	ssnLast4, _ := normalization.ExtractSSNLast4(row.Field(config.FieldSSN))

	result, err := s.engine.MatchPerson(ctx, matching.PersonQuery{
		First:      name.First,
		Last:       name.Last,
		DOBCompact: dobCompact,
		Zip:        row.Field(config.FieldZip),
	})
	if err != nil {
		return PersonRecord{}, err
	}

	return PersonRecord{
		Name:     name.Full,
		DOB:      dobISO,
		SSNLast4: ssnLast4,
		Match:    result,
	}, nil
}

// eachRow opens a category input, resolves its column mapping and calls fn
// for every non-blank row.
func (s *categoryScreener) eachRow(ctx context.Context, category Category, path string, required []string, fn func(importer.Row) error) error {
	section := s.client.Section(string(category))
	if section == nil {
		return fmt.Errorf("%w %q", ErrSectionMissing, category)
	}

	source, err := importer.OpenSource(path, importer.SourceOptions{SkipRows: section.SkipRows})
	if err != nil {
		return err
	}
	defer source.Close()

	mapping, err := importer.NewColumnMapping(section.Fields, importer.NewHeader(source.Header()), required...)
	if err != nil {
		return err
	}

	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := source.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", line+1, err)
		}
		line++
		if record.Empty() {
			continue
		}
		if err := fn(mapping.Row(record)); err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
	}
}
