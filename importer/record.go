package importer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrColumnResolution is returned when a required logical field cannot be
// resolved to a column of the input file.
var ErrColumnResolution = errors.New("column resolution failed")

// Header indexes a header row by its folded column names.
type Header struct {
	columns []string
	index   map[string]int
}

// NewHeader builds a header index. The first occurrence of a duplicated
// column name wins.
func NewHeader(columns []string) *Header {
	h := &Header{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, column := range columns {
		key := foldColumnName(column)
		if _, exists := h.index[key]; !exists {
			h.index[key] = i
		}
	}
	return h
}

// Columns returns the header as read.
func (h *Header) Columns() []string {
	if h == nil {
		return nil
	}
	return h.columns
}

// Lookup returns the position of a column, ignoring case and whitespace drift.
func (h *Header) Lookup(column string) (int, bool) {
	if h == nil {
		return 0, false
	}
	i, ok := h.index[foldColumnName(column)]
	return i, ok
}

// foldColumnName maps " First  Name " and "first name" to the same key.
func foldColumnName(column string) string {
	column = strings.TrimPrefix(column, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(column), " "))
}

// Record is one data row addressed by column name.
type Record struct {
	header *Header
	values []string
}

// NewRecord builds a record over an existing header; used by tests and by
// callers that already hold parsed rows.
func NewRecord(header *Header, values []string) Record {
	return Record{header: header, values: values}
}

// Get returns the trimmed value of a column, or "" when the column is
// missing or the row is short.
func (r Record) Get(column string) string {
	i, ok := r.header.Lookup(column)
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// Empty reports whether every cell of the row is blank.
func (r Record) Empty() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ColumnMapping resolves logical field names (first_name, dob, ...) to the
// columns of one input file.
type ColumnMapping struct {
	fields map[string]string
}

// NewColumnMapping validates that every required logical field is mapped and
// present in the header. Optional fields that are mapped but absent from the
// file resolve to "" rather than failing.
func NewColumnMapping(fields map[string]string, header *Header, required ...string) (*ColumnMapping, error) {
	var missing []string
	for _, logical := range required {
		column, mapped := fields[logical]
		if !mapped || strings.TrimSpace(column) == "" {
			missing = append(missing, fmt.Sprintf("%s (not mapped)", logical))
			continue
		}
		if _, ok := header.Lookup(column); !ok {
			missing = append(missing, fmt.Sprintf("%s (column %q not found)", logical, column))
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrColumnResolution, strings.Join(missing, ", "))
	}

	return &ColumnMapping{fields: fields}, nil
}

// Row binds a record to a column mapping.
func (m *ColumnMapping) Row(record Record) Row {
	return Row{record: record, mapping: m}
}

// Row exposes a record through logical field names only.
type Row struct {
	record  Record
	mapping *ColumnMapping
}

// Field returns the value of a logical field, or "" when the field is not
// mapped or its column is absent.
func (r Row) Field(logical string) string {
	if r.mapping == nil {
		return ""
	}
	column, ok := r.mapping.fields[logical]
	if !ok || column == "" {
		return ""
	}
	return r.record.Get(column)
}

// Empty reports whether the underlying row is blank.
func (r Row) Empty() bool {
	return r.record.Empty()
}
