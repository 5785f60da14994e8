package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// encodingSniffSize is how much of a delimited file is inspected to decide
// whether it is UTF-8 or a legacy single-byte export.
const encodingSniffSize = 64 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source is a forward-only tabular input: a header row followed by data rows.
type Source interface {
	Header() []string
	// Next returns the next data row, or io.EOF after the last one.
	Next() (Record, error)
	Close() error
}

// SourceOptions configures how a tabular file is opened.
type SourceOptions struct {
	// SkipRows discards that many leading lines before the header row.
	SkipRows int
	// Delimiter overrides the CSV delimiter (default: comma).
	Delimiter rune
}

// OpenSource opens a CSV or XLSX file based on its extension.
func OpenSource(path string, opts SourceOptions) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return OpenXLSX(path, opts)
	default:
		return OpenCSV(path, opts)
	}
}

// CSVSource streams records from a delimited file.
type CSVSource struct {
	file   *os.File
	reader *csv.Reader
	header *Header
}

// OpenCSV opens a delimited file. Files that are not valid UTF-8 are decoded
// as Windows-1252, the encoding legacy spreadsheet exports use.
func OpenCSV(path string, opts SourceOptions) (*CSVSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	buffered := bufio.NewReaderSize(file, encodingSniffSize)
	input, err := decodeInput(buffered)
	if err != nil {
		file.Close()
		return nil, err
	}

	reader := csv.NewReader(input)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to skip leading row %d: %w", i+1, err)
		}
	}

	headerRow, err := reader.Read()
	if err != nil {
		file.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("file %s has no header row", path)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &CSVSource{
		file:   file,
		reader: reader,
		header: NewHeader(headerRow),
	}, nil
}

// Header returns the header row as read from the file.
func (s *CSVSource) Header() []string {
	return s.header.Columns()
}

// Next returns the next record.
func (s *CSVSource) Next() (Record, error) {
	values, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("failed to read CSV row: %w", err)
	}
	return Record{header: s.header, values: values}, nil
}

// Close releases the underlying file.
func (s *CSVSource) Close() error {
	return s.file.Close()
}

// decodeInput strips a UTF-8 BOM and falls back to Windows-1252 when the
// leading bytes are not valid UTF-8.
func decodeInput(r *bufio.Reader) (io.Reader, error) {
	peek, err := r.Peek(encodingSniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to inspect file encoding: %w", err)
	}

	if bytes.HasPrefix(peek, utf8BOM) {
		if _, err := r.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip byte order mark: %w", err)
		}
		return r, nil
	}

	if validUTF8Prefix(peek, len(peek) == encodingSniffSize) {
		return r, nil
	}

	return charmap.Windows1252.NewDecoder().Reader(r), nil
}

// validUTF8Prefix tolerates a rune cut in half at the end of a truncated
// sniff window.
func validUTF8Prefix(data []byte, truncated bool) bool {
	if utf8.Valid(data) {
		return true
	}
	if !truncated {
		return false
	}
	for i := 1; i < utf8.UTFMax && i < len(data); i++ {
		if utf8.Valid(data[:len(data)-i]) {
			return true
		}
	}
	return false
}

// XLSXSource streams rows from the first sheet of a workbook.
type XLSXSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header *Header
}

// OpenXLSX opens the first sheet of a workbook.
func OpenXLSX(path string, opts SourceOptions) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		f.Close()
		return nil, fmt.Errorf("no sheets found in Excel file %s", path)
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	source := &XLSXSource{file: f, rows: rows}

	for i := 0; i <= opts.SkipRows; i++ {
		if !rows.Next() {
			source.Close()
			if err := rows.Error(); err != nil {
				return nil, fmt.Errorf("failed to read header: %w", err)
			}
			return nil, fmt.Errorf("file %s has no header row", path)
		}
		if i < opts.SkipRows {
			continue
		}
		headerRow, err := rows.Columns()
		if err != nil {
			source.Close()
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		source.header = NewHeader(headerRow)
	}

	return source, nil
}

// Header returns the header row as read from the sheet.
func (s *XLSXSource) Header() []string {
	return s.header.Columns()
}

// Next returns the next record.
func (s *XLSXSource) Next() (Record, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return Record{}, fmt.Errorf("failed to read Excel row: %w", err)
		}
		return Record{}, io.EOF
	}

	values, err := s.rows.Columns()
	if err != nil {
		return Record{}, fmt.Errorf("failed to read Excel row: %w", err)
	}
	return Record{header: s.header, values: values}, nil
}

// Close releases the workbook.
func (s *XLSXSource) Close() error {
	if err := s.rows.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
