package importer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func readAll(t *testing.T, source Source) []Record {
	t.Helper()
	var records []Record
	for {
		record, err := source.Next()
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)
		records = append(records, record)
	}
}

func TestOpenCSV_StripsBOMAndFoldsHeaders(t *testing.T) {
	path := writeFile(t, "staff.csv", []byte("\xEF\xBB\xBF First Name ,Last Name\nAda,Lovelace\n"))

	source, err := OpenCSV(path, SourceOptions{})
	require.NoError(t, err)
	defer source.Close()

	records := readAll(t, source)
	require.Len(t, records, 1)
	assert.Equal(t, "Ada", records[0].Get("first  name"))
	assert.Equal(t, "Lovelace", records[0].Get("LAST NAME"))
	assert.Equal(t, "", records[0].Get("dob"))
}

func TestOpenCSV_DecodesWindows1252(t *testing.T) {
	// "José" with é as 0xE9.
	path := writeFile(t, "legacy.csv", []byte("Name\nJos\xE9\n"))

	source, err := OpenCSV(path, SourceOptions{})
	require.NoError(t, err)
	defer source.Close()

	records := readAll(t, source)
	require.Len(t, records, 1)
	assert.Equal(t, "José", records[0].Get("Name"))
}

func TestOpenCSV_SkipRows(t *testing.T) {
	path := writeFile(t, "board.csv", []byte("Board roster\nExported 2024-01-05\nMember,DOB\nJane Q Public,01/02/1970\n"))

	source, err := OpenSource(path, SourceOptions{SkipRows: 2})
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, []string{"Member", "DOB"}, source.Header())
	records := readAll(t, source)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Q Public", records[0].Get("member"))
}

func TestOpenCSV_NoHeader(t *testing.T) {
	path := writeFile(t, "empty.csv", nil)
	_, err := OpenCSV(path, SourceOptions{})
	assert.Error(t, err)
}

func TestOpenXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Vendor Name", "EIN"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Acme Plumbing LLC", "12-3456789"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"John Smith"}))
	path := filepath.Join(t.TempDir(), "vendors.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	source, err := OpenSource(path, SourceOptions{})
	require.NoError(t, err)
	defer source.Close()

	records := readAll(t, source)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme Plumbing LLC", records[0].Get("vendor name"))
	assert.Equal(t, "12-3456789", records[0].Get("EIN"))
	assert.Equal(t, "", records[1].Get("EIN"))
}

func TestColumnMapping(t *testing.T) {
	header := NewHeader([]string{"FName", "LName", "Birth Date"})

	mapping, err := NewColumnMapping(map[string]string{
		"first_name": "fname",
		"last_name":  "LNAME",
		"dob":        "birth  date",
		"zip":        "Postal",
	}, header, "first_name", "last_name")
	require.NoError(t, err)

	row := mapping.Row(NewRecord(header, []string{" Ada ", "Lovelace", "12/10/1815"}))
	assert.Equal(t, "Ada", row.Field("first_name"))
	assert.Equal(t, "12/10/1815", row.Field("dob"))
	assert.Equal(t, "", row.Field("zip"), "mapped but absent optional column")
	assert.Equal(t, "", row.Field("ssn"), "unmapped field")
}

func TestColumnMapping_MissingRequired(t *testing.T) {
	header := NewHeader([]string{"FName"})

	_, err := NewColumnMapping(map[string]string{"first_name": "FName", "last_name": "Surname"}, header,
		"first_name", "last_name", "dob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnResolution))
	assert.Contains(t, err.Error(), `last_name (column "Surname" not found)`)
	assert.Contains(t, err.Error(), "dob (not mapped)")
}

func TestReadOIG(t *testing.T) {
	path := writeFile(t, "leie.csv", []byte(
		"LASTNAME,FIRSTNAME,MIDNAME,BUSNAME,DOB,EXCLDATE\n"+
			"JONES,ROBERT,,,01/01/1980,20200115\n"+
			",,,SUNRISE CLINIC LLC,,20190301\n"))

	var records []OIGRecord
	count, err := ReadOIG(context.Background(), path, func(r OIGRecord) error {
		records = append(records, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, OIGRecord{FirstName: "ROBERT", LastName: "JONES", DOB: "01/01/1980", ExclusionDate: "20200115"}, records[0])
	assert.Equal(t, "SUNRISE CLINIC LLC", records[1].BusinessName)
}

func TestReadSAMBatches(t *testing.T) {
	content := "Name,First,Last,City,State / Province,Zip Code,Active Date\n"
	for i := 0; i < 5; i++ {
		content += ",Jane,Doe,Springfield,IL,62701,2021-03-04\n"
	}
	path := writeFile(t, "sam.csv", []byte(content))

	var sizes []int
	count, err := ReadSAMBatches(context.Background(), path, 2, func(batch []SAMRecord) error {
		sizes = append(sizes, len(batch))
		assert.Equal(t, "IL", batch[0].State)
		assert.Equal(t, "62701", batch[0].Zip)
		assert.Equal(t, "2021-03-04", batch[0].ExclusionDate)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestReadSAMBatches_Cancelled(t *testing.T) {
	path := writeFile(t, "sam.csv", []byte("First,Last\nJane,Doe\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadSAMBatches(ctx, path, 10, func([]SAMRecord) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
