package screening

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"exclusioncheck/matching"
)

// Audit workbook sheet names.
const (
	SheetStaff    = "Staff Results"
	SheetBoard    = "Board Results"
	SheetVendors  = "Vendor Results"
	SheetReview   = "Review Items"
	SheetMetadata = "Run Metadata"
)

var (
	personHeaders = []string{
		"Name", "DOB", "SSN Last4", "Role", "Status",
		"OIG Status", "OIG Date", "SAM Status", "SAM Date", "Reason", "Review Required",
	}
	vendorHeaders = []string{
		"Name", "Vendor ID", "Classification",
		"OIG Status", "OIG Date", "SAM Status", "SAM Date", "Reason", "Review Required",
	}
	reviewHeaders = []string{
		"Category", "Name", "Source", "Candidate Name", "Candidate Exclusion Date", "Note", "Needed Data",
	}
)

// WriteAuditWorkbook writes the per-category results, the consolidated
// review items and the run metadata into one workbook.
func WriteAuditWorkbook(path string, report *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	w := &auditWriter{f: f, headerStyle: headerStyle}

	staff := make([][]interface{}, 0, len(report.Staff))
	for _, p := range report.Staff {
		staff = append(staff, personRow(p))
	}
	board := make([][]interface{}, 0, len(report.Board))
	for _, p := range report.Board {
		board = append(board, personRow(p))
	}
	vendors := make([][]interface{}, 0, len(report.Vendors))
	for _, v := range report.Vendors {
		vendors = append(vendors, append([]interface{}{v.Name, v.VendorID, string(v.Classification)}, matchCells(v.Match)...))
	}
	var reviews [][]interface{}
	for _, r := range report.ReviewRows() {
		reviews = append(reviews, []interface{}{
			string(r.Category), r.Name, r.Item.Source, r.Item.CandidateName,
			r.Item.CandidateExclusionDate, r.Item.Note, r.Item.NeededData,
		})
	}
	metadata := make([][]interface{}, 0)
	for _, kv := range report.Metadata.Pairs() {
		metadata = append(metadata, []interface{}{kv.Key, kv.Value})
	}

	w.sheet(SheetStaff, personHeaders, staff)
	w.sheet(SheetBoard, personHeaders, board)
	w.sheet(SheetVendors, vendorHeaders, vendors)
	w.sheet(SheetReview, reviewHeaders, reviews)
	w.sheet(SheetMetadata, []string{"Key", "Value"}, metadata)
	if w.err != nil {
		return w.err
	}

	// The default sheet goes once the others exist.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(SheetStaff); err == nil {
		f.SetActiveSheet(index)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save audit workbook: %w", err)
	}
	return nil
}

type auditWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

// sheet writes a bold header row followed by rows. An empty result sheet
// holds a single "No records" cell instead.
func (w *auditWriter) sheet(name string, headers []string, rows [][]interface{}) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("failed to create sheet %s: %w", name, err)
		return
	}

	if len(rows) == 0 && name != SheetMetadata {
		w.err = w.f.SetCellValue(name, "A1", "No records")
		return
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		w.err = fmt.Errorf("failed to write %s header: %w", name, err)
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := w.f.SetCellStyle(name, "A1", last, w.headerStyle); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", name, err)
		return
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			w.err = fmt.Errorf("failed to write %s row %d: %w", name, i+1, err)
			return
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		w.f.SetColWidth(name, col, col, 18)
	}
}

func personRow(p PersonRecord) []interface{} {
	return append([]interface{}{p.Name, p.DOB, p.SSNLast4, p.Role, p.Status}, matchCells(p.Match)...)
}

func matchCells(r matching.Result) []interface{} {
	review := "No"
	if r.ReviewRequired() {
		review = "Yes"
	}
	return []interface{}{string(r.OIGStatus), r.OIGDate, string(r.SAMStatus), r.SAMDate, r.Reason, review}
}
