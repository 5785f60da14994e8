package screening

import (
	"encoding/json"
	"strconv"
	"time"

	"exclusioncheck/classification"
	"exclusioncheck/matching"
)

// Category is one kind of screened input.
type Category string

const (
	CategoryStaff   Category = "staff"
	CategoryBoard   Category = "board"
	CategoryVendors Category = "vendors"
)

// PersonRecord is one screened staff or board member.
type PersonRecord struct {
	Name     string          `json:"name"`
	DOB      string          `json:"dob"`
	SSNLast4 string          `json:"ssn_last4"`
	Role     string          `json:"role,omitempty"`
	Status   string          `json:"status,omitempty"`
	Match    matching.Result `json:"match"`
}

// VendorRecord is one screened vendor.
type VendorRecord struct {
	Name           string                     `json:"name"`
	VendorID       string                     `json:"vendor_id,omitempty"`
	Classification classification.VendorClass `json:"classification"`
	Match          matching.Result            `json:"match"`
}

// CategoryFailure records a category that could not be screened. Other
// categories of the same run are unaffected.
type CategoryFailure struct {
	Category Category
	Err      error
}

func (f CategoryFailure) Error() string {
	return string(f.Category) + ": " + f.Err.Error()
}

func (f CategoryFailure) Unwrap() error {
	return f.Err
}

// MarshalJSON renders the failure with its message.
func (f CategoryFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category Category `json:"category"`
		Error    string   `json:"error"`
	}{f.Category, f.Err.Error()})
}

// Metadata fingerprints a run: which rules, which snapshot and which
// source files produced it.
type Metadata struct {
	RunID            string    `json:"run_id"`
	Client           string    `json:"client"`
	Month            string    `json:"month"`
	EngineVersion    string    `json:"engine_version"`
	ThresholdVersion string    `json:"threshold_version"`
	Timestamp        time.Time `json:"timestamp"`
	StaffCount       int       `json:"staff_count"`
	BoardCount       int       `json:"board_count"`
	VendorCount      int       `json:"vendor_count"`
	ConfirmedCount   int       `json:"confirmed_count"`
	ReviewCount      int       `json:"review_count"`
	OIGFileHash      string    `json:"oig_file_hash,omitempty"`
	SAMFileHash      string    `json:"sam_file_hash,omitempty"`
	SnapshotOIGHash  string    `json:"snapshot_oig_sha256,omitempty"`
	SnapshotSAMHash  string    `json:"snapshot_sam_sha256,omitempty"`
	SnapshotBuiltAt  string    `json:"snapshot_built_at,omitempty"`
	FailedCategories []string  `json:"failed_categories,omitempty"`
}

// KeyValue is one row of the metadata sheet.
type KeyValue struct {
	Key   string
	Value string
}

// Pairs lists the metadata in display order, skipping empty optional values.
func (m Metadata) Pairs() []KeyValue {
	pairs := []KeyValue{
		{"run_id", m.RunID},
		{"client", m.Client},
		{"month", m.Month},
		{"engine_version", m.EngineVersion},
		{"threshold_version", m.ThresholdVersion},
		{"timestamp", m.Timestamp.UTC().Format(time.RFC3339)},
		{"staff_count", strconv.Itoa(m.StaffCount)},
		{"board_count", strconv.Itoa(m.BoardCount)},
		{"vendor_count", strconv.Itoa(m.VendorCount)},
		{"confirmed_count", strconv.Itoa(m.ConfirmedCount)},
		{"review_count", strconv.Itoa(m.ReviewCount)},
	}
	optional := []KeyValue{
		{"oig_file_hash", m.OIGFileHash},
		{"sam_file_hash", m.SAMFileHash},
		{"snapshot_oig_sha256", m.SnapshotOIGHash},
		{"snapshot_sam_sha256", m.SnapshotSAMHash},
		{"snapshot_built_at", m.SnapshotBuiltAt},
	}
	for _, kv := range optional {
		if kv.Value != "" {
			pairs = append(pairs, kv)
		}
	}
	for _, category := range m.FailedCategories {
		pairs = append(pairs, KeyValue{"failed_category", category})
	}
	return pairs
}

// Report is the outcome of one screening run.
type Report struct {
	RunID     string            `json:"run_id"`
	Client    string            `json:"client"`
	Month     string            `json:"month"`
	Staff     []PersonRecord    `json:"staff"`
	Board     []PersonRecord    `json:"board"`
	Vendors   []VendorRecord    `json:"vendors"`
	Failures  []CategoryFailure `json:"failures,omitempty"`
	Metadata  Metadata          `json:"metadata"`
	RunDir    string            `json:"run_dir"`
	AuditPath string            `json:"audit_path"`
}

// ReviewRow is one entry of the consolidated review sheet.
type ReviewRow struct {
	Category Category
	Name     string
	Item     matching.ReviewItem
}

// ReviewRows collects every record that carries a review item, staff first,
// then board, then vendors.
func (r *Report) ReviewRows() []ReviewRow {
	var rows []ReviewRow
	for _, p := range r.Staff {
		if p.Match.Review != nil {
			rows = append(rows, ReviewRow{CategoryStaff, p.Name, *p.Match.Review})
		}
	}
	for _, p := range r.Board {
		if p.Match.Review != nil {
			rows = append(rows, ReviewRow{CategoryBoard, p.Name, *p.Match.Review})
		}
	}
	for _, v := range r.Vendors {
		if v.Match.Review != nil {
			rows = append(rows, ReviewRow{CategoryVendors, v.Name, *v.Match.Review})
		}
	}
	return rows
}

func (r *Report) confirmedCount() int {
	n := 0
	for _, p := range r.Staff {
		if p.Match.Confirmed() {
			n++
		}
	}
	for _, p := range r.Board {
		if p.Match.Confirmed() {
			n++
		}
	}
	for _, v := range r.Vendors {
		if v.Match.Confirmed() {
			n++
		}
	}
	return n
}
