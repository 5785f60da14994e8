package screening

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"exclusioncheck/classification"
	"exclusioncheck/database"
	"exclusioncheck/importer"
	"exclusioncheck/internal/config"
	"exclusioncheck/matching"
)

const (
	suiteOIG = "LASTNAME,FIRSTNAME,MIDNAME,BUSNAME,DOB,EXCLDATE\n" +
		"JONES,ROBERT,,,01/01/1980,20200115\n" +
		",,,SUNRISE HOME HEALTH LLC,,20190301\n"
	suiteSAM = "Name,First,Last,City,State,Zip,Exclusion Date\n" +
		",JANE,DOE,,IL,62701,03/04/2021\n"
	suiteClient = `
client_name: Riverside Clinic
staff:
  first_name: First Name
  last_name: Last Name
  dob: DOB
  ssn: SSN
  job_title: Title
  status: Status
board:
  name_column: Member
  dob: DOB
  zip: Zip
  skip_rows: 1
vendors:
  entity_name: Vendor Name
  tax_id: EIN
  vendor_id: Vendor ID
`
)

type recordingObserver struct {
	results []string
	records []map[string]int
}

func (o *recordingObserver) ObserveRun(result string, _ time.Duration, records map[string]int) {
	o.results = append(o.results, result)
	o.records = append(o.records, records)
}

type RunnerSuite struct {
	suite.Suite
	dir      string
	cache    *database.ReferenceCache
	client   *config.ClientConfig
	observer *recordingObserver
	runner   *Runner
	oigPath  string
	samPath  string
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.oigPath = s.write("leie.csv", suiteOIG)
	s.samPath = s.write("sam.csv", suiteSAM)

	cache, err := database.NewReferenceCache(filepath.Join(s.dir, "cache"))
	s.Require().NoError(err)
	_, err = cache.Build(context.Background(), database.BuildRequest{Month: "2024-05", OIGPath: s.oigPath, SAMPath: s.samPath})
	s.Require().NoError(err)
	s.cache = cache

	s.client, err = config.ParseClientConfig([]byte(suiteClient))
	s.Require().NoError(err)

	s.observer = &recordingObserver{}
	s.runner = NewRunner(cache, filepath.Join(s.dir, "runs"), WithRunObserver(s.observer))
	s.runner.newID = func() string { return "run-1" }
}

func (s *RunnerSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *RunnerSuite) writeVendorsXLSX() string {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	s.Require().NoError(f.SetSheetRow(sheet, "A1", &[]interface{}{"Vendor Name", "EIN", "Vendor ID"}))
	s.Require().NoError(f.SetSheetRow(sheet, "A2", &[]interface{}{"Sunrise Home Health, L.L.C.", "12-3456789", "V-1"}))
	s.Require().NoError(f.SetSheetRow(sheet, "A3", &[]interface{}{"John Smith", "", "V-2"}))
	path := filepath.Join(s.dir, "vendors.xlsx")
	s.Require().NoError(f.SaveAs(path))
	return path
}

func (s *RunnerSuite) TestFullRun() {
	staff := s.write("staff.csv", "First Name,Last Name,DOB,SSN,Title,Status\n"+
		"Robert,Jones,01/01/1980,123-45-6789,Nurse,Active\n"+
		"Robert,Jones,1990-01-01,,Aide,Active\n"+
		"\n"+
		"Ada,Lovelace,12/10/1815,,Analyst,Inactive\n")
	board := s.write("board.csv", "Board roster exported 2024-05-01\n"+
		"Member,DOB,Zip\n"+
		"Jane Q Doe,,62701\n")
	vendors := s.writeVendorsXLSX()

	report, err := s.runner.Run(context.Background(), Request{
		Client:     s.client,
		Month:      "2024-05",
		StaffPath:  staff,
		BoardPath:  board,
		VendorPath: vendors,
		OIGPath:    s.oigPath,
		SAMPath:    s.samPath,
	})
	s.Require().NoError(err)
	s.Empty(report.Failures)
	s.Equal("run-1", report.RunID)

	s.Require().Len(report.Staff, 3, "blank rows are skipped")
	s.Equal(PersonRecord{
		Name:     "ROBERT JONES",
		DOB:      "1980-01-01",
		SSNLast4: "6789",
		Role:     "Nurse",
		Status:   "Active",
		Match: matching.Result{
			OIGStatus: matching.StatusConfirmed,
			OIGDate:   "20200115",
			SAMStatus: matching.StatusNotFound,
			Reason:    "Exact first+last+DOB",
		},
	}, report.Staff[0])
	s.True(report.Staff[1].Match.ReviewRequired())
	s.Equal(matching.StatusNotFound, report.Staff[2].Match.OIGStatus)

	s.Require().Len(report.Board, 1)
	s.Equal("JANE DOE", report.Board[0].Name)
	s.Equal(matching.StatusConfirmed, report.Board[0].Match.SAMStatus)

	s.Require().Len(report.Vendors, 2)
	s.Equal(classification.ClassEntity, report.Vendors[0].Classification)
	s.Equal("V-1", report.Vendors[0].VendorID)
	s.Equal(matching.StatusConfirmed, report.Vendors[0].Match.OIGStatus)
	s.Equal(classification.ClassPersonVendor, report.Vendors[1].Classification)

	meta := report.Metadata
	s.Equal(3, meta.StaffCount)
	s.Equal(3, meta.ConfirmedCount)
	s.Equal(1, meta.ReviewCount)
	s.Equal(matching.EngineVersion, meta.EngineVersion)
	s.Equal(meta.OIGFileHash, meta.SnapshotOIGHash)

	expectedDir := filepath.Join(s.dir, "runs", "Riverside Clinic", "2024-05")
	s.Equal(expectedDir, report.RunDir)

	stored, err := ReadMetadata(report.RunDir)
	s.Require().NoError(err)
	s.Equal("Riverside Clinic", stored.Client)
	s.Equal(1, stored.ReviewCount)

	runLog, err := os.ReadFile(filepath.Join(report.RunDir, "run_log.txt"))
	s.Require().NoError(err)
	s.Contains(string(runLog), "staff screened: 3 records")
	s.Contains(string(runLog), "Exclusion check completed successfully.")
	s.NotContains(string(runLog), "warning")

	wb, err := excelize.OpenFile(report.AuditPath)
	s.Require().NoError(err)
	defer wb.Close()
	s.Equal([]string{SheetStaff, SheetBoard, SheetVendors, SheetReview, SheetMetadata}, wb.GetSheetList())

	reviewRows, err := wb.GetRows(SheetReview)
	s.Require().NoError(err)
	s.Require().Len(reviewRows, 2)
	s.Equal([]string{"staff", "ROBERT JONES", matching.ReviewSourceOIGPeople, "ROBERT JONES", "20200115"}, reviewRows[1][:5])

	staffRows, err := wb.GetRows(SheetStaff)
	s.Require().NoError(err)
	s.Equal(personHeaders, staffRows[0])
	s.Equal("CONFIRMED", staffRows[1][5])

	s.Equal([]string{"success"}, s.observer.results)
	s.Equal(2, s.observer.records[0]["vendors"])
}

func (s *RunnerSuite) TestCategoryFailureDoesNotStopOtherCategories() {
	staff := s.write("staff.csv", "Given,Surname\nRobert,Jones\n")
	board := s.write("board.csv", "skip me\nMember,DOB,Zip\nJane Doe,,62701\n")

	report, err := s.runner.Run(context.Background(), Request{
		Client:    s.client,
		Month:     "2024-05",
		StaffPath: staff,
		BoardPath: board,
	})
	s.Require().NoError(err)

	s.Require().Len(report.Failures, 1)
	s.Equal(CategoryStaff, report.Failures[0].Category)
	s.True(errors.Is(report.Failures[0], importer.ErrColumnResolution))
	s.Empty(report.Staff)
	s.Len(report.Board, 1)
	s.Equal([]string{"staff"}, report.Metadata.FailedCategories)

	runLog, err := os.ReadFile(filepath.Join(report.RunDir, "run_log.txt"))
	s.Require().NoError(err)
	s.Contains(string(runLog), "staff failed")
	s.Contains(string(runLog), "completed with 1 failed categories")
	s.Equal([]string{"partial"}, s.observer.results)
}

func (s *RunnerSuite) TestStaffLocationDoesNotGateSAM() {
	client, err := config.ParseClientConfig([]byte(`
client_name: Riverside Clinic
staff:
  first_name: First Name
  last_name: Last Name
  dob: DOB
  city: City
  state: State
  zip: Zip
`))
	s.Require().NoError(err)
	staff := s.write("staff.csv", "First Name,Last Name,DOB,City,State,Zip\n"+
		"Jane,Doe,02/02/1970,Springfield,,62701\n"+
		"Jane,Doe,02/02/1970,Saint Louis,MO,62701\n")

	report, err := s.runner.Run(context.Background(), Request{Client: client, Month: "2024-05", StaffPath: staff})
	s.Require().NoError(err)
	s.Require().Empty(report.Failures)
	s.Require().Len(report.Staff, 2)
	for _, record := range report.Staff {
		s.Equal(matching.StatusConfirmed, record.Match.SAMStatus)
		s.Equal("03/04/2021", record.Match.SAMDate)
	}
}

func (s *RunnerSuite) TestInputForUnconfiguredSection() {
	client := &config.ClientConfig{ClientName: "Bare"}
	staff := s.write("staff.csv", "First Name,Last Name,DOB\nRobert,Jones,01/01/1980\n")

	report, err := s.runner.Run(context.Background(), Request{Client: client, Month: "2024-05", StaffPath: staff})
	s.Require().NoError(err)
	s.Require().Len(report.Failures, 1)
	s.ErrorIs(report.Failures[0], ErrSectionMissing)
}

func (s *RunnerSuite) TestFingerprintMismatchIsLogged() {
	otherOIG := s.write("leie-new.csv", suiteOIG+"SMITH,JOHN,,,,20240101\n")
	staff := s.write("staff.csv", "First Name,Last Name,DOB\nAda,Lovelace,\n")

	report, err := s.runner.Run(context.Background(), Request{Client: s.client, Month: "2024-05", StaffPath: staff, OIGPath: otherOIG})
	s.Require().NoError(err)
	s.NotEqual(report.Metadata.OIGFileHash, report.Metadata.SnapshotOIGHash)

	runLog, err := os.ReadFile(filepath.Join(report.RunDir, "run_log.txt"))
	s.Require().NoError(err)
	s.Contains(string(runLog), "warning: OIG file checksum differs")
}

func (s *RunnerSuite) TestRunRequiresSnapshot() {
	staff := s.write("staff.csv", "First Name,Last Name,DOB\n")
	_, err := s.runner.Run(context.Background(), Request{Client: s.client, Month: "2030-01", StaffPath: staff})
	s.ErrorIs(err, database.ErrSnapshotNotFound)
	s.Equal([]string{"error"}, s.observer.results)
}

func (s *RunnerSuite) TestRunRejectsEmptyRequest() {
	_, err := s.runner.Run(context.Background(), Request{Client: s.client, Month: "2024-05"})
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.runner.Run(context.Background(), Request{Month: "2024-05", StaffPath: "x.csv"})
	s.ErrorIs(err, ErrInvalidRequest)
}

func (s *RunnerSuite) TestCancelledRun() {
	staff := s.write("staff.csv", "First Name,Last Name,DOB\nRobert,Jones,01/01/1980\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.runner.Run(ctx, Request{Client: s.client, Month: "2024-05", StaffPath: staff})
	s.ErrorIs(err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(s.dir, "runs", "Riverside Clinic", "2024-05", "Audit.xlsx"))
	s.True(os.IsNotExist(statErr), "no audit written for a cancelled run")
}

func TestWriteAuditWorkbook_EmptyCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Audit.xlsx")
	report := &Report{Metadata: Metadata{RunID: "r", Client: "c", Month: "2024-01", Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}}

	require.NoError(t, WriteAuditWorkbook(path, report))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	value, err := wb.GetCellValue(SheetVendors, "A1")
	require.NoError(t, err)
	assert.Equal(t, "No records", value)

	rows, err := wb.GetRows(SheetMetadata)
	require.NoError(t, err)
	assert.Equal(t, []string{"Key", "Value"}, rows[0])
	assert.Equal(t, []string{"timestamp", "2024-01-02T03:04:05Z"}, rows[6])
	for _, row := range rows {
		assert.False(t, strings.HasPrefix(row[0], "oig_file_hash"), "empty optional metadata is omitted")
	}
}

func TestAppendRunLog(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, AppendRunLog(dir, at, "first"))
	require.NoError(t, AppendRunLog(dir, at, "second"))

	data, err := os.ReadFile(filepath.Join(dir, "run_log.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[2024-05-01T12:00:00Z] first\n[2024-05-01T12:00:00Z] second\n", string(data))
}
