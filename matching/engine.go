package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"exclusioncheck/classification"
	"exclusioncheck/database"
	"exclusioncheck/normalization"
	"exclusioncheck/normalization/algorithms"
)

// SnapshotReader is the read-only view of a reference snapshot the engine
// queries. *database.Snapshot implements it.
type SnapshotReader interface {
	OIGPeopleByLast(ctx context.Context, last string) ([]database.PersonExclusion, error)
	SAMPeopleByLast(ctx context.Context, last string) ([]database.PersonExclusion, error)
	OIGEntityByName(ctx context.Context, name string) (*database.EntityExclusion, error)
	SAMEntityByName(ctx context.Context, name string) (*database.EntityExclusion, error)
	ScanOIGEntities(ctx context.Context, fn func(database.EntityExclusion) bool) error
	ScanSAMEntities(ctx context.Context, fn func(database.EntityExclusion) bool) error
}

// Recorder receives every completed match. internal/monitoring implements it.
type Recorder interface {
	ObserveMatch(kind string, result Result)
}

// Match kinds passed to Recorder.
const (
	KindPerson = "person"
	KindEntity = "entity"
)

// PersonQuery is one individual to screen. Absent fields are empty strings.
type PersonQuery struct {
	First      string `json:"first"`
	Last       string `json:"last"`
	DOBCompact string `json:"dob_compact"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
}

// EntityQuery is one business to screen.
type EntityQuery struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// VendorQuery is a vendor row before classification. A person-vendor is
// screened on zip alone.
type VendorQuery struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// Engine matches queries against one snapshot. It holds no mutable state and
// may be shared by concurrent callers.
type Engine struct {
	reader   SnapshotReader
	recorder Recorder
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRecorder reports match outcomes to r.
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) {
		e.recorder = r
	}
}

// NewEngine creates a match engine over reader.
func NewEngine(reader SnapshotReader, opts ...EngineOption) *Engine {
	e := &Engine{
		reader: reader,
		logger: slog.Default().With("component", "match_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MatchPerson screens an individual against both registries.
//
// OIG: rows sharing the last name are scored on the first name. An exact or
// strong first-name hit confirms only when both sides carry the same DOB. A
// possible hit without that corroboration raises a review and scanning
// continues, since a later row may still confirm.
//
// SAM: only an exact first-name row with a matching zip confirms, and when
// the query carries city or state both must agree as well. SAM person rows
// never raise reviews.
func (e *Engine) MatchPerson(ctx context.Context, q PersonQuery) (Result, error) {
	result, err := e.matchPerson(ctx, q)
	if err == nil {
		e.record(KindPerson, result)
	}
	return result, err
}

func (e *Engine) matchPerson(ctx context.Context, q PersonQuery) (Result, error) {
	result := NewResult()

	name := normalization.NormalizePersonName(q.First, q.Last, "")
	if name.First == "" || name.Last == "" {
		return result, nil
	}
	dob := strings.TrimSpace(q.DOBCompact)

	oigRows, err := e.reader.OIGPeopleByLast(ctx, name.Last)
	if err != nil {
		return result, fmt.Errorf("OIG person lookup: %w", err)
	}
	for _, row := range oigRows {
		score := algorithms.Ratio(name.First, row.First)
		dobMatches := dob != "" && dob == row.DOBCompact

		if name.First == row.First && dobMatches {
			result.OIGStatus = StatusConfirmed
			result.OIGDate = row.ExclusionDate
			result.Reason = "Exact first+last+DOB"
			break
		}
		if score >= algorithms.StrongThreshold && dobMatches {
			result.OIGStatus = StatusConfirmed
			result.OIGDate = row.ExclusionDate
			result.Reason = fmt.Sprintf("Fuzzy first (%s) + DOB", formatScore(score))
			break
		}
		if score < algorithms.PossibleThreshold {
			continue
		}

		candidate := normalization.NormalizeWhitespace(row.First + " " + row.Last)
		switch {
		case dob == "":
			result.setReview(ReviewItem{
				Source:                 ReviewSourceOIGPeople,
				CandidateName:          candidate,
				CandidateExclusionDate: row.ExclusionDate,
				Note:                   fmt.Sprintf("High-similarity OIG name match (score=%s) but DOB missing in source record.", formatScore(score)),
				NeededData:             "DOB",
			})
		case row.DOBCompact != "" && dob != row.DOBCompact:
			result.setReview(ReviewItem{
				Source:                 ReviewSourceOIGPeople,
				CandidateName:          candidate,
				CandidateExclusionDate: row.ExclusionDate,
				Note:                   fmt.Sprintf("High-similarity OIG name match (score=%s) but DOB does not match reference.", formatScore(score)),
				NeededData:             "Confirm DOB / SSN last4",
			})
		}
	}

	samRows, err := e.reader.SAMPeopleByLast(ctx, name.Last)
	if err != nil {
		return result, fmt.Errorf("SAM person lookup: %w", err)
	}
	city := normalization.NormalizeLocation(q.City)
	state := normalization.NormalizeLocation(q.State)
	zip := normalization.NormalizeZip(q.Zip)
	for _, row := range samRows {
		if name.First != row.First {
			continue
		}
		zipMatches := zip != "" && zip == row.Zip
		cityMatches := city != "" && city == row.City
		stateMatches := state != "" && state == row.State

		if zipMatches && ((city == "" && state == "") || (cityMatches && stateMatches)) {
			result.SAMStatus = StatusConfirmed
			result.SAMDate = row.ExclusionDate
			break
		}
	}

	return result, nil
}

// MatchEntity screens a business against both registries. An exact
// normalized name confirms. Otherwise the first strong fuzzy OIG hit raises
// a review, and the first strong fuzzy SAM hit that also agrees on state or
// zip raises a review. Fuzzy hits never confirm.
func (e *Engine) MatchEntity(ctx context.Context, q EntityQuery) (Result, error) {
	result, err := e.matchEntity(ctx, q)
	if err == nil {
		e.record(KindEntity, result)
	}
	return result, err
}

func (e *Engine) matchEntity(ctx context.Context, q EntityQuery) (Result, error) {
	result := NewResult()

	name := normalization.NormalizeEntityName(q.Name)
	if name == "" {
		return result, nil
	}
	state := normalization.NormalizeLocation(q.State)
	zip := normalization.NormalizeZip(q.Zip)

	exactOIG, err := e.reader.OIGEntityByName(ctx, name)
	if err != nil {
		return result, fmt.Errorf("OIG entity lookup: %w", err)
	}
	if exactOIG != nil {
		result.OIGStatus = StatusConfirmed
		result.OIGDate = exactOIG.ExclusionDate
		result.Reason = "Exact entity name match (OIG)"
	} else {
		err := e.reader.ScanOIGEntities(ctx, func(row database.EntityExclusion) bool {
			score := algorithms.Ratio(name, row.Name)
			if score < algorithms.StrongThreshold {
				return true
			}
			result.setReview(ReviewItem{
				Source:                 ReviewSourceOIGEntities,
				CandidateName:          row.Name,
				CandidateExclusionDate: row.ExclusionDate,
				Note:                   fmt.Sprintf("High-similarity OIG entity name match (score=%s).", formatScore(score)),
				NeededData:             "Tax ID / address corroboration",
			})
			return false
		})
		if err != nil {
			return result, fmt.Errorf("OIG entity scan: %w", err)
		}
	}

	exactSAM, err := e.reader.SAMEntityByName(ctx, name)
	if err != nil {
		return result, fmt.Errorf("SAM entity lookup: %w", err)
	}
	if exactSAM != nil {
		result.SAMStatus = StatusConfirmed
		result.SAMDate = exactSAM.ExclusionDate
	} else {
		err := e.reader.ScanSAMEntities(ctx, func(row database.EntityExclusion) bool {
			score := algorithms.Ratio(name, row.Name)
			if score < algorithms.StrongThreshold {
				return true
			}

			var corroboration string
			switch {
			case state != "" && state == row.State:
				corroboration = "state"
			case zip != "" && zip == row.Zip:
				corroboration = "zip"
			default:
				return true
			}

			result.setReview(ReviewItem{
				Source:                 ReviewSourceSAMEntities,
				CandidateName:          row.Name,
				CandidateExclusionDate: row.ExclusionDate,
				Note:                   fmt.Sprintf("High-similarity SAM entity match (score=%s) with %s corroboration.", formatScore(score), corroboration),
				NeededData:             "Tax ID / exact legal name confirmation",
			})
			return false
		})
		if err != nil {
			return result, fmt.Errorf("SAM entity scan: %w", err)
		}
	}

	return result, nil
}

// MatchVendor classifies a vendor and dispatches it. An ambiguous vendor is
// screened both ways; a person result that confirms on either registry is
// preferred over the entity result. Only the kept result is recorded.
func (e *Engine) MatchVendor(ctx context.Context, q VendorQuery) (classification.VendorClass, Result, error) {
	class := classification.ClassifyVendor(q.Name, q.TaxID)

	entityQuery := EntityQuery{Name: q.Name, State: q.State, Zip: q.Zip}
	first, last := normalization.SplitFullName(q.Name)
	personQuery := PersonQuery{First: first, Last: last, Zip: q.Zip}

	switch class {
	case classification.ClassEntity:
		result, err := e.MatchEntity(ctx, entityQuery)
		return class, result, err
	case classification.ClassPersonVendor:
		result, err := e.MatchPerson(ctx, personQuery)
		return class, result, err
	}

	entityResult, err := e.matchEntity(ctx, entityQuery)
	if err != nil {
		return class, entityResult, err
	}
	personResult, err := e.matchPerson(ctx, personQuery)
	if err != nil {
		return class, personResult, err
	}

	if personResult.Confirmed() {
		e.logger.Debug("ambiguous vendor resolved as person", "vendor", q.Name)
		e.record(KindPerson, personResult)
		return class, personResult, nil
	}
	e.record(KindEntity, entityResult)
	return class, entityResult, nil
}

func (e *Engine) record(kind string, result Result) {
	if e.recorder != nil {
		e.recorder.ObserveMatch(kind, result)
	}
}

// formatScore renders a similarity score with one decimal place.
func formatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}
