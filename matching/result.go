package matching

// Status is the outcome of a match against one registry.
type Status string

const (
	StatusNotFound  Status = "NOT_FOUND"
	StatusConfirmed Status = "CONFIRMED"
)

// Review sources.
const (
	ReviewSourceOIGPeople   = "OIG People"
	ReviewSourceOIGEntities = "OIG Entities"
	ReviewSourceSAMEntities = "SAM Entities"
)

// EngineVersion identifies the match rules. It is recorded with every run.
const EngineVersion = "1.2.0"

// ReviewItem flags a candidate that needs a human to look at additional data
// before it can be called a match.
type ReviewItem struct {
	Source                 string `json:"source"`
	CandidateName          string `json:"candidate_name"`
	CandidateExclusionDate string `json:"candidate_exclusion_date"`
	Note                   string `json:"note"`
	NeededData             string `json:"needed_data"`
}

// Result is the match outcome for one screened record.
type Result struct {
	OIGStatus Status      `json:"oig_status"`
	OIGDate   string      `json:"oig_date"`
	SAMStatus Status      `json:"sam_status"`
	SAMDate   string      `json:"sam_date"`
	Reason    string      `json:"reason"`
	Review    *ReviewItem `json:"review,omitempty"`
}

// NewResult returns a result with both registries NOT_FOUND.
func NewResult() Result {
	return Result{OIGStatus: StatusNotFound, SAMStatus: StatusNotFound}
}

// ReviewRequired reports whether a review item is attached.
func (r Result) ReviewRequired() bool {
	return r.Review != nil
}

// Confirmed reports whether either registry confirmed the match.
func (r Result) Confirmed() bool {
	return r.OIGStatus == StatusConfirmed || r.SAMStatus == StatusConfirmed
}

// setReview attaches item unless a review is already present. The first
// review wins.
func (r *Result) setReview(item ReviewItem) {
	if r.Review != nil {
		return
	}
	r.Review = &item
}
