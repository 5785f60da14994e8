package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"exclusioncheck/database"
	apperrors "exclusioncheck/server/errors"
)

// BuildObserver receives finished snapshot builds.
type BuildObserver interface {
	ObserveBuild(result string, d time.Duration, rows map[string]int)
}

// SnapshotHandler serves the reference snapshot endpoints.
type SnapshotHandler struct {
	cache    *database.ReferenceCache
	observer BuildObserver
}

// NewSnapshotHandler creates a snapshot handler. observer may be nil.
func NewSnapshotHandler(cache *database.ReferenceCache, observer BuildObserver) *SnapshotHandler {
	return &SnapshotHandler{cache: cache, observer: observer}
}

// SnapshotListResponse lists the built snapshots.
type SnapshotListResponse struct {
	Snapshots []database.SnapshotInfo `json:"snapshots"`
	Total     int                     `json:"total"`
}

// SnapshotInfoResponse describes one snapshot with its stored metadata.
type SnapshotInfoResponse struct {
	Month    string            `json:"month"`
	Path     string            `json:"path"`
	Metadata map[string]string `json:"metadata"`
}

// BuildSnapshotRequest is the body of POST /api/snapshots.
type BuildSnapshotRequest struct {
	Month        string `json:"month" binding:"required"`
	OIGPath      string `json:"oig_path" binding:"required"`
	SAMPath      string `json:"sam_path" binding:"required"`
	ForceRebuild bool   `json:"force_rebuild"`
}

// HandleListSnapshotsGin lists the snapshots in the cache directory.
// @Summary List snapshots
// @Tags snapshots
// @Produce json
// @Success 200 {object} SnapshotListResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/snapshots [get]
func (h *SnapshotHandler) HandleListSnapshotsGin(c *gin.Context) {
	snapshots, err := h.cache.List()
	if err != nil {
		abortWithError(c, err, "failed to list snapshots")
		return
	}
	if snapshots == nil {
		snapshots = []database.SnapshotInfo{}
	}
	c.JSON(http.StatusOK, SnapshotListResponse{Snapshots: snapshots, Total: len(snapshots)})
}

// HandleSnapshotInfoGin returns the metadata of one month's snapshot.
// @Summary Snapshot metadata
// @Tags snapshots
// @Produce json
// @Param month path string true "Reporting month, YYYY-MM"
// @Success 200 {object} SnapshotInfoResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/snapshots/{month} [get]
func (h *SnapshotHandler) HandleSnapshotInfoGin(c *gin.Context) {
	month := c.Param("month")
	snap, err := h.cache.Open(month)
	if err != nil {
		abortWithError(c, err, "failed to open snapshot")
		return
	}
	defer snap.Close()

	meta, err := snap.Meta(c.Request.Context())
	if err != nil {
		abortWithError(c, err, "failed to read snapshot metadata")
		return
	}
	c.JSON(http.StatusOK, SnapshotInfoResponse{Month: month, Path: snap.Path(), Metadata: meta})
}

// HandleBuildSnapshotGin builds a month's snapshot from two local extracts.
// An existing snapshot is a 409 unless force_rebuild is set.
// @Summary Build a snapshot
// @Description Loads the OIG and SAM extracts into the month's snapshot
// @Tags snapshots
// @Accept json
// @Produce json
// @Param request body BuildSnapshotRequest true "Month and extract paths"
// @Success 201 {object} database.BuildSummary "Built"
// @Success 200 {object} database.BuildSummary "Replaced"
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Snapshot exists or build in progress"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/snapshots [post]
func (h *SnapshotHandler) HandleBuildSnapshotGin(c *gin.Context) {
	var req BuildSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewValidationError("invalid request body", err), "")
		return
	}

	start := time.Now()
	summary, err := h.cache.Build(c.Request.Context(), database.BuildRequest{
		Month:        req.Month,
		OIGPath:      req.OIGPath,
		SAMPath:      req.SAMPath,
		ForceRebuild: req.ForceRebuild,
	})
	h.observe(start, summary, err)
	if err != nil {
		abortWithError(c, err, "failed to build snapshot")
		return
	}

	status := http.StatusCreated
	if summary.Replaced {
		status = http.StatusOK
	}
	c.JSON(status, summary)
}

func (h *SnapshotHandler) observe(start time.Time, summary *database.BuildSummary, err error) {
	if h.observer == nil {
		return
	}
	switch {
	case errors.Is(err, database.ErrSnapshotAlreadyExists):
		h.observer.ObserveBuild("exists", time.Since(start), nil)
	case err != nil:
		h.observer.ObserveBuild("error", time.Since(start), nil)
	default:
		h.observer.ObserveBuild("success", summary.Duration, map[string]int{
			"oig_people":   summary.OIGPeople,
			"oig_entities": summary.OIGEntities,
			"sam_people":   summary.SAMPeople,
			"sam_entities": summary.SAMEntities,
		})
	}
}
