package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"exclusioncheck/database"
	"exclusioncheck/matching"
	"exclusioncheck/normalization"
	apperrors "exclusioncheck/server/errors"
)

// MatchHandler screens single records against a month's snapshot.
type MatchHandler struct {
	cache    *database.ReferenceCache
	recorder matching.Recorder
}

// NewMatchHandler creates a match handler. recorder may be nil.
func NewMatchHandler(cache *database.ReferenceCache, recorder matching.Recorder) *MatchHandler {
	return &MatchHandler{cache: cache, recorder: recorder}
}

// PersonMatchRequest is the body of POST /api/match/person.
type PersonMatchRequest struct {
	Month string `json:"month" binding:"required"`
	First string `json:"first_name" binding:"required"`
	Last  string `json:"last_name" binding:"required"`
	DOB   string `json:"dob"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// EntityMatchRequest is the body of POST /api/match/entity.
type EntityMatchRequest struct {
	Month string `json:"month" binding:"required"`
	Name  string `json:"name" binding:"required"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// HandleMatchPersonGin screens one person.
// @Summary Screen one person
// @Description Matches a person against the OIG and SAM rows of a month's snapshot
// @Tags match
// @Accept json
// @Produce json
// @Param request body PersonMatchRequest true "Person to screen"
// @Success 200 {object} matching.Result
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Snapshot not found"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/match/person [post]
func (h *MatchHandler) HandleMatchPersonGin(c *gin.Context) {
	var req PersonMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewValidationError("invalid request body", err), "")
		return
	}

	// An unparseable DOB is treated as absent.
	_, dobCompact, _ := normalization.NormalizeDOB(req.DOB)

	h.withEngine(c, req.Month, func(engine *matching.Engine) (matching.Result, error) {
		return engine.MatchPerson(c.Request.Context(), matching.PersonQuery{
			First:      req.First,
			Last:       req.Last,
			DOBCompact: dobCompact,
			City:       req.City,
			State:      req.State,
			Zip:        req.Zip,
		})
	})
}

// HandleMatchEntityGin screens one business.
// @Summary Screen one business
// @Description Matches a business name against the OIG and SAM entity rows of a month's snapshot
// @Tags match
// @Accept json
// @Produce json
// @Param request body EntityMatchRequest true "Business to screen"
// @Success 200 {object} matching.Result
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Snapshot not found"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/match/entity [post]
func (h *MatchHandler) HandleMatchEntityGin(c *gin.Context) {
	var req EntityMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewValidationError("invalid request body", err), "")
		return
	}

	h.withEngine(c, req.Month, func(engine *matching.Engine) (matching.Result, error) {
		return engine.MatchEntity(c.Request.Context(), matching.EntityQuery{
			Name:  req.Name,
			State: req.State,
			Zip:   req.Zip,
		})
	})
}

func (h *MatchHandler) withEngine(c *gin.Context, month string, match func(*matching.Engine) (matching.Result, error)) {
	snap, err := h.cache.Open(month)
	if err != nil {
		abortWithError(c, err, "failed to open snapshot")
		return
	}
	defer snap.Close()

	result, err := match(matching.NewEngine(snap, matching.WithRecorder(h.recorder)))
	if err != nil {
		abortWithError(c, err, "match failed")
		return
	}
	c.JSON(http.StatusOK, result)
}
