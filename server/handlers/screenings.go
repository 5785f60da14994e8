package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"exclusioncheck/internal/config"
	"exclusioncheck/screening"
	apperrors "exclusioncheck/server/errors"
)

// ScreeningHandler runs screenings for configured clients.
type ScreeningHandler struct {
	runner     *screening.Runner
	clientsDir string
}

// NewScreeningHandler creates a screening handler resolving client configs
// from clientsDir.
func NewScreeningHandler(runner *screening.Runner, clientsDir string) *ScreeningHandler {
	return &ScreeningHandler{runner: runner, clientsDir: clientsDir}
}

// ScreeningRequest is the body of POST /api/screenings. Paths refer to files
// on the server.
type ScreeningRequest struct {
	Client     string `json:"client" binding:"required"`
	Month      string `json:"month" binding:"required"`
	StaffPath  string `json:"staff_path"`
	BoardPath  string `json:"board_path"`
	VendorPath string `json:"vendor_path"`
	OIGPath    string `json:"oig_path"`
	SAMPath    string `json:"sam_path"`
}

// HandleRunScreeningGin runs one screening and returns its report. A run
// with failed categories still answers 200; the failures are in the body.
// @Summary Run a screening
// @Description Screens a client's staff, board and vendor files against a month's snapshot
// @Tags screenings
// @Accept json
// @Produce json
// @Param request body ScreeningRequest true "Client, month and input files"
// @Success 200 {object} screening.Report
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Snapshot or client config not found"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/screenings [post]
func (h *ScreeningHandler) HandleRunScreeningGin(c *gin.Context) {
	var req ScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewValidationError("invalid request body", err), "")
		return
	}

	client, err := config.LoadClientConfigByName(h.clientsDir, req.Client)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = apperrors.NewNotFoundError("client config not found", err)
		}
		abortWithError(c, err, "failed to load client config")
		return
	}

	report, err := h.runner.Run(c.Request.Context(), screening.Request{
		Client:     client,
		Month:      req.Month,
		StaffPath:  req.StaffPath,
		BoardPath:  req.BoardPath,
		VendorPath: req.VendorPath,
		OIGPath:    req.OIGPath,
		SAMPath:    req.SAMPath,
	})
	if err != nil {
		abortWithError(c, err, "screening run failed")
		return
	}
	c.JSON(http.StatusOK, report)
}
