package handlers

import (
	"context"
	"errors"
	"io/fs"

	"github.com/gin-gonic/gin"

	"exclusioncheck/database"
	"exclusioncheck/importer"
	"exclusioncheck/internal/config"
	"exclusioncheck/screening"
	apperrors "exclusioncheck/server/errors"
)

// toAppError maps domain errors to HTTP errors.
func toAppError(err error, message string) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, database.ErrSnapshotNotFound):
		return apperrors.NewNotFoundError("reference snapshot not found", err)
	case errors.Is(err, database.ErrSnapshotAlreadyExists):
		return apperrors.NewConflictError("reference snapshot already exists", err)
	case errors.Is(err, database.ErrBuildInProgress):
		return apperrors.NewConflictError("reference snapshot build already in progress", err)
	case errors.Is(err, database.ErrInvalidMonth),
		errors.Is(err, config.ErrClientConfig),
		errors.Is(err, screening.ErrInvalidRequest),
		errors.Is(err, importer.ErrColumnResolution):
		return apperrors.NewValidationError(err.Error(), err)
	case errors.Is(err, fs.ErrNotExist):
		return apperrors.NewValidationError("input file not found", err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewServiceUnavailableError("request cancelled", err)
	}
	return apperrors.NewInternalError(message, err)
}

// abortWithError attaches err for middleware.GinErrorHandler and stops the chain.
func abortWithError(c *gin.Context, err error, message string) {
	_ = c.Error(toAppError(err, message))
	c.Abort()
}
