package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"exclusioncheck/database"
	"exclusioncheck/importer"
	"exclusioncheck/screening"
	apperrors "exclusioncheck/server/errors"
)

func TestToAppError(t *testing.T) {
	_, statErr := os.Stat("/definitely/not/here.csv")

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("%w: 2024-05", database.ErrSnapshotNotFound), http.StatusNotFound},
		{"exists", fmt.Errorf("%w: 2024-05", database.ErrSnapshotAlreadyExists), http.StatusConflict},
		{"in progress", database.ErrBuildInProgress, http.StatusConflict},
		{"month", database.ErrInvalidMonth, http.StatusBadRequest},
		{"columns", fmt.Errorf("row 1: %w", importer.ErrColumnResolution), http.StatusBadRequest},
		{"request", screening.ErrInvalidRequest, http.StatusBadRequest},
		{"missing file", fmt.Errorf("OIG extract: %w", statErr), http.StatusBadRequest},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"app error", apperrors.NewConflictError("taken", nil), http.StatusConflict},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAppError(tt.err, "operation failed")
			if got.Code != tt.code {
				t.Errorf("toAppError(%v).Code = %d, want %d", tt.err, got.Code, tt.code)
			}
		})
	}
}
