package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/apperrors"
)

// respondServiceError maps a service error to its HTTP status.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnknownAssetClass):
		response.RespondError(w, http.StatusNotFound, "unknown asset class", err.Error())
	case errors.Is(err, apperrors.ErrDataSourceUnavailable):
		response.RespondError(w, http.StatusServiceUnavailable, "data source unavailable", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeDashboard.Error(), err.Error())
	}
}
