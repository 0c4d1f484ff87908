package handlers

import (
	"net/http"

	"github.com/rasgroup/appfolio-recon-backend/internal/api/dto"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
)

// ExceptionsHandler serves the blocked-transaction audit trail.
type ExceptionsHandler struct {
	*Base
}

// NewExceptionsHandler creates a new exceptions handler.
func NewExceptionsHandler(repo storage.Repository) *ExceptionsHandler {
	return &ExceptionsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/exceptions - exceptions across all runs, or one
// run when run_id is given.
func (h *ExceptionsHandler) List(w http.ResponseWriter, r *http.Request) {
	runID := int64(ParseIntParam(r, "run_id", 0))

	exceptions, err := h.repo.ListExceptions(runID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toExceptionListResponse(exceptions))
}

func toExceptionListResponse(records []storage.ExceptionRecord) dto.ExceptionListResponse {
	response := dto.ExceptionListResponse{
		Exceptions: make([]dto.ExceptionResponse, 0, len(records)),
		Count:      len(records),
	}
	for _, rec := range records {
		response.Exceptions = append(response.Exceptions, dto.ExceptionResponse{
			ID:            rec.ID,
			RunID:         rec.RunID,
			Date:          rec.Date,
			Merchant:      rec.Merchant,
			AccountHolder: rec.AccountHolder,
			Amount:        rec.Amount,
			Reason:        rec.Reason,
			LoggedAt:      rec.LoggedAt,
		})
	}
	return response
}
