package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rasgroup/appfolio-recon-backend/internal/api/dto"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
)

// RunsHandler handles reconcile run HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns recent reconcile runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}

	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single reconcile run by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid run ID"))
		return
	}

	run, err := h.repo.GetRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("reconcile run"))
		return
	}

	response := toRunResponse(*run)
	h.WriteJSON(w, http.StatusOK, response)
}

// Exceptions handles GET /api/runs/{id}/exceptions - the run's audit trail.
func (h *RunsHandler) Exceptions(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid run ID"))
		return
	}

	run, err := h.repo.GetRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("reconcile run"))
		return
	}

	exceptions, err := h.repo.ListExceptions(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toExceptionListResponse(exceptions))
}

// toRunResponse converts a storage ReconcileRun to an API response.
func toRunResponse(run storage.ReconcileRun) dto.RunResponse {
	return dto.RunResponse{
		ID:              run.ID,
		BatchID:         run.BatchID,
		InputFile:       run.InputFile,
		CashAccount:     run.CashAccount,
		StartedAt:       run.StartedAt,
		CompletedAt:     run.CompletedAt,
		DryRun:          run.DryRun,
		Status:          run.Status,
		RowsIn:          run.RowsIn,
		RowsSkipped:     run.RowsSkipped,
		RowsExported:    run.RowsExported,
		Exceptions:      run.Exceptions,
		Alerts:          run.Alerts,
		NettedOut:       run.NettedOut,
		DuplicatesFound: run.DuplicatesFound,
		StatementTotal:  run.StatementTotal,
		ExportTotal:     run.ExportTotal,
		Balanced:        run.Balanced,
	}
}
