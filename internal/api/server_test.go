package api_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasgroup/appfolio-recon-backend/internal/api"
	"github.com/rasgroup/appfolio-recon-backend/internal/api/dto"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
)

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	server := api.NewServer(api.DefaultConfig(), repo, logger)
	return server, repo
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
}

func TestServer_RunsEndpoints(t *testing.T) {
	t.Run("GET /api/runs returns runs", func(t *testing.T) {
		server, repo := newTestServer(t)
		runID, _ := repo.StartRun("batch-1", "amex_2025-12.csv", "1170: Amex", false)
		_ = repo.CompleteRun(runID, storage.RunSummary{RowsIn: 4, RowsExported: 3, Balanced: true})

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 1, response.Count)
	})

	t.Run("GET /api/runs/:id returns single run", func(t *testing.T) {
		server, repo := newTestServer(t)
		runID, _ := repo.StartRun("batch-1", "amex_2025-12.csv", "1170: Amex", false)
		_ = repo.CompleteRun(runID, storage.RunSummary{RowsIn: 4, RowsExported: 3, Balanced: true})

		req := httptest.NewRequest(http.MethodGet, "/api/runs/1", nil)
		rec := httptest.NewRecorder()

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, int64(1), response.ID)
		assert.Equal(t, "batch-1", response.BatchID)
	})

	t.Run("GET /api/runs/:id returns 404 for missing run", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/99", nil)
		rec := httptest.NewRecorder()

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_TransactionsEndpoint(t *testing.T) {
	server, repo := newTestServer(t)
	repo.AddTransaction(&storage.TransactionRecord{
		ID: 1, RunID: 1, Merchant: "SYKES ACE HDWE", Vendor: "Ace Hardware",
		Status: "OK", Amount: 45.00,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?vendor=Ace", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TransactionListResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, 1, response.TotalCount)
}

func TestServer_ExceptionsEndpoint(t *testing.T) {
	server, repo := newTestServer(t)
	_ = repo.LogException(&storage.ExceptionRecord{
		RunID: 1, Merchant: "SOME STORE", Amount: 200, Reason: "blocked",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/exceptions", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ExceptionListResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, 1, response.Count)
}

func TestServer_StatsEndpoint(t *testing.T) {
	server, repo := newTestServer(t)
	repo.AddTransaction(&storage.TransactionRecord{ID: 1, Status: "OK", Amount: 45, Exported: true})
	repo.AddTransaction(&storage.TransactionRecord{ID: 2, Status: "EXCEPTION", Amount: 200})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.StatsResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, 2, response.TotalTransactions)
	assert.Equal(t, 1, response.ExceptionCount)
}

func TestServer_CORS(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("sets CORS headers for allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("handles OPTIONS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/runs", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
