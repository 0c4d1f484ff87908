package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasgroup/appfolio-recon-backend/internal/api/dto"
	"github.com/rasgroup/appfolio-recon-backend/internal/api/handlers"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
)

func seedTransactions(repo *storage.MockRepository) {
	repo.AddTransaction(&storage.TransactionRecord{
		ID: 1, RunID: 1, Date: "2025-12-01", Merchant: "SYKES ACE HDWE",
		Vendor: "Ace Hardware", Status: "OK", Amount: 45.00, Exported: true,
	})
	repo.AddTransaction(&storage.TransactionRecord{
		ID: 2, RunID: 1, Date: "2025-12-02", Merchant: "USPS PO 0MIAMI",
		Vendor: "USPS", Status: "ALERT", Amount: 12.80, Exported: true,
	})
	repo.AddTransaction(&storage.TransactionRecord{
		ID: 3, RunID: 2, Date: "2025-12-03", Merchant: "NETFLIX.COM",
		Status: "SKIP", Amount: 15.99,
	})
}

func TestTransactionsHandler_List(t *testing.T) {
	t.Run("returns all transactions", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedTransactions(repo)
		handler := handlers.NewTransactionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.TransactionListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 3, response.TotalCount)
		assert.Len(t, response.Transactions, 3)
	})

	t.Run("filters by status", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedTransactions(repo)
		handler := handlers.NewTransactionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions?status=ALERT", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.TransactionListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		require.Equal(t, 1, response.TotalCount)
		assert.Equal(t, "USPS", response.Transactions[0].Vendor)
	})

	t.Run("filters by run", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedTransactions(repo)
		handler := handlers.NewTransactionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions?run_id=2", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.TransactionListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		require.Equal(t, 1, response.TotalCount)
		assert.Equal(t, "SKIP", response.Transactions[0].Status)
	})

	t.Run("paginates", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedTransactions(repo)
		handler := handlers.NewTransactionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions?limit=2&offset=2", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.TransactionListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 3, response.TotalCount)
		assert.Len(t, response.Transactions, 1)
		assert.Equal(t, 2, response.Offset)
	})
}
