package handlers

import (
	"net/http"

	"github.com/rasgroup/appfolio-recon-backend/internal/api/dto"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
)

// TransactionsHandler handles resolved-transaction HTTP requests.
type TransactionsHandler struct {
	*Base
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo storage.Repository) *TransactionsHandler {
	return &TransactionsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/transactions - paginated resolved rows with filters.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.TransactionFilters{
		RunID:     int64(ParseIntParam(r, "run_id", 0)),
		Status:    r.URL.Query().Get("status"),
		Vendor:    r.URL.Query().Get("vendor"),
		Limit:     ParseIntParam(r, "limit", 50),
		Offset:    ParseIntParam(r, "offset", 0),
		OrderDesc: ParseBoolParam(r, "newest_first", true),
	}

	result, err := h.repo.ListTransactions(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(result.Transactions)),
		TotalCount:   result.TotalCount,
		Limit:        result.Limit,
		Offset:       result.Offset,
	}

	for _, txn := range result.Transactions {
		response.Transactions = append(response.Transactions, toTransactionResponse(txn))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// toTransactionResponse converts a storage record to an API response.
func toTransactionResponse(txn *storage.TransactionRecord) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            txn.ID,
		RunID:         txn.RunID,
		Date:          txn.Date,
		Merchant:      txn.Merchant,
		Normalized:    txn.Normalized,
		AccountHolder: txn.AccountHolder,
		Amount:        txn.Amount,
		Vendor:        txn.Vendor,
		VendorScore:   txn.VendorScore,
		VendorSource:  txn.VendorSource,
		Property:      txn.Property,
		PropertyScore: txn.PropertyScore,
		GLAccount:     txn.GLAccount,
		GLScore:       txn.GLScore,
		Status:        txn.Status,
		Note:          txn.Note,
		Exported:      txn.Exported,
	}
}
