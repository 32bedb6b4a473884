package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/wealthsense/internal/api/middleware"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	tracker *service.Tracker
	log     zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(tracker *service.Tracker, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		tracker: tracker,
		log:     log,
	}
}

type createTransactionRequest struct {
	Description string                 `json:"description"`
	Amount      float64                `json:"amount"`
	Category    domain.Category        `json:"category"`
	Type        domain.TransactionType `json:"type"`
	PaymentMode domain.PaymentMode     `json:"paymentMode"`
	// Date is YYYY-MM-DD. Empty means today.
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := h.tracker.Transactions()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft := domain.Draft{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		PaymentMode: req.PaymentMode,
		Notes:       req.Notes,
	}
	if d := strings.TrimSpace(req.Date); d != "" {
		date, err := civil.ParseDate(d)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		draft.Date = date
	}

	created, err := h.tracker.AddTransaction(r.Context(), draft)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to add transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, created)
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tracker.DeleteTransaction(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "Failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearTransactions handles DELETE /api/transactions
func (h *TransactionsHandler) ClearTransactions(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.ClearAll(r.Context()); err != nil {
		writeServiceError(w, h.log, err, "Failed to clear transactions")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ledger handles GET /api/ledger
func (h *TransactionsHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	groups := h.tracker.Ledger()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"days":  groups,
		"count": len(groups),
	})
}
