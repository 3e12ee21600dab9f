package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"venue/internal/domain"
	"venue/internal/platform"
)

// AccountHandler handles HTTP requests for ledger endpoints.
type AccountHandler struct {
	platform *platform.Platform
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(p *platform.Platform) *AccountHandler {
	return &AccountHandler{platform: p}
}

// amountRequest is the JSON request body for deposits and withdrawals.
type amountRequest struct {
	Amount uint64 `json:"amount"`
}

// transferRequest is the JSON request body for POST /transfers.
type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// txResponse is the JSON representation of a ledger transaction.
type txResponse struct {
	TxID      string `json:"tx_id"`
	Kind      string `json:"kind"`
	Signer    string `json:"signer"`
	Amount    uint64 `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// balanceResponse is the JSON response for GET /accounts/{signer}/balance.
type balanceResponse struct {
	Signer  string `json:"signer"`
	Balance uint64 `json:"balance"`
}

// reservedResponse is the JSON response for GET /accounts/{signer}/reserved.
type reservedResponse struct {
	Signer   string `json:"signer"`
	Reserved uint64 `json:"reserved"`
}

// Deposit handles POST /accounts/{signer}/deposit.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	signer := chi.URLParam(r, "signer")

	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	tx, err := h.platform.Deposit(signer, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildTxResponse(tx))
}

// Withdraw handles POST /accounts/{signer}/withdraw.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	signer := chi.URLParam(r, "signer")

	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	tx, err := h.platform.Withdraw(signer, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildTxResponse(tx))
}

// Transfer handles POST /transfers.
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	debit, credit, err := h.platform.Send(req.From, req.To, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, []txResponse{
		buildTxResponse(debit),
		buildTxResponse(credit),
	})
}

// GetBalance handles GET /accounts/{signer}/balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	signer := chi.URLParam(r, "signer")

	balance, err := h.platform.BalanceOf(signer)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balanceResponse{Signer: signer, Balance: balance})
}

// GetReserved handles GET /accounts/{signer}/reserved.
func (h *AccountHandler) GetReserved(w http.ResponseWriter, r *http.Request) {
	signer := chi.URLParam(r, "signer")

	WriteJSON(w, http.StatusOK, reservedResponse{
		Signer:   signer,
		Reserved: h.platform.ReservedAmount(signer),
	})
}

func buildTxResponse(tx domain.Tx) txResponse {
	return txResponse{
		TxID:      tx.TxID,
		Kind:      string(tx.Kind),
		Signer:    tx.Signer,
		Amount:    tx.Amount,
		CreatedAt: tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}
