package handler

import (
	"net/http"

	"venue/internal/domain"
	"venue/internal/platform"
)

// OrderHandler handles HTTP requests for order and book endpoints.
type OrderHandler struct {
	platform *platform.Platform
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(p *platform.Platform) *OrderHandler {
	return &OrderHandler{platform: p}
}

// submitOrderRequest is the JSON request body for POST /orders. Price
// and amount are deliberately not range-validated; the core accepts
// zero values.
type submitOrderRequest struct {
	Side   string `json:"side"`
	Price  uint64 `json:"price"`
	Amount uint64 `json:"amount"`
	Signer string `json:"signer"`
}

// partialOrderResponse is the JSON representation of a resting order or
// match fragment.
type partialOrderResponse struct {
	Price     uint64 `json:"price"`
	Amount    uint64 `json:"amount"`
	Remaining uint64 `json:"remaining"`
	Side      string `json:"side"`
	Signer    string `json:"signer"`
	Ordinal   uint64 `json:"ordinal"`
}

// receiptResponse is the JSON representation of a match result.
type receiptResponse struct {
	Ordinal uint64                 `json:"ordinal"`
	Matches []partialOrderResponse `json:"matches"`
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	side, err := domain.ParseSide(req.Side)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	receipt, err := h.platform.PlaceOrder(domain.Order{
		Price:  req.Price,
		Amount: req.Amount,
		Side:   side,
		Signer: req.Signer,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildReceiptResponse(receipt))
}

// GetOrderbook handles GET /orderbook.
func (h *OrderHandler) GetOrderbook(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, buildPartialOrderResponses(h.platform.Orderbook()))
}

// GetHistory handles GET /history.
func (h *OrderHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history := h.platform.History()
	out := make([]receiptResponse, len(history))
	for i, receipt := range history {
		out[i] = buildReceiptResponse(receipt)
	}
	WriteJSON(w, http.StatusOK, out)
}

func buildReceiptResponse(receipt domain.Receipt) receiptResponse {
	return receiptResponse{
		Ordinal: receipt.Ordinal,
		Matches: buildPartialOrderResponses(receipt.Matches),
	}
}

func buildPartialOrderResponses(orders []domain.PartialOrder) []partialOrderResponse {
	out := make([]partialOrderResponse, len(orders))
	for i, po := range orders {
		out[i] = partialOrderResponse{
			Price:     po.Price,
			Amount:    po.Amount,
			Remaining: po.Remaining,
			Side:      string(po.Side),
			Signer:    po.Signer,
			Ordinal:   po.Ordinal,
		}
	}
	return out
}
