package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parcel/internal/middleware"
	"parcel/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ConfirmRequest is the HTTP request body for confirming a payment.
type ConfirmRequest struct {
	ParcelID      string  `json:"parcelId"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

// PaymentResponse is the HTTP response for ledger records.
type PaymentResponse struct {
	ID            string    `json:"id"`
	ParcelID      string    `json:"parcelId"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transactionId"`
	PaidAtString  string    `json:"paid_at_string"`
	PaidAt        time.Time `json:"paid_at"`
}

// Confirm handles POST /payments
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.Confirm(c.Request.Context(), service.ConfirmRequest{
		ParcelID:      req.ParcelID,
		Email:         req.Email,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{"insertedId": payment.ID})
}

// History handles GET /payments?email=. The route requires a token, and
// the caller may only read their own ledger.
func (h *PaymentHandler) History(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email is required"})
		return
	}

	if middleware.CallerEmail(c) != email {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
		return
	}

	payments, err := h.paymentService.History(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, PaymentResponse{
			ID:            p.ID,
			ParcelID:      p.ParcelID,
			Email:         p.Email,
			Amount:        p.Amount,
			TransactionID: p.TransactionID,
			PaidAtString:  p.PaidAtString,
			PaidAt:        p.PaidAt,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// CreateIntentRequest is the HTTP request body for a charge intent.
type CreateIntentRequest struct {
	AmountInCents int64 `json:"amountInCents"`
}

// CreateIntent handles POST /create-payment-intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	clientSecret, err := h.paymentService.CreateIntent(c.Request.Context(), req.AmountInCents)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"clientSecret": clientSecret})
}
