package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paydown/backend/internal/models"
	"github.com/paydown/backend/internal/services"
)

// IdempotencyHeader lets clients retry payment creation safely.
const IdempotencyHeader = "Idempotency-Key"

// PaymentLedger is the part of the ledger the payment endpoints use.
type PaymentLedger interface {
	RecordPayment(ctx context.Context, userID, idempotencyKey string, req models.CreatePaymentRequest) (*models.Payment, bool, error)
	DeletePayment(ctx context.Context, userID, paymentID string) error
	ListPayments(ctx context.Context, userID, debtID string) ([]models.Payment, error)
}

type PaymentHandler struct {
	ledger    PaymentLedger
	validator *services.ValidationHelper
}

func NewPaymentHandler(ledger PaymentLedger) *PaymentHandler {
	return &PaymentHandler{
		ledger:    ledger,
		validator: services.NewValidationHelper(),
	}
}

func (h *PaymentHandler) Routes(r chi.Router) {
	r.Get("/payments", h.ListPayments)
	r.Post("/payments", h.CreatePayment)
	r.Delete("/payments/{id}", h.DeletePayment)
}

// CreatePayment records a payment against a debt
// @Summary Record payment
// @Description Record a payment and reduce the debt's balance (floored at zero) in one transaction. Repeating a request with the same Idempotency-Key returns the original payment with status 200.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client-generated key for safe retries"
// @Param request body models.CreatePaymentRequest true "Payment data"
// @Success 201 {object} models.Payment
// @Success 200 {object} models.Payment "Replayed request"
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	key := r.Header.Get(IdempotencyHeader)
	if len(key) > 255 {
		services.SendErrorResponse(w, "Idempotency-Key too long", http.StatusBadRequest, nil)
		return
	}

	payment, replayed, err := h.ledger.RecordPayment(r.Context(), userID, key, req)
	if err != nil {
		writeError(w, "PAYMENT", err)
		return
	}

	if replayed {
		log.Printf("[PAYMENT] Duplicate request detected for key %s, payment %s", key, payment.ID)
		writeJSON(w, http.StatusOK, payment)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// ListPayments returns the caller's payments
// @Summary List payments
// @Description List the authenticated user's payments, newest first, optionally for one debt
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param debt_id query string false "Only payments of this debt"
// @Success 200 {array} models.Payment
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	debtID := r.URL.Query().Get("debt_id")
	if debtID != "" {
		if _, err := uuid.Parse(debtID); err != nil {
			services.SendErrorResponse(w, "Invalid debt_id", http.StatusBadRequest, nil)
			return
		}
	}

	payments, err := h.ledger.ListPayments(r.Context(), userID, debtID)
	if err != nil {
		writeError(w, "PAYMENT", err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// DeletePayment removes a payment
// @Summary Delete payment
// @Description Delete a payment and restore its amount to the debt's balance (capped at the principal) in one transaction
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} object{success=bool}
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	paymentID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeletePayment(r.Context(), userID, paymentID); err != nil {
		writeError(w, "PAYMENT", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
