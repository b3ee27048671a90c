package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paydown/backend/internal/models"
	"github.com/paydown/backend/internal/services"
)

// DebtLedger is the part of the ledger the debt endpoints use.
type DebtLedger interface {
	CreateDebt(ctx context.Context, userID string, req models.CreateDebtRequest) (*models.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]models.Debt, error)
	GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error)
	UpdateDebt(ctx context.Context, userID, debtID string, req models.UpdateDebtRequest) (*models.Debt, error)
	DeleteDebt(ctx context.Context, userID, debtID string) error
}

type DebtHandler struct {
	ledger    DebtLedger
	validator *services.ValidationHelper
}

func NewDebtHandler(ledger DebtLedger) *DebtHandler {
	return &DebtHandler{
		ledger:    ledger,
		validator: services.NewValidationHelper(),
	}
}

func (h *DebtHandler) Routes(r chi.Router) {
	r.Get("/debts", h.ListDebts)
	r.Post("/debts", h.CreateDebt)
	r.Get("/debts/{id}", h.GetDebt)
	r.Put("/debts/{id}", h.UpdateDebt)
	r.Delete("/debts/{id}", h.DeleteDebt)
}

// ListDebts returns the caller's debts
// @Summary List debts
// @Description List the authenticated user's debts, newest first
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Debt
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /debts [get]
func (h *DebtHandler) ListDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	debts, err := h.ledger.ListDebts(r.Context(), userID)
	if err != nil {
		writeError(w, "DEBT", err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

// CreateDebt registers a new debt
// @Summary Create debt
// @Description Register a debt; its balance starts equal to the principal
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateDebtRequest true "Debt data"
// @Success 201 {object} models.Debt
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /debts [post]
func (h *DebtHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateDebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	debt, err := h.ledger.CreateDebt(r.Context(), userID, req)
	if err != nil {
		writeError(w, "DEBT", err)
		return
	}
	writeJSON(w, http.StatusCreated, debt)
}

// GetDebt returns one debt
// @Summary Get debt
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} models.Debt
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /debts/{id} [get]
func (h *DebtHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	debtID, ok := pathID(w, r)
	if !ok {
		return
	}

	debt, err := h.ledger.GetDebt(r.Context(), userID, debtID)
	if err != nil {
		writeError(w, "DEBT", err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

// UpdateDebt edits a debt
// @Summary Update debt
// @Description Partially update a debt. Changing the principal without a balance keeps the repaid amount; the balance is always kept within [0, principal]
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param request body models.UpdateDebtRequest true "Fields to change"
// @Success 200 {object} models.Debt
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	debtID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateDebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	debt, err := h.ledger.UpdateDebt(r.Context(), userID, debtID, req)
	if err != nil {
		writeError(w, "DEBT", err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

// DeleteDebt removes a debt and its payments
// @Summary Delete debt
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} object{success=bool}
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	debtID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteDebt(r.Context(), userID, debtID); err != nil {
		writeError(w, "DEBT", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
