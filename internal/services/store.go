package services

import (
	"context"

	"github.com/paydown/backend/internal/models"
)

// Store is the persistence contract the services depend on. Implementations
// must apply a payment's amount to its debt's balance in the same atomic
// unit as the payment insert or delete.
type Store interface {
	CreateDebt(ctx context.Context, d *models.Debt) error
	GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]models.Debt, error)
	UpdateDebt(ctx context.Context, userID, debtID string, req models.UpdateDebtRequest) (*models.Debt, error)
	DeleteDebt(ctx context.Context, userID, debtID string) error

	ListPayments(ctx context.Context, userID, debtID string) ([]models.Payment, error)
	RecordPayment(ctx context.Context, userID string, p *models.Payment) (*models.Debt, error)
	DeletePayment(ctx context.Context, userID, paymentID string) (*models.Payment, *models.Debt, error)
}

// DriftStore finds and fixes balances that disagree with payment history.
type DriftStore interface {
	ListBalanceDrift(ctx context.Context) ([]models.BalanceDrift, error)
	RepairBalance(ctx context.Context, b models.BalanceDrift) error
}
