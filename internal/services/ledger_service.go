package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/paydown/backend/internal/models"
)

// LedgerService owns every mutation of debts and payments. Balance changes
// are delegated to the store, which applies them atomically with the
// payment row; this layer adds ids, auditing, cache invalidation and
// idempotent retries.
type LedgerService struct {
	store       Store
	audit       *AuditLogger
	summaries   *SummaryCache
	idempotency *IdempotencyStore
	now         func() time.Time
	newID       func() string
}

func NewLedgerService(store Store, summaries *SummaryCache, idempotency *IdempotencyStore) *LedgerService {
	return &LedgerService{
		store:       store,
		audit:       NewAuditLogger(),
		summaries:   summaries,
		idempotency: idempotency,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *LedgerService) CreateDebt(ctx context.Context, userID string, req models.CreateDebtRequest) (*models.Debt, error) {
	debt := &models.Debt{
		ID:           s.newID(),
		UserID:       userID,
		Name:         req.Name,
		Principal:    req.Principal,
		Balance:      req.Principal,
		InterestRate: req.InterestRate,
		PaymentDate:  req.PaymentDate,
	}
	if err := s.store.CreateDebt(ctx, debt); err != nil {
		log.Printf("[DEBT] Failed to create debt for %s: %v", userID, err)
		return nil, err
	}

	s.audit.LogDebtChange("DEBT_CREATED", userID, debt)
	s.invalidate(ctx, userID)
	return debt, nil
}

func (s *LedgerService) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	return s.store.ListDebts(ctx, userID)
}

func (s *LedgerService) GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	return s.store.GetDebt(ctx, userID, debtID)
}

func (s *LedgerService) UpdateDebt(ctx context.Context, userID, debtID string, req models.UpdateDebtRequest) (*models.Debt, error) {
	debt, err := s.store.UpdateDebt(ctx, userID, debtID, req)
	if err != nil {
		log.Printf("[DEBT] Failed to update debt %s: %v", debtID, err)
		return nil, err
	}

	s.audit.LogDebtChange("DEBT_UPDATED", userID, debt)
	s.invalidate(ctx, userID)
	return debt, nil
}

func (s *LedgerService) DeleteDebt(ctx context.Context, userID, debtID string) error {
	if err := s.store.DeleteDebt(ctx, userID, debtID); err != nil {
		log.Printf("[DEBT] Failed to delete debt %s: %v", debtID, err)
		return err
	}

	s.audit.LogDebtChange("DEBT_DELETED", userID, &models.Debt{ID: debtID})
	s.invalidate(ctx, userID)
	return nil
}

func (s *LedgerService) ListPayments(ctx context.Context, userID, debtID string) ([]models.Payment, error) {
	return s.store.ListPayments(ctx, userID, debtID)
}

// RecordPayment records a payment and debits its debt, flooring the balance
// at zero. With a non-empty idempotencyKey a retried request returns the
// originally created payment and replayed is true.
func (s *LedgerService) RecordPayment(ctx context.Context, userID, idempotencyKey string, req models.CreatePaymentRequest) (payment *models.Payment, replayed bool, err error) {
	if !req.Amount.IsPositive() || !models.HasPlaces(req.Amount, models.MoneyPlaces) {
		return nil, false, fmt.Errorf("%w: %s", models.ErrInvalidAmount, req.Amount)
	}

	if idempotencyKey != "" {
		prior, err := s.idempotency.Claim(ctx, userID, idempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if prior != nil {
			log.Printf("[PAYMENT] Replaying payment %s for key %s", prior.ID, idempotencyKey)
			return prior, true, nil
		}
	}

	payment = &models.Payment{
		ID:     s.newID(),
		DebtID: req.DebtID,
		Amount: req.Amount,
		Date:   req.Date,
	}

	debt, err := s.store.RecordPayment(ctx, userID, payment)
	if err != nil {
		if idempotencyKey != "" {
			s.idempotency.Release(ctx, userID, idempotencyKey)
		}
		s.audit.LogError("PAYMENT_RECORDED", userID, req.DebtID, err)
		return nil, false, err
	}

	if idempotencyKey != "" {
		s.idempotency.Complete(ctx, userID, idempotencyKey, payment)
	}
	s.audit.LogPayment(userID, payment, debt)
	s.invalidate(context.WithoutCancel(ctx), userID)
	return payment, false, nil
}

// DeletePayment removes a payment and credits its amount back, capping the
// balance at the principal.
func (s *LedgerService) DeletePayment(ctx context.Context, userID, paymentID string) error {
	payment, debt, err := s.store.DeletePayment(ctx, userID, paymentID)
	if err != nil {
		s.audit.LogError("PAYMENT_DELETED", userID, paymentID, err)
		return err
	}

	s.audit.LogPaymentReversal(userID, payment, debt)
	s.invalidate(ctx, userID)
	return nil
}

func (s *LedgerService) invalidate(ctx context.Context, userID string) {
	s.summaries.Invalidate(ctx, userID, s.now())
}
