package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	mW "github.com/paydown/backend/internal/middleware"
	"github.com/paydown/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) CreateDebt(ctx context.Context, userID string, req models.CreateDebtRequest) (*models.Debt, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debt), args.Error(1)
}

func (m *MockLedger) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Debt), args.Error(1)
}

func (m *MockLedger) GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debt), args.Error(1)
}

func (m *MockLedger) UpdateDebt(ctx context.Context, userID, debtID string, req models.UpdateDebtRequest) (*models.Debt, error) {
	args := m.Called(ctx, userID, debtID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debt), args.Error(1)
}

func (m *MockLedger) DeleteDebt(ctx context.Context, userID, debtID string) error {
	return m.Called(ctx, userID, debtID).Error(0)
}

func (m *MockLedger) RecordPayment(ctx context.Context, userID, key string, req models.CreatePaymentRequest) (*models.Payment, bool, error) {
	args := m.Called(ctx, userID, key, req)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Payment), args.Bool(1), args.Error(2)
}

func (m *MockLedger) DeletePayment(ctx context.Context, userID, paymentID string) error {
	return m.Called(ctx, userID, paymentID).Error(0)
}

func (m *MockLedger) ListPayments(ctx context.Context, userID, debtID string) ([]models.Payment, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockLedger) Summary(ctx context.Context, userID string) (*models.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

// newTestRouter mounts every handler on a ledger mock. A non-empty userID
// is injected as the authenticated owner.
func newTestRouter(ledger *MockLedger, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != "" {
				req = req.WithContext(mW.WithUserID(req.Context(), userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	NewDebtHandler(ledger).Routes(r)
	NewPaymentHandler(ledger).Routes(r)
	NewSummaryHandler(ledger).Routes(r)
	return r
}
