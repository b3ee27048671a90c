package services

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/paydown/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// ctxHook records, per redis command, whether it was issued on a context
// that was already done.
type ctxHook struct {
	mu   sync.Mutex
	done map[string]bool
}

func newCtxHook() *ctxHook {
	return &ctxHook{done: make(map[string]bool)}
}

func (h *ctxHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done[cmd.Name()] = h.done[cmd.Name()] || ctx.Err() != nil
	return ctx, nil
}

func (h *ctxHook) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (h *ctxHook) BeforeProcessPipeline(ctx context.Context, _ []redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h *ctxHook) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }

func (h *ctxHook) issued(name string) (seen, cancelled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cancelled, seen = h.done[name]
	return seen, cancelled
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateDebt(ctx context.Context, d *models.Debt) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockStore) GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debt), args.Error(1)
}

func (m *MockStore) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Debt), args.Error(1)
}

func (m *MockStore) UpdateDebt(ctx context.Context, userID, debtID string, req models.UpdateDebtRequest) (*models.Debt, error) {
	args := m.Called(ctx, userID, debtID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debt), args.Error(1)
}

func (m *MockStore) DeleteDebt(ctx context.Context, userID, debtID string) error {
	args := m.Called(ctx, userID, debtID)
	return args.Error(0)
}

func (m *MockStore) ListPayments(ctx context.Context, userID, debtID string) ([]models.Payment, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockStore) RecordPayment(ctx context.Context, userID string, p *models.Payment) (*models.Debt, error) {
	args := m.Called(ctx, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debt), args.Error(1)
}

func (m *MockStore) DeletePayment(ctx context.Context, userID, paymentID string) (*models.Payment, *models.Debt, error) {
	args := m.Called(ctx, userID, paymentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Payment), args.Get(1).(*models.Debt), args.Error(2)
}

type MockDriftStore struct {
	mock.Mock
}

func (m *MockDriftStore) ListBalanceDrift(ctx context.Context) ([]models.BalanceDrift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BalanceDrift), args.Error(1)
}

func (m *MockDriftStore) RepairBalance(ctx context.Context, b models.BalanceDrift) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
