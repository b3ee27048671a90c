package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/paydown/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func summaryDebt(id string, principal, balance string, day int) models.Debt {
	return models.Debt{ID: id, Name: id, Principal: dec(principal), Balance: dec(balance), PaymentDate: day}
}

func summaryPayment(date string, amount string) models.Payment {
	d, _ := models.ParseDate(date)
	return models.Payment{DebtID: "a", Amount: dec(amount), Date: d}
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2026, time.October, 17, 15, 0, 0, 0, time.UTC)

	t.Run("totals and progress", func(t *testing.T) {
		debts := []models.Debt{
			summaryDebt("a", "1000", "750", 20),
			summaryDebt("b", "3000", "3000", 1),
		}

		s := BuildSummary(debts, nil, now)
		assert.True(t, dec("4000").Equal(s.TotalPrincipal))
		assert.True(t, dec("3750").Equal(s.TotalBalance))
		assert.True(t, dec("250").Equal(s.TotalPaid))
		assert.Equal(t, 6.3, s.ProgressPercent)
		require.Len(t, s.Debts, 2)
		assert.Equal(t, 25.0, s.Debts[0].ProgressPercent)
		assert.Equal(t, 0.0, s.Debts[1].ProgressPercent)
	})

	t.Run("empty owner", func(t *testing.T) {
		s := BuildSummary(nil, nil, now)
		assert.Equal(t, 0.0, s.ProgressPercent)
		assert.True(t, s.TotalPrincipal.IsZero())
		assert.Empty(t, s.Upcoming)
		assert.Empty(t, s.Trend)
	})

	t.Run("upcoming due dates", func(t *testing.T) {
		debts := []models.Debt{
			summaryDebt("passed", "100", "100", 10),
			summaryDebt("today", "100", "100", 17),
			summaryDebt("soon", "100", "100", 20),
		}

		s := BuildSummary(debts, nil, now)
		require.Len(t, s.Upcoming, 2)
		assert.Equal(t, "today", s.Upcoming[0].DebtID)
		assert.Equal(t, 0, s.Upcoming[0].DaysUntil)
		assert.Equal(t, "soon", s.Upcoming[1].DebtID)
		assert.Equal(t, 3, s.Upcoming[1].DaysUntil)
		assert.Equal(t, "2026-10-20", s.Upcoming[1].DueDate.String())
	})

	t.Run("passed due date rolls into next month", func(t *testing.T) {
		s := BuildSummary([]models.Debt{summaryDebt("passed", "100", "100", 10)}, nil, now)
		require.Len(t, s.Upcoming, 1)
		assert.Equal(t, "2026-11-10", s.Upcoming[0].DueDate.String())
		assert.Equal(t, 24, s.Upcoming[0].DaysUntil)
	})

	t.Run("day past month end overflows", func(t *testing.T) {
		feb := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
		s := BuildSummary([]models.Debt{summaryDebt("x", "100", "100", 31)}, nil, feb)
		assert.Equal(t, "2026-03-03", s.Upcoming[0].DueDate.String())
	})

	t.Run("this month total and trend", func(t *testing.T) {
		payments := []models.Payment{
			summaryPayment("2026-10-02", "50"),
			summaryPayment("2026-10-02", "25"),
			summaryPayment("2026-09-30", "100"),
			summaryPayment("2025-10-05", "10"),
		}

		s := BuildSummary(nil, payments, now)
		assert.True(t, dec("75").Equal(s.ThisMonthTotal))
		require.Len(t, s.Trend, 3)
		assert.Equal(t, "2025-10-05", s.Trend[0].Date.String())
		assert.Equal(t, "2026-10-02", s.Trend[2].Date.String())
		assert.True(t, dec("75").Equal(s.Trend[2].Amount))
	})

	t.Run("trend keeps the last eight dates", func(t *testing.T) {
		var payments []models.Payment
		for day := 1; day <= 10; day++ {
			payments = append(payments, models.Payment{Amount: dec("1"), Date: models.NewDate(2026, time.September, day)})
		}

		s := BuildSummary(nil, payments, now)
		require.Len(t, s.Trend, 8)
		assert.Equal(t, "2026-09-03", s.Trend[0].Date.String())
		assert.Equal(t, "2026-09-10", s.Trend[7].Date.String())
	})
}

func TestSummaryService_Summary(t *testing.T) {
	ctx := context.Background()
	debts := []models.Debt{summaryDebt("a", "1000", "600", 20)}

	t.Run("computes and caches on miss", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		store := new(MockStore)
		svc := NewSummaryService(store, NewSummaryCache(rdb, 5*time.Minute))
		svc.now = func() time.Time { return testNow }

		store.On("ListDebts", mock.Anything, testUser).Return(debts, nil)
		store.On("ListPayments", mock.Anything, testUser, "").Return([]models.Payment{}, nil)

		expected, err := json.Marshal(BuildSummary(debts, []models.Payment{}, testNow))
		require.NoError(t, err)
		redisMock.ExpectGet(summaryKey1).RedisNil()
		redisMock.ExpectSet(summaryKey1, expected, 5*time.Minute).SetVal("OK")

		s, err := svc.Summary(ctx, testUser)
		require.NoError(t, err)
		assert.True(t, dec("400").Equal(s.TotalPaid))
		store.AssertExpectations(t)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("serves cached summary", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		store := new(MockStore)
		svc := NewSummaryService(store, NewSummaryCache(rdb, 5*time.Minute))
		svc.now = func() time.Time { return testNow }

		redisMock.ExpectGet(summaryKey1).SetVal(`{"total_principal":10,"total_balance":4,"total_paid":6,"progress_percent":60}`)

		s, err := svc.Summary(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 60.0, s.ProgressPercent)
		store.AssertNotCalled(t, "ListDebts", mock.Anything, mock.Anything)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := new(MockStore)
		svc := NewSummaryService(store, NewSummaryCache(nil, time.Minute))

		store.On("ListDebts", mock.Anything, testUser).Return(nil, models.ErrStoreFailure)

		_, err := svc.Summary(ctx, testUser)
		assert.ErrorIs(t, err, models.ErrStoreFailure)
	})
}
