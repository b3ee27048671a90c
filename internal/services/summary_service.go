package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/paydown/backend/internal/models"
	"github.com/shopspring/decimal"
)

const (
	upcomingLimit = 2
	trendLimit    = 8
)

// SummaryService computes read-side aggregates over an owner's debts and
// payments. Results are cached per owner and day when a cache is configured.
type SummaryService struct {
	store Store
	cache *SummaryCache
	now   func() time.Time
}

func NewSummaryService(store Store, cache *SummaryCache) *SummaryService {
	return &SummaryService{
		store: store,
		cache: cache,
		now:   time.Now,
	}
}

func (s *SummaryService) Summary(ctx context.Context, userID string) (*models.Summary, error) {
	now := s.now()
	if cached, ok := s.cache.Get(ctx, userID, now); ok {
		return cached, nil
	}

	debts, err := s.store.ListDebts(ctx, userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(debts, payments, now)
	s.cache.Set(ctx, userID, now, summary)
	log.Printf("[SUMMARY] Computed summary for %s: %d debts, %d payments", userID, len(debts), len(payments))
	return summary, nil
}

// BuildSummary derives the dashboard aggregates as of now.
func BuildSummary(debts []models.Debt, payments []models.Payment, now time.Time) *models.Summary {
	summary := &models.Summary{
		Debts:    make([]models.DebtProgress, 0, len(debts)),
		Upcoming: []models.UpcomingDue{},
		Trend:    []models.TrendPoint{},
	}

	today := models.NewDate(now.Year(), now.Month(), now.Day())
	for i := range debts {
		d := &debts[i]
		summary.TotalPrincipal = summary.TotalPrincipal.Add(d.Principal)
		summary.TotalBalance = summary.TotalBalance.Add(d.Balance)
		summary.Debts = append(summary.Debts, models.DebtProgress{
			DebtID:          d.ID,
			Name:            d.Name,
			Principal:       d.Principal,
			Balance:         d.Balance,
			Paid:            d.Paid(),
			ProgressPercent: d.ProgressPercent(),
		})
		summary.Upcoming = append(summary.Upcoming, nextDue(d, today))
	}
	summary.TotalPaid = summary.TotalPrincipal.Sub(summary.TotalBalance)
	summary.ProgressPercent = models.Percent(summary.TotalPaid, summary.TotalPrincipal)

	sort.SliceStable(summary.Upcoming, func(i, j int) bool {
		return summary.Upcoming[i].DaysUntil < summary.Upcoming[j].DaysUntil
	})
	if len(summary.Upcoming) > upcomingLimit {
		summary.Upcoming = summary.Upcoming[:upcomingLimit]
	}

	byDate := map[string]*models.TrendPoint{}
	for _, p := range payments {
		if p.Date.SameMonth(now) {
			summary.ThisMonthTotal = summary.ThisMonthTotal.Add(p.Amount)
		}
		point, ok := byDate[p.Date.String()]
		if !ok {
			point = &models.TrendPoint{Date: p.Date, Amount: decimal.Zero}
			byDate[p.Date.String()] = point
		}
		point.Amount = point.Amount.Add(p.Amount)
	}
	for _, point := range byDate {
		summary.Trend = append(summary.Trend, *point)
	}
	sort.Slice(summary.Trend, func(i, j int) bool {
		return summary.Trend[i].Date.Before(summary.Trend[j].Date.Time)
	})
	if len(summary.Trend) > trendLimit {
		summary.Trend = summary.Trend[len(summary.Trend)-trendLimit:]
	}

	return summary
}

// nextDue is this month's payment day, or next month's once it has passed.
// Days past the end of a month roll over the way time.Date normalizes them.
func nextDue(d *models.Debt, today models.Date) models.UpcomingDue {
	due := time.Date(today.Year(), today.Month(), d.PaymentDate, 0, 0, 0, 0, time.UTC)
	if due.Before(today.Time) {
		due = time.Date(today.Year(), today.Month()+1, d.PaymentDate, 0, 0, 0, 0, time.UTC)
	}
	return models.UpcomingDue{
		DebtID:    d.ID,
		Name:      d.Name,
		DueDate:   models.NewDate(due.Year(), due.Month(), due.Day()),
		DaysUntil: int(due.Sub(today.Time).Hours() / 24),
		Balance:   d.Balance,
	}
}
