package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/paydown/backend/internal/models"
	"github.com/shopspring/decimal"
)

type AuditEvent struct {
	Timestamp time.Time        `json:"timestamp"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id"`
	DebtID    string           `json:"debt_id,omitempty"`
	PaymentID string           `json:"payment_id,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Balance   *decimal.Decimal `json:"balance,omitempty"`
	Status    string           `json:"status"`
	Details   any              `json:"details,omitempty"`
}

// AuditLogger writes one JSON line per balance-affecting event.
type AuditLogger struct {
	now func() time.Time
}

func NewAuditLogger() *AuditLogger {
	return &AuditLogger{now: time.Now}
}

func (a *AuditLogger) LogPayment(userID string, p *models.Payment, debt *models.Debt) {
	a.log(AuditEvent{
		EventType: "PAYMENT_RECORDED",
		UserID:    userID,
		DebtID:    p.DebtID,
		PaymentID: p.ID,
		Amount:    &p.Amount,
		Balance:   &debt.Balance,
		Status:    "SUCCESS",
		Details:   map[string]string{"date": p.Date.String()},
	})
}

func (a *AuditLogger) LogPaymentReversal(userID string, p *models.Payment, debt *models.Debt) {
	a.log(AuditEvent{
		EventType: "PAYMENT_DELETED",
		UserID:    userID,
		DebtID:    p.DebtID,
		PaymentID: p.ID,
		Amount:    &p.Amount,
		Balance:   &debt.Balance,
		Status:    "SUCCESS",
	})
}

func (a *AuditLogger) LogDebtChange(operation, userID string, debt *models.Debt) {
	event := AuditEvent{
		EventType: operation,
		UserID:    userID,
		DebtID:    debt.ID,
		Status:    "SUCCESS",
	}
	if operation != "DEBT_DELETED" {
		event.Balance = &debt.Balance
		event.Details = map[string]string{"principal": debt.Principal.String()}
	}
	a.log(event)
}

func (a *AuditLogger) LogDrift(b models.BalanceDrift, repaired bool) {
	expected := b.Expected()
	status := "DETECTED"
	if repaired {
		status = "REPAIRED"
	}
	a.log(AuditEvent{
		EventType: "BALANCE_DRIFT",
		UserID:    b.UserID,
		DebtID:    b.DebtID,
		Balance:   &b.Balance,
		Status:    status,
		Details: map[string]string{
			"expected": expected.String(),
			"paid":     b.Paid.String(),
		},
	})
}

func (a *AuditLogger) LogError(operation, userID, entityID string, err error) {
	a.log(AuditEvent{
		EventType: operation,
		UserID:    userID,
		DebtID:    entityID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *AuditLogger) log(event AuditEvent) {
	event.Timestamp = a.now()
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
