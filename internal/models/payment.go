package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single recorded reduction of a debt's balance.
type Payment struct {
	ID        string          `json:"id" db:"id"`
	DebtID    string          `json:"debt_id" db:"debt_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      Date            `json:"date" db:"date"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// CreatePaymentRequest is the payload for recording a payment.
type CreatePaymentRequest struct {
	DebtID string          `json:"debt_id" validate:"required,uuid"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,lt=1000000000000,decimals=2"`
	Date   Date            `json:"date" validate:"required"`
}

// BalanceDrift describes a debt whose stored balance disagrees with its payment history.
type BalanceDrift struct {
	DebtID    string          `json:"debt_id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Principal decimal.Decimal `json:"principal" db:"principal"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Paid      decimal.Decimal `json:"paid" db:"paid"`
	Version   int             `json:"-" db:"version"`
}

// Expected is the balance the payment history implies.
func (b BalanceDrift) Expected() decimal.Decimal {
	return DerivedBalance(b.Principal, b.Paid)
}

// Drifted reports whether the stored balance differs from Expected.
func (b BalanceDrift) Drifted() bool {
	return !b.Balance.Equal(b.Expected())
}
