package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching what browser clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// Debt is a tracked liability owned by a single user.
type Debt struct {
	ID           string          `json:"id" db:"id"`
	UserID       string          `json:"user_id" db:"user_id"`
	Name         string          `json:"name" db:"name"`
	Principal    decimal.Decimal `json:"principal" db:"principal"`
	Balance      decimal.Decimal `json:"balance" db:"balance"`
	InterestRate decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	PaymentDate  int             `json:"payment_date" db:"payment_date"` // day of month, 1-31
	Version      int             `json:"-" db:"version"`                 // for optimistic locking
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateDebtRequest is the payload for registering a new debt.
type CreateDebtRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Principal    decimal.Decimal `json:"principal" validate:"gte=0,lt=1000000000000,decimals=2"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lt=1000,decimals=3"`
	PaymentDate  int             `json:"payment_date" validate:"required,min=1,max=31"`
}

// UpdateDebtRequest carries a partial edit; nil fields are left untouched.
type UpdateDebtRequest struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Principal    *decimal.Decimal `json:"principal,omitempty" validate:"omitempty,gte=0,lt=1000000000000,decimals=2"`
	Balance      *decimal.Decimal `json:"balance,omitempty" validate:"omitempty,gte=0,lt=1000000000000,decimals=2"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty" validate:"omitempty,gte=0,lt=1000,decimals=3"`
	PaymentDate  *int             `json:"payment_date,omitempty" validate:"omitempty,min=1,max=31"`
}

// MoneyPlaces is the number of decimal places stored for amounts.
const MoneyPlaces = 2

// HasPlaces reports whether d needs no more than places decimal digits.
func HasPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// ClampBalance bounds balance to [0, principal].
func ClampBalance(balance, principal decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return decimal.Zero
	}
	if balance.GreaterThan(principal) {
		return principal
	}
	return balance
}

// DerivedBalance is the balance implied by the payment history alone.
func DerivedBalance(principal, paid decimal.Decimal) decimal.Decimal {
	return ClampBalance(principal.Sub(paid), principal)
}

// Debit returns the balance after a payment of amount is recorded.
// Overpayment floors the balance at zero.
func (d *Debt) Debit(amount decimal.Decimal) decimal.Decimal {
	return ClampBalance(d.Balance.Sub(amount), d.Principal)
}

// Credit returns the balance after a payment of amount is removed.
// The result never exceeds the principal.
func (d *Debt) Credit(amount decimal.Decimal) decimal.Decimal {
	return ClampBalance(d.Balance.Add(amount), d.Principal)
}

// Paid is how much of the principal has been repaid so far.
func (d *Debt) Paid() decimal.Decimal {
	return d.Principal.Sub(d.Balance)
}

// ProgressPercent is Paid as a percentage of the principal, 0 for a zero principal.
func (d *Debt) ProgressPercent() float64 {
	return Percent(d.Paid(), d.Principal)
}

// Apply merges an edit into the debt. Changing the principal without an
// explicit balance keeps the already repaid amount, and the resulting
// balance always stays within [0, principal].
func (d *Debt) Apply(req UpdateDebtRequest) {
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.InterestRate != nil {
		d.InterestRate = *req.InterestRate
	}
	if req.PaymentDate != nil {
		d.PaymentDate = *req.PaymentDate
	}

	balance := d.Balance
	if req.Principal != nil {
		paid := d.Paid()
		d.Principal = *req.Principal
		balance = d.Principal.Sub(paid)
	}
	if req.Balance != nil {
		balance = *req.Balance
	}
	d.Balance = ClampBalance(balance, d.Principal)
}

// Percent returns part/whole*100 rounded to one decimal place.
func Percent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	pct, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return pct
}
