package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/paydown/backend/internal/models"
	"github.com/shopspring/decimal"
)

const debtColumns = `id, user_id, name, principal, balance, interest_rate, payment_date, version, created_at, updated_at`

const paymentColumns = `p.id, p.debt_id, p.amount, p.date, p.created_at`

// PostgresStore persists debts and payments. Every operation that touches a
// debt's balance runs in a single transaction holding the debt's row lock,
// so concurrent payments against one debt serialize instead of overwriting
// each other.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDebt(row rowScanner) (*models.Debt, error) {
	var d models.Debt
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Principal, &d.Balance, &d.InterestRate,
		&d.PaymentDate, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.DebtID, &p.Amount, &p.Date, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStoreFailure, op, err)
}

func notFoundOr(op string, err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return storeErr(op, err)
}

func (s *PostgresStore) CreateDebt(ctx context.Context, d *models.Debt) error {
	now := s.now()
	d.Version = 1
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO debts (id, user_id, name, principal, balance, interest_rate, payment_date, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.UserID, d.Name, d.Principal, d.Balance, d.InterestRate, d.PaymentDate, d.Version, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return storeErr("insert debt", err)
	}
	return nil
}

func (s *PostgresStore) GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE id = $1 AND user_id = $2`, debtID, userID)

	d, err := scanDebt(row)
	if err != nil {
		return nil, notFoundOr("get debt", err, "debt "+debtID)
	}
	return d, nil
}

func (s *PostgresStore) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, storeErr("list debts", err)
	}
	defer rows.Close()

	debts := []models.Debt{}
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, storeErr("scan debt", err)
		}
		debts = append(debts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list debts", err)
	}
	return debts, nil
}

func (s *PostgresStore) UpdateDebt(ctx context.Context, userID, debtID string, req models.UpdateDebtRequest) (*models.Debt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin", err)
	}
	defer tx.Rollback()

	debt, err := s.lockDebt(ctx, tx, userID, debtID)
	if err != nil {
		return nil, err
	}

	debt.Apply(req)
	debt.UpdatedAt = s.now()

	result, err := tx.ExecContext(ctx, `
		UPDATE debts
		SET name = $1, principal = $2, balance = $3, interest_rate = $4, payment_date = $5,
		    version = version + 1, updated_at = $6
		WHERE id = $7 AND version = $8`,
		debt.Name, debt.Principal, debt.Balance, debt.InterestRate, debt.PaymentDate,
		debt.UpdatedAt, debt.ID, debt.Version)
	if err := checkVersioned(result, err, debt.ID); err != nil {
		return nil, err
	}
	debt.Version++

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit", err)
	}
	return debt, nil
}

func (s *PostgresStore) DeleteDebt(ctx context.Context, userID, debtID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1 AND user_id = $2`, debtID, userID)
	if err != nil {
		return storeErr("delete debt", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("delete debt", err)
	}
	if n == 0 {
		return fmt.Errorf("debt %s: %w", debtID, models.ErrNotFound)
	}
	return nil
}

// ListPayments returns the owner's payments, optionally narrowed to one debt.
func (s *PostgresStore) ListPayments(ctx context.Context, userID, debtID string) ([]models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		JOIN debts d ON d.id = p.debt_id
		WHERE d.user_id = $1`
	args := []any{userID}
	if debtID != "" {
		query += ` AND p.debt_id = $2`
		args = append(args, debtID)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storeErr("scan payment", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list payments", err)
	}
	return payments, nil
}

// RecordPayment inserts p and debits its debt in one transaction. The debt
// must belong to userID. The updated debt is returned.
func (s *PostgresStore) RecordPayment(ctx context.Context, userID string, p *models.Payment) (*models.Debt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin", err)
	}
	defer tx.Rollback()

	debt, err := s.lockDebt(ctx, tx, userID, p.DebtID)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = s.now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, debt_id, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.DebtID, p.Amount, p.Date, p.CreatedAt)
	if err != nil {
		return nil, storeErr("insert payment", err)
	}

	if err := s.updateDebtBalance(ctx, tx, debt, debt.Debit(p.Amount)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit", err)
	}
	return debt, nil
}

// DeletePayment removes a payment and credits its amount back to the debt in
// one transaction. A payment whose debt belongs to someone else is reported
// as not found.
func (s *PostgresStore) DeletePayment(ctx context.Context, userID, paymentID string) (*models.Payment, *models.Debt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, storeErr("begin", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments p
		WHERE p.id = $1
		FOR UPDATE`, paymentID)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, nil, notFoundOr("get payment", err, "payment "+paymentID)
	}

	debt, err := s.lockDebt(ctx, tx, userID, payment.DebtID)
	if err != nil {
		return nil, nil, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return nil, nil, storeErr("delete payment", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, nil, storeErr("delete payment", err)
	}
	if n == 0 {
		return nil, nil, fmt.Errorf("payment %s: %w", paymentID, models.ErrNotFound)
	}

	if err := s.updateDebtBalance(ctx, tx, debt, debt.Credit(payment.Amount)); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, storeErr("commit", err)
	}
	return payment, debt, nil
}

// ListBalanceDrift returns every debt whose stored balance differs from
// principal minus the sum of its payments, clamped to [0, principal].
func (s *PostgresStore) ListBalanceDrift(ctx context.Context) ([]models.BalanceDrift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.user_id, d.principal, d.balance, d.version, COALESCE(SUM(p.amount), 0) AS paid
		FROM debts d
		LEFT JOIN payments p ON p.debt_id = d.id
		GROUP BY d.id
		HAVING d.balance <> GREATEST(0, LEAST(d.principal, d.principal - COALESCE(SUM(p.amount), 0)))
		ORDER BY d.id`)
	if err != nil {
		return nil, storeErr("list drift", err)
	}
	defer rows.Close()

	var out []models.BalanceDrift
	for rows.Next() {
		var b models.BalanceDrift
		if err := rows.Scan(&b.DebtID, &b.UserID, &b.Principal, &b.Balance, &b.Version, &b.Paid); err != nil {
			return nil, storeErr("scan drift", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list drift", err)
	}
	return out, nil
}

// RepairBalance overwrites a drifted balance with the derived one, provided
// the debt has not changed since the drift was observed.
func (s *PostgresStore) RepairBalance(ctx context.Context, b models.BalanceDrift) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE debts
		SET balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`,
		b.Expected(), s.now(), b.DebtID, b.Version)
	return checkVersioned(result, err, b.DebtID)
}

func (s *PostgresStore) lockDebt(ctx context.Context, tx *sql.Tx, userID, debtID string) (*models.Debt, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, debtID, userID)

	debt, err := scanDebt(row)
	if err != nil {
		return nil, notFoundOr("lock debt", err, "debt "+debtID)
	}
	return debt, nil
}

func (s *PostgresStore) updateDebtBalance(ctx context.Context, tx *sql.Tx, debt *models.Debt, balance decimal.Decimal) error {
	updatedAt := s.now()
	result, err := tx.ExecContext(ctx, `
		UPDATE debts
		SET balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`,
		balance, updatedAt, debt.ID, debt.Version)
	if err := checkVersioned(result, err, debt.ID); err != nil {
		return err
	}

	debt.Balance = balance
	debt.Version++
	debt.UpdatedAt = updatedAt
	return nil
}

func checkVersioned(result sql.Result, err error, debtID string) error {
	if err != nil {
		return storeErr("update debt", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeErr("update debt", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: optimistic lock failed for debt %s", models.ErrConflict, debtID)
	}
	return nil
}
