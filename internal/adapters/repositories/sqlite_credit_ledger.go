package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-dispatch-service/internal/domain"
)

// SQLite-backed credit account ledger. Reserve is the single conditional
// update the metering gate relies on: the balance guard sits inside the
// UPDATE, so concurrent reservations cannot both spend the same credits.
type SqliteCreditLedger struct {
	DB *sql.DB
}

func NewSqliteCreditLedger(db *sql.DB) *SqliteCreditLedger {
	return &SqliteCreditLedger{DB: db}
}

func (l *SqliteCreditLedger) Balance(ctx context.Context, ownerID string) (int, error) {
	if l.DB == nil {
		return 0, errors.New("credit ledger: db is nil")
	}

	var balance int
	err := l.DB.QueryRowContext(ctx,
		`SELECT balance FROM credit_accounts WHERE owner_id = ?;`, ownerID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("balance for owner %q: %w", ownerID, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("balance for owner %q: %w", ownerID, err)
	}
	return balance, nil
}

func (l *SqliteCreditLedger) Reserve(ctx context.Context, ownerID string, amount int) (int, error) {
	if l.DB == nil {
		return 0, errors.New("credit ledger: db is nil")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("reserve %d: amount must be positive: %w", amount, domain.ErrInvalidInput)
	}

	res, err := l.DB.ExecContext(ctx, `
	UPDATE credit_accounts
	SET balance = balance - ?
	WHERE owner_id = ? AND balance >= ?;
	`, amount, ownerID, amount)
	if err != nil {
		return 0, fmt.Errorf("reserve %d for owner %q: %w", amount, ownerID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reserve %d for owner %q: rows affected: %w", amount, ownerID, err)
	}
	if affected == 0 {
		// Distinguish a missing account from an underfunded one.
		if _, err := l.Balance(ctx, ownerID); errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("reserve %d for owner %q: %w", amount, ownerID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("reserve %d for owner %q: %w", amount, ownerID, domain.ErrInsufficientFunds)
	}

	remaining, err := l.Balance(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (l *SqliteCreditLedger) Release(ctx context.Context, ownerID string, amount int) error {
	if l.DB == nil {
		return errors.New("credit ledger: db is nil")
	}
	if amount <= 0 {
		return fmt.Errorf("release %d: amount must be positive: %w", amount, domain.ErrInvalidInput)
	}

	res, err := l.DB.ExecContext(ctx, `
	UPDATE credit_accounts
	SET balance = balance + ?
	WHERE owner_id = ?;
	`, amount, ownerID)
	if err != nil {
		return fmt.Errorf("release %d for owner %q: %w", amount, ownerID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release %d for owner %q: rows affected: %w", amount, ownerID, err)
	}
	if affected == 0 {
		return fmt.Errorf("release %d for owner %q: %w", amount, ownerID, domain.ErrNotFound)
	}
	return nil
}

func (l *SqliteCreditLedger) Credit(ctx context.Context, ownerID string, amount int) error {
	if l.DB == nil {
		return errors.New("credit ledger: db is nil")
	}
	if amount <= 0 {
		return fmt.Errorf("credit %d: amount must be positive: %w", amount, domain.ErrInvalidInput)
	}

	_, err := l.DB.ExecContext(ctx, `
	INSERT INTO credit_accounts (owner_id, balance)
	VALUES (?, ?)
	ON CONFLICT (owner_id) DO UPDATE
	SET balance = balance + excluded.balance;
	`, ownerID, amount)
	if err != nil {
		return fmt.Errorf("credit %d for owner %q: %w", amount, ownerID, err)
	}
	return nil
}
