package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/models"
)

// CreateTransaction persists a recorded payment.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	// Generate ID if not set
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}
	if txn.Currency == "" {
		txn.Currency = models.DefaultCurrency
	}

	var description any
	if txn.Description != "" {
		description = txn.Description
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, trip_id, debtor, creditor, amount, currency, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.TripID, txn.Debtor, txn.Creditor,
		txn.Amount.String(), txn.Currency, description, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListTransactionsByTrip retrieves all transactions for a trip, newest first.
func (s *SQLiteStore) ListTransactionsByTrip(ctx context.Context, tripID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, debtor, creditor, amount, currency, description, created_at
		 FROM transactions WHERE trip_id = ? ORDER BY created_at DESC, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by trip: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		var amount string
		var description sql.NullString

		if err := rows.Scan(&txn.ID, &txn.TripID, &txn.Debtor, &txn.Creditor,
			&amount, &txn.Currency, &description, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has invalid amount %q: %w", txn.ID, amount, err)
		}
		if description.Valid {
			txn.Description = description.String
		}

		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, txnID string) error {
	// Check if transaction exists
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM transactions WHERE id = ?", txnID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("transaction", txnID)
	}
	if err != nil {
		return fmt.Errorf("failed to check transaction existence: %w", err)
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", txnID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return nil
}
