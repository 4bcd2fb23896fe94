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

const billColumns = `id, trip_id, title, created_by, payer_id, currency, archived, is_draft,
	description, category, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// CreateBill persists a new bill with its participants and summary.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = bill.CreatedAt
	}
	if bill.Title == "" {
		bill.Title = generateTitle(bill.Participants, bill.CreatedAt)
	}
	if bill.Currency == "" {
		bill.Currency = models.DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.TripID, bill.Title, bill.CreatedBy, bill.PayerID, bill.Currency,
		boolToInt(bill.Archived), boolToInt(bill.IsDraft), bill.Description, bill.Category.String(),
		bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertBillChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including participants and summary.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = ?`, billID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("bill", billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM bill_participants WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		bill.Participants = append(bill.Participants, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	entryRows, err := s.db.QueryContext(ctx,
		"SELECT bill_id, debtor, creditor, amount FROM bill_summary_entries WHERE bill_id = ?",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	defer entryRows.Close()

	if err := scanSummaryEntries(entryRows, map[string]*models.Bill{billID: bill}); err != nil {
		return nil, err
	}

	return bill, nil
}

// UpdateBill overwrites a bill's mutable fields and replaces its participants
// and summary.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	bill.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET title = ?, payer_id = ?, currency = ?, archived = ?, is_draft = ?,
		 description = ?, category = ?, updated_at = ? WHERE id = ?`,
		bill.Title, bill.PayerID, bill.Currency, boolToInt(bill.Archived), boolToInt(bill.IsDraft),
		bill.Description, bill.Category.String(), bill.UpdatedAt, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("bill", bill.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_participants WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_summary_entries WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear summary: %w", err)
	}
	if err := insertBillChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetBillArchived marks a bill archived or active again.
func (s *SQLiteStore) SetBillArchived(ctx context.Context, billID string, archived bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bills SET archived = ?, updated_at = ? WHERE id = ?",
		boolToInt(archived), time.Now().Unix(), billID,
	)
	if err != nil {
		return fmt.Errorf("failed to update archived flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return notFound("bill", billID)
	}
	return nil
}

// DeleteBill removes a bill, its participants and its summary.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_participants WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_summary_entries WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("bill", billID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListBillsByTrip returns every bill of a trip, newest first, with
// participants and summaries loaded.
func (s *SQLiteStore) ListBillsByTrip(ctx context.Context, tripID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE trip_id = ? ORDER BY created_at DESC, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills by trip: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	byID := make(map[string]*models.Bill)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
		byID[bill.ID] = bill
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	if len(bills) == 0 {
		return bills, nil
	}

	participantRows, err := s.db.QueryContext(ctx,
		`SELECT bp.bill_id, bp.user_id FROM bill_participants bp
		 JOIN bills b ON b.id = bp.bill_id
		 WHERE b.trip_id = ? ORDER BY bp.bill_id, bp.position`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer participantRows.Close()

	for participantRows.Next() {
		var billID, userID string
		if err := participantRows.Scan(&billID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if bill, ok := byID[billID]; ok {
			bill.Participants = append(bill.Participants, userID)
		}
	}
	if err := participantRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	entryRows, err := s.db.QueryContext(ctx,
		`SELECT e.bill_id, e.debtor, e.creditor, e.amount FROM bill_summary_entries e
		 JOIN bills b ON b.id = e.bill_id
		 WHERE b.trip_id = ?`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer entryRows.Close()

	if err := scanSummaryEntries(entryRows, byID); err != nil {
		return nil, err
	}

	return bills, nil
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{Summary: models.NewSummary()}
	var archived, isDraft int
	var category string
	if err := row.Scan(&bill.ID, &bill.TripID, &bill.Title, &bill.CreatedBy, &bill.PayerID,
		&bill.Currency, &archived, &isDraft, &bill.Description, &category,
		&bill.CreatedAt, &bill.UpdatedAt); err != nil {
		return nil, err
	}
	bill.Archived = archived != 0
	bill.IsDraft = isDraft != 0

	bill.Category = models.MustParseCategory(category)
	return bill, nil
}

// scanSummaryEntries reads (bill_id, debtor, creditor, amount) rows into the
// summaries of the matching bills.
func scanSummaryEntries(rows *sql.Rows, bills map[string]*models.Bill) error {
	for rows.Next() {
		var billID, debtor, creditor, raw string
		if err := rows.Scan(&billID, &debtor, &creditor, &raw); err != nil {
			return fmt.Errorf("failed to scan summary entry: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("bill %s has invalid amount %q: %w", billID, raw, err)
		}
		if bill, ok := bills[billID]; ok {
			bill.Summary.Add(debtor, creditor, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate summary entries: %w", err)
	}
	return nil
}

func insertBillChildren(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	seen := make(map[string]bool, len(bill.Participants))
	position := 0
	for _, userID := range bill.Participants {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_participants (bill_id, user_id, position) VALUES (?, ?, ?)",
			bill.ID, userID, position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
		position++
	}

	for _, entry := range bill.Summary.Entries() {
		if !entry.Amount.IsPositive() {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_summary_entries (bill_id, debtor, creditor, amount) VALUES (?, ?, ?, ?)",
			bill.ID, entry.Debtor, entry.Creditor, entry.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert summary entry: %w", err)
		}
	}
	return nil
}

// generateTitle creates a default title from the participant count and date.
func generateTitle(participants []string, createdAt int64) string {
	date := time.Unix(createdAt, 0).UTC().Format("Jan 2, 2006")
	if len(participants) < 2 {
		return fmt.Sprintf("Bill - %s", date)
	}
	return fmt.Sprintf("Split between %d people - %s", len(participants), date)
}
