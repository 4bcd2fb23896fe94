package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
)

// CreateTrip persists a new trip and its collaborators. The owner is always
// stored as a collaborator.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if trip.OwnerID != "" && !trip.HasCollaborator(trip.OwnerID) {
		trip.Collaborators = append([]string{trip.OwnerID}, trip.Collaborators...)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, title, owner_id, created_at) VALUES (?, ?, ?, ?)",
		trip.ID, trip.Title, trip.OwnerID, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for _, userID := range trip.Collaborators {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO trip_collaborators (trip_id, user_id) VALUES (?, ?)",
			trip.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert collaborator: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID with its collaborators.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, owner_id, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Title, &trip.OwnerID, &trip.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("trip", tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	collaborators, err := s.listCollaborators(ctx, tripID)
	if err != nil {
		return nil, err
	}
	trip.Collaborators = collaborators

	return trip, nil
}

// ListTripsByUser returns every trip the user collaborates on, newest first.
func (s *SQLiteStore) ListTripsByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.title, t.owner_id, t.created_at FROM trips t
		 JOIN trip_collaborators c ON c.trip_id = t.id
		 WHERE c.user_id = ? ORDER BY t.created_at DESC, t.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		if err := rows.Scan(&trip.ID, &trip.Title, &trip.OwnerID, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	rows.Close()

	for _, trip := range trips {
		collaborators, err := s.listCollaborators(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		trip.Collaborators = collaborators
	}

	return trips, nil
}

// AddCollaborators adds users to a trip, ignoring ones already present.
func (s *SQLiteStore) AddCollaborators(ctx context.Context, tripID string, userIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", tripID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("trip", tripID)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip existence: %w", err)
	}

	for _, userID := range userIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO trip_collaborators (trip_id, user_id) VALUES (?, ?)",
			tripID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert collaborator: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listCollaborators(ctx context.Context, tripID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM trip_collaborators WHERE trip_id = ? ORDER BY user_id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborators: %w", err)
	}
	defer rows.Close()

	var collaborators []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		collaborators = append(collaborators, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collaborators: %w", err)
	}
	return collaborators, nil
}
