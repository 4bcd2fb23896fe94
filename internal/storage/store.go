// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

// ErrNotFound is returned (wrapped with the missing id) when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip, bill and transaction storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateTrip persists a new trip. The owner is added as a collaborator.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its collaborators.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsByUser returns every trip the user collaborates on, newest first.
	ListTripsByUser(ctx context.Context, userID string) ([]*models.Trip, error)

	// AddCollaborators adds users to a trip. Existing collaborators are ignored.
	AddCollaborators(ctx context.Context, tripID string, userIDs []string) error

	// CreateBill persists a new bill and its summary.
	// The bill.ID field will be populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID, including participants and summary.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// UpdateBill replaces an existing bill's fields, participants and summary.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// SetBillArchived flips a bill's archived flag.
	SetBillArchived(ctx context.Context, billID string, archived bool) error

	// DeleteBill removes a bill and everything attached to it.
	DeleteBill(ctx context.Context, billID string) error

	// ListBillsByTrip returns every bill of a trip, newest first.
	ListBillsByTrip(ctx context.Context, tripID string) ([]*models.Bill, error)

	// UpsertUser creates a user or updates the display name and email of an
	// existing one.
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by id.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateTransaction records a payment between two users.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// ListTransactionsByTrip returns a trip's transactions, newest first.
	ListTransactionsByTrip(ctx context.Context, tripID string) ([]*models.Transaction, error)

	// DeleteTransaction removes a recorded transaction.
	DeleteTransaction(ctx context.Context, txnID string) error

	// Close releases any resources held by the store.
	Close() error
}
