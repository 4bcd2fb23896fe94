package models

// DefaultCurrency is used when a bill is created without a currency.
const DefaultCurrency = "USD"

// Bill represents a shared expense within a trip.
// It is created as a draft with an empty summary and finalized once the
// creator confirms how the total is split.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format), assigned by the store.
	ID string

	// TripID is the trip this bill belongs to.
	TripID string

	// Title is the human-readable name for the bill.
	Title string

	// CreatedBy is the user who created the bill. Only the creator may archive
	// or delete it.
	CreatedBy string

	// PayerID is the participant who paid and is owed money under the split.
	// Defaults to the creator when the bill is finalized without an explicit payer.
	PayerID string

	// Participants is the set of user ids included in the bill, payer included.
	Participants []string

	// Summary is the canonical ledger for this bill. Empty for drafts.
	Summary Summary

	// Currency is the ISO-style currency code shared by every amount in Summary.
	Currency string

	// Archived marks a settled bill. Archived bills stay readable but are
	// excluded from active balances.
	Archived bool

	// IsDraft marks a bill whose split has not been confirmed yet.
	IsDraft bool

	// Description is free text set by the creator.
	Description string

	// Category groups bills for display.
	Category Category

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}

// HasParticipant reports whether userID takes part in the bill.
func (b *Bill) HasParticipant(userID string) bool {
	for _, p := range b.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
