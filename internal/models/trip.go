package models

// Trip represents a shared itinerary. Its collaborators are the people who
// can see and split bills within it.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Title is the display name of the trip (e.g., "Lisbon 2026").
	Title string

	// OwnerID is the user who created the trip. The owner is always a collaborator.
	OwnerID string

	// Collaborators is the list of user ids taking part in the trip.
	Collaborators []string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// HasCollaborator reports whether userID belongs to the trip.
func (t *Trip) HasCollaborator(userID string) bool {
	for _, c := range t.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}
