// Package api defines the request and response messages of the tripledger
// v1 RPC API. Messages travel as JSON; amounts are decimal strings so that no
// precision is lost between client and server.
package api

// SummaryEntry is one "debtor owes creditor amount" line of a bill summary.
type SummaryEntry struct {
	Debtor   string `json:"debtor"`
	Creditor string `json:"creditor"`
	Amount   string `json:"amount"`
}

// Bill is the wire form of a bill.
type Bill struct {
	BillID         string         `json:"bill_id"`
	TripID         string         `json:"trip_id"`
	Title          string         `json:"title"`
	CreatedBy      string         `json:"created_by"`
	PayerID        string         `json:"payer_id"`
	ParticipantIDs []string       `json:"participant_ids"`
	Summary        []SummaryEntry `json:"summary"`
	Total          string         `json:"total"` // sum of summary amounts
	Currency       string         `json:"currency"`
	Archived       bool           `json:"archived"`
	IsDraft        bool           `json:"is_draft"`
	Description    string         `json:"description,omitempty"`
	Category       string         `json:"category,omitempty"`
	CreatedAt      int64          `json:"created_at"`
	UpdatedAt      int64          `json:"updated_at"`
}

// SplitInput describes how a bill's total is divided.
//
// Mode "even" (the default) splits Total across ParticipantIDs. Mode "custom"
// takes CustomAmounts per non-payer participant and requires their sum not to
// exceed CustomTotal.
type SplitInput struct {
	Mode           string            `json:"mode,omitempty"`
	PayerID        string            `json:"payer_id,omitempty"`
	ParticipantIDs []string          `json:"participant_ids"`
	Total          string            `json:"total,omitempty"`
	CustomAmounts  map[string]string `json:"custom_amounts,omitempty"`
	CustomTotal    string            `json:"custom_total,omitempty"`
}

type CreateBillRequest struct {
	TripID      string `json:"trip_id"`
	Title       string `json:"title,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type CreateBillResponse struct {
	Bill *Bill `json:"bill"`
}

type FinalizeBillRequest struct {
	BillID      string     `json:"bill_id"`
	Title       string     `json:"title,omitempty"`
	Split       SplitInput `json:"split"`
	Currency    string     `json:"currency,omitempty"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
}

type FinalizeBillResponse struct {
	Bill *Bill `json:"bill"`
}

type PreviewSplitRequest struct {
	Split SplitInput `json:"split"`
}

type PreviewSplitResponse struct {
	Summary []SummaryEntry `json:"summary"`
	Total   string         `json:"total"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill *Bill `json:"bill"`
	// YourBalance is the caller's signed position in this bill:
	// positive = others owe the caller.
	YourBalance string `json:"your_balance"`
	// Names maps every participant id to a display name.
	Names map[string]string `json:"names"`
}

type ListBillsRequest struct {
	TripID   string `json:"trip_id"`
	Archived bool   `json:"archived"`
}

// BillSection groups bills that share a category label.
type BillSection struct {
	Label string  `json:"label"`
	Bills []*Bill `json:"bills"`
}

type ListBillsResponse struct {
	Sections []*BillSection `json:"sections"`
}

type ArchiveBillRequest struct {
	BillID string `json:"bill_id"`
}

type ArchiveBillResponse struct {
	Bill *Bill `json:"bill"`
}

type RestoreBillRequest struct {
	BillID string `json:"bill_id"`
}

type RestoreBillResponse struct {
	Bill *Bill `json:"bill"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteBillResponse struct{}

// Transaction is a recorded payment between two trip collaborators.
type Transaction struct {
	TransactionID string `json:"transaction_id"`
	TripID        string `json:"trip_id"`
	Debtor        string `json:"debtor"`
	Creditor      string `json:"creditor"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

type RecordTransactionRequest struct {
	TripID      string `json:"trip_id"`
	Debtor      string `json:"debtor"`
	Creditor    string `json:"creditor"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Description string `json:"description,omitempty"`
}

type RecordTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	TripID string `json:"trip_id"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type DeleteTransactionRequest struct {
	TripID        string `json:"trip_id"`
	TransactionID string `json:"transaction_id"`
}

type DeleteTransactionResponse struct{}

// CounterpartyBalance is the caller's signed balance against one counterparty.
// Positive = the counterparty owes the caller.
type CounterpartyBalance struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Amount      string `json:"amount"`
}

// Ledger is the caller's position across a trip's active bills.
type Ledger struct {
	SubjectID       string                 `json:"subject_id"`
	Currency        string                 `json:"currency"`
	Balances        []*CounterpartyBalance `json:"balances"`
	TotalReceivable string                 `json:"total_receivable"`
	TotalPayable    string                 `json:"total_payable"`
	NetBalance      string                 `json:"net_balance"`
}

type GetLedgerRequest struct {
	TripID string `json:"trip_id"`
	// Currency restricts the ledger to bills in that currency. Required when
	// the trip's active bills use more than one currency.
	Currency string `json:"currency,omitempty"`
}

type GetLedgerResponse struct {
	Ledger *Ledger `json:"ledger"`
}

type ExportLedgerRequest struct {
	TripID   string `json:"trip_id"`
	Currency string `json:"currency,omitempty"`
}

type ExportLedgerResponse struct {
	CSV string `json:"csv"`
}

// MemberBalance is one collaborator's net position across the trip.
type MemberBalance struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	NetBalance  string `json:"net_balance"`
	TotalOwedTo string `json:"total_owed_to"`
	TotalOwes   string `json:"total_owes"`
}

// Transfer is a suggested payment that helps settle the trip.
type Transfer struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   string `json:"amount"`
}

type SuggestSettlementsRequest struct {
	TripID   string `json:"trip_id"`
	Currency string `json:"currency,omitempty"`
}

type SuggestSettlementsResponse struct {
	Currency  string           `json:"currency"`
	Members   []*MemberBalance `json:"members"`
	Transfers []*Transfer      `json:"transfers"`
}

// Trip is the wire form of a trip.
type Trip struct {
	TripID          string   `json:"trip_id"`
	Title           string   `json:"title"`
	OwnerID         string   `json:"owner_id"`
	CollaboratorIDs []string `json:"collaborator_ids"`
	CreatedAt       int64    `json:"created_at"`
}

type CreateTripRequest struct {
	Title           string   `json:"title"`
	CollaboratorIDs []string `json:"collaborator_ids,omitempty"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
	// Names maps every collaborator id to a display name.
	Names map[string]string `json:"names"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

type AddCollaboratorsRequest struct {
	TripID  string   `json:"trip_id"`
	UserIDs []string `json:"user_ids"`
}

type AddCollaboratorsResponse struct {
	Trip *Trip `json:"trip"`
}

// Profile is a user's display information.
type Profile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

type UpdateProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type GetProfileRequest struct {
	// UserID defaults to the caller.
	UserID string `json:"user_id,omitempty"`
}

type GetProfileResponse struct {
	Profile *Profile `json:"profile"`
}
