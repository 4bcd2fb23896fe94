// Package models defines the core domain models for tripledger.
//
// # Models
//
//   - Trip: a shared itinerary whose collaborators split bills between them
//   - Bill: a shared expense with a canonical debt Summary
//   - Summary: debtor -> creditor -> positive amount owed for one bill
//   - Transaction: a recorded payment from one participant to another
//   - User: display information for a participant id
//
// Participants are identified by opaque user id strings. Resolving an id to a
// display name is done by the identity package, never by the models.
//
// # Invariants
//
// A Summary only ever holds strictly positive amounts, and a participant never
// owes themself. Summary.Add enforces both, so any Summary built through it is
// safe to hand to the ledger calculator.
//
// Amounts use shopspring/decimal. All amounts in one bill share the bill's
// Currency; nothing here converts between currencies.
package models
