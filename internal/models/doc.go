// Package models defines the core domain models for tripsplit.
//
// # Models
//
//   - User: a person known to the system, linked to an identity provider subject
//   - Trip: a group of users sharing expenses, joined with a public code and a passphrase
//   - Bill: one expense under a trip, split either evenly or by itemized claims
//   - BillItem: a line item of an itemized bill
//
// Memberships, item claims and even-split participation are plain join rows in
// storage and have no model of their own beyond the timestamps used for ordering.
//
// # Money
//
// All money values are shopspring/decimal values with at most two fractional
// digits. They never pass through float64. On the wire and in storage they are
// exact decimal strings such as "12.50".
//
// # Relationships
//
// Models reference each other by ID strings rather than pointers. Deleting a
// trip removes its bills and memberships; deleting a bill removes its items,
// their claims, and its even-split participants.
package models
