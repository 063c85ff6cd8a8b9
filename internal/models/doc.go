// Package models defines the persisted domain records for splitsmart.
//
// # Models
//
//   - User: registered account used to authenticate RPC calls
//   - Group: a named, ordered list of members sharing one ledger
//   - Expense: one recorded payment plus the split policy and its raw inputs
//   - Settlement: a real payment between two members
//
// Ledger identities are member names (strings). A User's DisplayName is the
// name they appear under in groups, but membership does not require an
// account.
//
// Balances are not stored on any model. They are derived by replaying a group's
// expenses and settlements through the calculator package, which keeps one
// authoritative ledger per group.
//
// # Design Principles
//
// 1. **Full fidelity**: an Expense keeps the policy and every per-participant
// input so its split can be recomputed exactly
// 2. **Avoid circular references**: relationships use ID strings, not pointers
// 3. **Immutable history**: expenses and settlements are append-only
package models
