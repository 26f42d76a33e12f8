// Package billing provides the domain model for utility-bill charge
// reconciliation and approval.
//
// This package implements the bill reconciliation bounded context, which is
// responsible for:
//   - Aggregating the four charge categories of a bill into a payable total
//   - Resolving the rebate or penalty applicable to a bill on a given day
//   - Driving a bill through its approval state machine
//   - Keeping an append-only audit trail of approval decisions
//   - Grouping approved bills and prepaid recharges into payment batches
//
// Key Aggregates:
//   - Bill: One billing-cycle invoice and its approval lifecycle
//   - Batch: A named group of payable items with a derived validity date
//
// Entities and Value Objects:
//   - CoreCharges, RegulatoryCharges, AdherenceCharges, AdditionalCharges:
//     the closed charge categories owned 1:1 by a bill
//   - ApprovedLog / ApprovalTrail: immutable approval decisions
//   - Cart / CartItem: the session-scoped selection feeding a batch
//   - PayableToday: the display-side "pay today" resolution
//
// Payment settlement of batches is owned by an external system; this engine
// stops at handing a batch over.
package billing
