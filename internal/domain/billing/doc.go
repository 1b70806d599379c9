// Package billing provides the bill and line item model of the shop.
//
// A bill is built in two steps:
//   - NewDraft validates and prices the raw line items. Fine weight and
//     amount are always recomputed here; client figures are only compared.
//   - Draft.Finalize binds the draft to a bill number and to the customer's
//     balance read inside the bill transaction.
//
// Bills are immutable once saved. The customer balance, ledger entry and
// stock deductions that accompany a bill are written by the billing
// application service in the same unit of work.
package billing
