// Package order provides the Order aggregate of the production workflow: the
// human readable Number, the 1:1 Details brief (initial gold weight, purity,
// due date, product metadata), the Stones set into the piece and the order
// lifecycle Status.
//
// Lifecycle: DRAFT -> IN_FACTORY -> COMPLETED, with IN_FACTORY -> DRAFT allowed
// as a revert. A completed order rejects every field change.
package order
