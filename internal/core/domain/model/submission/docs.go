// Package submission holds the final submission of an order, its approval
// record and the gold variance rules applied before it may be stored.
package submission
