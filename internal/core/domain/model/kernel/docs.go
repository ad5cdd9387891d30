// Package kernel holds the value objects shared by every aggregate of the
// production workflow: UUID identifiers, gram Weight backed by shopspring/decimal,
// gold purity in Karat, and the generic Option used for nullable fields.
//
// Values are immutable. Constructors validate their input; the zero values of
// UUID and Weight fail Validate so they cannot slip into an aggregate unnoticed.
package kernel
