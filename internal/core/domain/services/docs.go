// Package services provides domain services that coordinate several
// aggregates of the production workflow.
//
// The package includes:
//   - AssignmentResolver: admin and self assignment of workers to department rows
//   - ProgressAggregator: current department and completion percentage of an order
//   - OrderNumberGenerator: human readable, unique order numbers
//   - SubmissionValidator: preconditions and gold variance of a final submission
package services
