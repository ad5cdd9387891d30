// Package tracking implements the department tracking state machine: one row
// per (order, department) holding the worker assignment, gold weight in and
// out, timing, notes and the department work data.
//
// Transitions are methods on Status returning the next state or an
// errs.InvalidTransitionError whose cause names the failed precondition
// (ErrAlreadyStarted, ErrNotStarted, ErrRowCompleted, ...). COMPLETED is terminal.
package tracking
