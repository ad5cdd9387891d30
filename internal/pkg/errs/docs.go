// Package errs holds the error types shared by the production workflow.
//
// Every type pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...) with a
// struct carrying details, so callers branch with errors.Is and the HTTP adapter
// can map a failure to a status code without string matching.
//
// Validation kinds: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError.
// Workflow kinds: InvalidTransitionError, ForbiddenError, ConflictError, AlreadyExistsError.
package errs
