package order

import (
	"errors"
	"strings"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

const (
	MinPriority = 0
	MaxPriority = 10
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	ErrCustomerIsRequired    = errs.NewValueIsRequiredError("customer reference")
)

// Order is the aggregate root of a jewelry piece in production. It owns its
// Details and Stones; department tracking rows and the final submission are
// separate aggregates keyed by the order id.
//
// Invariants:
//   - the order number is unique (enforced by storage) and never changes
//   - priority stays within 0..10
//   - nothing changes once the order is Completed, except reopening through
//     withdrawal of a rejected final submission
type Order struct {
	id          kernel.UUID
	number      Number
	customerRef string
	priority    int
	status      Status
	details     Details
	stones      []*Stone
	createdAt   time.Time
	updatedAt   time.Time
	version     int
	// version the order was loaded with; 0 for a new order
	expectedVersion int
	guard           guard.ConstructorGuard
}

// NewOrder creates a Draft order at version 1.
//
// Parameters:
//   - number: issued by services.OrderNumberGenerator
//   - customerRef: required, trimmed
//   - priority: 0..10, higher is more urgent
//   - stones: may be empty; every stone must be constructed
//
// All validation failures are joined into the returned error.
//
// Example:
//
//	details, _ := order.NewDetails(kernel.MustWeight("25.5"), kernel.Karat(22), due, nil)
//	o, err := order.NewOrder(kernel.NewUUID(), number, "CUST-118", 0, details, nil, now)
//	// o.Status() == order.Draft
func NewOrder(
	id kernel.UUID,
	number Number,
	customerRef string,
	priority int,
	details Details,
	stones []*Stone,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Draft,
		createdAt: now.UTC(),
		updatedAt: now.UTC(),
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerRef(customerRef),
		o.setPriority(priority),
		o.setDetails(details),
		o.setStones(stones),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order loaded from storage. The loaded version
// becomes the expected version for the next compare-and-swap update.
func RestoreOrder(
	id kernel.UUID,
	number Number,
	customerRef string,
	priority int,
	status Status,
	details Details,
	stones []*Stone,
	createdAt, updatedAt time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		createdAt:       createdAt.UTC(),
		updatedAt:       updatedAt.UTC(),
		version:         version,
		expectedVersion: version,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerRef(customerRef),
		o.setPriority(priority),
		o.setStatus(status),
		o.setDetails(details),
		o.setStones(stones),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate reports ErrOrderIsNotConstructed for a nil order or one not
// built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) CustomerRef() string {
	return o.customerRef
}

func (o *Order) Priority() int {
	return o.priority
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) Stones() []*Stone {
	out := make([]*Stone, len(o.stones))
	copy(out, o.stones)
	return out
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the optimistic lock counter checked by storage on update.
func (o *Order) Version() int {
	return o.version
}

// ExpectedVersion is the version the order was loaded with. Storage only
// accepts an update while the stored row still carries it.
func (o *Order) ExpectedVersion() int {
	return o.expectedVersion
}

// Changes lists the mutable fields of an order. Absent options keep the current value.
type Changes struct {
	Priority        kernel.Option[int]
	DueDate         kernel.Option[time.Time]
	ProductMetadata kernel.Option[map[string]string]
}

// Update applies changes unless the order is completed. Initial gold
// weight and purity are fixed at creation and cannot be changed here.
//
// Returns:
//   - nil after the changes are applied and updatedAt is bumped
//   - InvalidTransition for a completed order
//   - ValueIsOutOfRange for a priority outside 0..10
func (o *Order) Update(changes Changes, now time.Time) error {
	if err := o.status.ValidateMutable(); err != nil {
		return err
	}

	priority := changes.Priority.OrElse(o.priority)
	if err := validatePriority(priority); err != nil {
		return err
	}

	details, err := NewDetails(
		o.details.InitialGoldWeight(),
		o.details.Purity(),
		changes.DueDate.OrElse(o.details.DueDate()),
		changes.ProductMetadata.OrElse(o.details.ProductMetadata()),
	)
	if err != nil {
		return err
	}

	o.priority = priority
	o.details = details
	o.touch(now)
	return nil
}

// Release sends a draft order to the factory floor.
func (o *Order) Release(now time.Time) error {
	return o.transition(o.status.Release, now)
}

// Revert pulls an order back from the factory into draft.
func (o *Order) Revert(now time.Time) error {
	return o.transition(o.status.Revert, now)
}

// Complete closes the order after a final submission was accepted.
func (o *Order) Complete(now time.Time) error {
	return o.transition(o.status.Complete, now)
}

// Reopen returns a completed order to the factory after its rejected
// submission has been withdrawn.
func (o *Order) Reopen(now time.Time) error {
	return o.transition(o.status.Reopen, now)
}

// ValidateWorkable checks that department work may be recorded on the order.
func (o *Order) ValidateWorkable() error {
	if o.status != InFactory {
		return errs.NewInvalidTransitionError("order", o.status.String(), "record department work on")
	}
	return nil
}

// ValidateAssignable checks that workers may be assigned to the order.
func (o *Order) ValidateAssignable() error {
	if o.status != Draft && o.status != InFactory {
		return errs.NewInvalidTransitionError("order", o.status.String(), "assign workers on")
	}
	return nil
}

func (o *Order) transition(next func() (Status, error), now time.Time) error {
	status, err := next()
	if err != nil {
		return err
	}
	o.status = status
	o.touch(now)
	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
	if o.expectedVersion > 0 {
		o.version = o.expectedVersion + 1
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ErrCustomerIsRequired
	}
	o.customerRef = ref
	return nil
}

func (o *Order) setPriority(priority int) error {
	if err := validatePriority(priority); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setDetails(details Details) error {
	if err := details.Validate(); err != nil {
		return err
	}
	o.details = details
	return nil
}

func (o *Order) setStones(stones []*Stone) error {
	out := make([]*Stone, 0, len(stones))
	for _, s := range stones {
		if err := s.Validate(); err != nil {
			return err
		}
		out = append(out, s)
	}
	o.stones = out
	return nil
}

func validatePriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return errs.NewValueIsOutOfRangeError("priority", priority, MinPriority, MaxPriority)
	}
	return nil
}
