package order

import (
	"errors"
	"maps"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var (
	ErrDetailsIsNotConstructed = errs.NewValueIsRequiredError("order details must be created via NewDetails")
	ErrDueDateIsRequired       = errs.NewValueIsRequiredError("due date")
)

// Details is the 1:1 production brief of an order.
type Details struct {
	initialGoldWeight kernel.Weight
	purity            kernel.Karat
	dueDate           time.Time
	productMetadata   map[string]string
	guard             guard.ConstructorGuard
}

// NewDetails requires a positive initial gold weight, a purity of 1..24 karat
// and a due date. Product metadata (design code, size, finish, ...) is free form.
func NewDetails(
	initialGoldWeight kernel.Weight,
	purity kernel.Karat,
	dueDate time.Time,
	productMetadata map[string]string,
) (Details, error) {
	var weightErr error
	if err := initialGoldWeight.Validate(); err != nil {
		weightErr = err
	} else if initialGoldWeight.IsZero() {
		weightErr = errs.NewValueIsInvalidError("initial gold weight must be greater than 0")
	}

	var dueErr error
	if dueDate.IsZero() {
		dueErr = ErrDueDateIsRequired
	}

	if err := errors.Join(weightErr, purity.Validate(), dueErr); err != nil {
		return Details{}, err
	}

	meta := make(map[string]string, len(productMetadata))
	maps.Copy(meta, productMetadata)

	return Details{
		initialGoldWeight: initialGoldWeight,
		purity:            purity,
		dueDate:           dueDate.UTC(),
		productMetadata:   meta,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

func (d Details) Validate() error {
	return d.guard.Validate(ErrDetailsIsNotConstructed)
}

func (d Details) InitialGoldWeight() kernel.Weight {
	return d.initialGoldWeight
}

func (d Details) Purity() kernel.Karat {
	return d.purity
}

func (d Details) DueDate() time.Time {
	return d.dueDate
}

func (d Details) ProductMetadata() map[string]string {
	return maps.Clone(d.productMetadata)
}

// IsOverdue reports whether the due date has passed at now.
func (d Details) IsOverdue(now time.Time) bool {
	return now.After(d.dueDate)
}
