package kernel

import (
	"fmt"

	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// WeightScale is the number of decimal places kept for gram weights.
const WeightScale int32 = 3

var ErrWeightIsNotConstructed = errs.NewValueIsRequiredError(
	"weight must be created via NewWeight, NewPositiveWeight or WeightFromString")

// Weight is a non-negative mass in grams, rounded to WeightScale places.
type Weight struct { //nolint:recvcheck // value object with pointer-free API
	grams decimal.Decimal
	guard guard.ConstructorGuard
}

// NewWeight accepts zero and positive values.
func NewWeight(grams decimal.Decimal) (Weight, error) {
	if grams.IsNegative() {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause(
			"weight is invalid", fmt.Errorf("%s is negative", grams.String()))
	}
	return Weight{grams: grams.Round(WeightScale), guard: guard.NewConstructorGuard()}, nil
}

// NewPositiveWeight rejects zero as well as negative values.
func NewPositiveWeight(grams decimal.Decimal) (Weight, error) {
	if !grams.IsPositive() {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause(
			"weight is invalid", fmt.Errorf("%s is not greater than 0", grams.String()))
	}
	return NewWeight(grams)
}

func WeightFromString(s string) (Weight, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight is invalid", err)
	}
	return NewWeight(d)
}

// MustWeight is meant for tests and constants.
func MustWeight(s string) Weight {
	w, err := WeightFromString(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Weight) Validate() error {
	return w.guard.Validate(ErrWeightIsNotConstructed)
}

func (w Weight) Decimal() decimal.Decimal {
	return w.grams
}

func (w Weight) IsZero() bool {
	return w.grams.IsZero()
}

// Sub returns w - other. The result may be negative.
func (w Weight) Sub(other Weight) decimal.Decimal {
	return w.grams.Sub(other.grams)
}

func (w Weight) GreaterThan(other Weight) bool {
	return w.grams.GreaterThan(other.grams)
}

func (w Weight) IsEqual(other Weight) bool {
	return w.grams.Equal(other.grams)
}

func (w Weight) String() string {
	return w.grams.StringFixed(WeightScale)
}
