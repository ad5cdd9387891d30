package order

import (
	"errors"
	"fmt"
	"strings"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var (
	ErrStoneIsNotConstructed = errors.New("Stone must be created via NewStone constructor")
	ErrStoneTypeIsRequired   = errs.NewValueIsRequiredError("stone type")
)

// StoneAttributes are the descriptive, non-workflow properties of a stone.
type StoneAttributes struct {
	Type    string
	Shape   string
	Color   string
	Clarity string
	Setting string
	Notes   string
}

// Stone is a gem set into the piece. Stones do not take part in the
// department workflow; they only contribute to the submitted stone weight.
type Stone struct {
	id         kernel.UUID
	attributes StoneAttributes
	weight     kernel.Weight
	quantity   int
	guard      guard.ConstructorGuard
}

func NewStone(id kernel.UUID, attributes StoneAttributes, weight kernel.Weight, quantity int) (*Stone, error) {
	s := &Stone{guard: guard.NewConstructorGuard()}

	var typeErr error
	attributes.Type = strings.TrimSpace(attributes.Type)
	if attributes.Type == "" {
		typeErr = ErrStoneTypeIsRequired
	}

	var quantityErr error
	if quantity < 1 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	if err := errors.Join(id.Validate(), typeErr, weight.Validate(), quantityErr); err != nil {
		return nil, err
	}

	s.id = id
	s.attributes = attributes
	s.weight = weight
	s.quantity = quantity
	return s, nil
}

func (s *Stone) Validate() error {
	if s == nil {
		return ErrStoneIsNotConstructed
	}
	return s.guard.Validate(ErrStoneIsNotConstructed)
}

func (s *Stone) ID() kernel.UUID {
	return s.id
}

func (s *Stone) Attributes() StoneAttributes {
	return s.attributes
}

// Weight is the weight of a single stone.
func (s *Stone) Weight() kernel.Weight {
	return s.weight
}

func (s *Stone) Quantity() int {
	return s.quantity
}
