package commands

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new order with its details and stones and
// seeds the nine department rows. Departments listed in assignments start
// as NOT_STARTED with the given worker, all others as PENDING_ASSIGNMENT.
//
// Example:
//
//	details, _ := order.NewDetails(kernel.MustWeight("25.5"), 22, due, map[string]string{"design": "R-104"})
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), actor, "CUST-0042", 5, details, nil,
//	    map[department.Department]kernel.UUID{department.CAD: designerID})
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	actor       worker.Actor
	customerRef string
	priority    int
	details     order.Details
	stones      []*order.Stone
	assignments map[department.Department]kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates everything that can be checked without
// storage. Worker eligibility for the initial assignments is checked by the
// handler once the workers are loaded.
//
// Parameters:
//   - customerRef: required, trimmed
//   - priority: 0..10, 0 when the client sends nothing
//   - stones: may be nil
//   - assignments: optional department to worker map
//
// Returns:
//   - the command
//   - every validation failure joined into one error
func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor worker.Actor,
	customerRef string,
	priority int,
	details order.Details,
	stones []*order.Stone,
	assignments map[department.Department]kernel.UUID,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setCustomerRef(customerRef),
		cmd.setPriority(priority),
		cmd.setDetails(details),
		cmd.setStones(stones),
		cmd.setAssignments(assignments),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Actor() worker.Actor {
	return c.actor
}

func (c CreateOrderCommand) CustomerRef() string {
	return c.customerRef
}

func (c CreateOrderCommand) Priority() int {
	return c.priority
}

func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

// Stones returns a copy of the stone list.
func (c CreateOrderCommand) Stones() []*order.Stone {
	return slices.Clone(c.stones)
}

// Assignments returns the initial assignments in department sequence order.
func (c CreateOrderCommand) Assignments() []InitialAssignment {
	out := make([]InitialAssignment, 0, len(c.assignments))
	for _, d := range department.Sequence() {
		if workerID, ok := c.assignments[d]; ok {
			out = append(out, InitialAssignment{Department: d, WorkerID: workerID})
		}
	}
	return out
}

// InitialAssignment puts a worker on a department at creation time.
type InitialAssignment struct {
	Department department.Department
	WorkerID   kernel.UUID
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setActor(actor worker.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setCustomerRef(customerRef string) error {
	customerRef = strings.TrimSpace(customerRef)
	if customerRef == "" {
		return order.ErrCustomerIsRequired
	}
	c.customerRef = customerRef
	return nil
}

func (c *CreateOrderCommand) setPriority(priority int) error {
	if priority < order.MinPriority || priority > order.MaxPriority {
		return errs.NewValueIsOutOfRangeError("priority", priority, order.MinPriority, order.MaxPriority)
	}
	c.priority = priority
	return nil
}

func (c *CreateOrderCommand) setDetails(details order.Details) error {
	if err := details.Validate(); err != nil {
		return err
	}
	c.details = details
	return nil
}

func (c *CreateOrderCommand) setStones(stones []*order.Stone) error {
	for _, s := range stones {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	c.stones = slices.Clone(stones)
	return nil
}

func (c *CreateOrderCommand) setAssignments(assignments map[department.Department]kernel.UUID) error {
	for d, workerID := range assignments {
		if err := errors.Join(d.Validate(), workerID.Validate()); err != nil {
			return err
		}
	}
	c.assignments = maps.Clone(assignments)
	return nil
}
