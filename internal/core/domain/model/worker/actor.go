package worker

import (
	"errors"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller of a workflow operation. Department is
// the department the caller acts for, when the identity provider states one.
// Actor is the authenticated caller of an operation. Department is set for
// workers acting for a single department.
type Actor struct {
	id         kernel.UUID
	role       Role
	department kernel.Option[department.Department]
	guard      guard.ConstructorGuard
}

// NewActor creates an actor from already resolved identity data.
func NewActor(id kernel.UUID, role Role, dept kernel.Option[department.Department]) (Actor, error) {
	var deptErr error
	if d, ok := dept.Get(); ok {
		deptErr = d.Validate()
	}
	if err := errors.Join(id.Validate(), role.Validate(), deptErr); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, department: dept, guard: guard.NewConstructorGuard()}, nil
}

// ActorOf builds the actor of a directory worker. A worker configured for a
// single department acts for that department.
func ActorOf(w *Worker) Actor {
	dept := kernel.None[department.Department]()
	if ds := w.Departments(); len(ds) == 1 {
		dept = kernel.Some(ds[0])
	}
	return Actor{id: w.ID(), role: w.Role(), department: dept, guard: guard.NewConstructorGuard()}
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Department() kernel.Option[department.Department] {
	return a.department
}

// Can reports whether the actor's role grants c.
func (a Actor) Can(c Capability) bool {
	return a.role.Can(c)
}
