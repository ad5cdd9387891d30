package worker

import (
	"fmt"
	"slices"
	"strings"

	"atelier/internal/pkg/errs"
)

// Role is the closed set of user roles known to the workflow.
type Role int

const (
	UnknownRole Role = iota
	Admin
	OfficeStaff
	FactoryManager
	DepartmentWorker
)

// Capability is a permission granted to one or more roles.
type Capability int

const (
	// ViewCustomer allows reading the customer reference of an order.
	ViewCustomer Capability = iota + 1
	ManageOrders
	AssignWorkers
	WorkDepartments
	SubmitFinal
	RecordApproval
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole:      "UNKNOWN",
		Admin:            "ADMIN",
		OfficeStaff:      "OFFICE_STAFF",
		FactoryManager:   "FACTORY_MANAGER",
		DepartmentWorker: "DEPARTMENT_WORKER",
	}
}

func getRoleCapabilities() map[Role][]Capability {
	//nolint:exhaustive // UnknownRole has no capabilities
	return map[Role][]Capability{
		Admin:            {ViewCustomer, ManageOrders, AssignWorkers, WorkDepartments, SubmitFinal, RecordApproval},
		OfficeStaff:      {ViewCustomer, ManageOrders, RecordApproval},
		FactoryManager:   {AssignWorkers, WorkDepartments, SubmitFinal},
		DepartmentWorker: {WorkDepartments},
	}
}

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for r, name := range getRoleStrings() {
		if r != UnknownRole && name == want {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%q is not a known role", s))
}

func (r Role) Validate() error {
	if _, ok := getRoleCapabilities()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	return slices.Contains(getRoleCapabilities()[r], c)
}
