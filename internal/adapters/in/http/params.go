package http

import (
	"fmt"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

var pathParam = runtime.BindStyledParameterOptions{
	ParamLocation: runtime.ParamLocationPath,
	Explode:       false,
	Required:      true,
}

func uuidParam(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, pathParam); err != nil {
		return kernel.UUID{}, malformed(fmt.Errorf("invalid format for parameter %s: %w", name, err))
	}
	return kernel.UUIDFromBytes(id[:])
}

func departmentParam(c echo.Context) (department.Department, error) {
	var name string
	if err := runtime.BindStyledParameterWithOptions("simple", "department", c.Param("department"), &name, pathParam); err != nil {
		return "", malformed(fmt.Errorf("invalid format for parameter department: %w", err))
	}
	return department.Parse(name)
}

// departmentRoute reads the order id and department of
// /orders/{orderId}/departments/{department}/... routes.
func departmentRoute(c echo.Context) (kernel.UUID, department.Department, error) {
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return kernel.UUID{}, "", err
	}
	d, err := departmentParam(c)
	if err != nil {
		return kernel.UUID{}, "", err
	}
	return orderID, d, nil
}

func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return malformed(err)
	}
	return nil
}

func kernelID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}
