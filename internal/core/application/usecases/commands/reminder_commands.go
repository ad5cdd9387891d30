package commands

import (
	"errors"
	"fmt"
	"time"

	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var (
	ErrNotifyOverdueOrdersCommandIsNotConstructed = errors.New(
		"NotifyOverdueOrdersCommand must be created via NewNotifyOverdueOrdersCommand constructor",
	)
	ErrNotifyStaleHoldsCommandIsNotConstructed = errors.New(
		"NotifyStaleHoldsCommand must be created via NewNotifyStaleHoldsCommand constructor",
	)
)

// NotifyOverdueOrdersCommand reminds the office of IN_FACTORY orders past due.
type NotifyOverdueOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewNotifyOverdueOrdersCommand creates the command. It carries no
// parameters: "overdue" is decided against the handler's clock.
func NewNotifyOverdueOrdersCommand() NotifyOverdueOrdersCommand {
	return NotifyOverdueOrdersCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c NotifyOverdueOrdersCommand) Validate() error {
	return c.guard.Validate(ErrNotifyOverdueOrdersCommandIsNotConstructed)
}

// NotifyStaleHoldsCommand reminds assignees of rows ON_HOLD for longer than staleAfter.
type NotifyStaleHoldsCommand struct {
	staleAfter time.Duration

	guard guard.ConstructorGuard
}

// NewNotifyStaleHoldsCommand requires a positive staleAfter.
//
// Example:
//
//	cmd, err := NewNotifyStaleHoldsCommand(48 * time.Hour)
func NewNotifyStaleHoldsCommand(staleAfter time.Duration) (NotifyStaleHoldsCommand, error) {
	if staleAfter <= 0 {
		return NotifyStaleHoldsCommand{}, errs.NewValueIsInvalidErrorWithCause("stale after is invalid",
			fmt.Errorf("%s is not positive", staleAfter))
	}
	return NotifyStaleHoldsCommand{staleAfter: staleAfter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c NotifyStaleHoldsCommand) Validate() error {
	return c.guard.Validate(ErrNotifyStaleHoldsCommandIsNotConstructed)
}

func (c NotifyStaleHoldsCommand) StaleAfter() time.Duration {
	return c.staleAfter
}
