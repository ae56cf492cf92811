package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound                  = errors.New("resource not found")
	ErrInvalidInput              = errors.New("invalid input")
	ErrDuplicate                 = errors.New("resource already exists")
	ErrPermissionDenied          = errors.New("permission denied")
	ErrInvalidTransition         = errors.New("transition not allowed from current status")
	ErrInsufficientAvailability  = errors.New("insufficient available stock")
	ErrInsufficientPhysicalStock = errors.New("insufficient physical stock")
)
