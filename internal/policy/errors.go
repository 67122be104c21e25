package policy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest = errors.New("invalid tool invocation request")
	ErrUnsafeDefault  = errors.New("default decision must be ask or deny")
	ErrNilStore       = errors.New("rule store cannot be nil")
)

// InvalidRequestError reports a request the engine cannot classify.
type InvalidRequestError struct {
	Field string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%v: %s is required", ErrInvalidRequest, e.Field)
}

func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}
