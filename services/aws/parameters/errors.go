package parameters

import "errors"

var (
	// ErrParameterNotFound is returned when the parameter does not exist.
	ErrParameterNotFound = errors.New("parameter not found")

	// ErrParameterEmpty is returned when the parameter has no value.
	ErrParameterEmpty = errors.New("parameter value is empty")

	// ErrAccessDenied is returned when the caller may not read or decrypt the parameter.
	ErrAccessDenied = errors.New("access denied to parameter")
)
