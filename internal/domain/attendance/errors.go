package attendance

import "errors"

var (
	ErrUnknownStatus      = errors.New("unknown attendance status")
	ErrInvalidWorkingDays = errors.New("working days must be greater than zero")
)
