package salary

import "errors"

var (
	ErrSalaryStructureNotFound = errors.New("salary structure not found")
	ErrNoActiveSalaryStructure = errors.New("employee has no active salary structure")
	ErrInvalidStructure        = errors.New("invalid salary structure")
)
