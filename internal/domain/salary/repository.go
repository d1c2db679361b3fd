package salary

import "context"

// SalaryStructureRepository is the read side of the employee/salary store.
type SalaryStructureRepository interface {
	GetActiveByEmployeeID(ctx context.Context, employeeID string) (SalaryStructure, error)
	GetByID(ctx context.Context, id string) (SalaryStructure, error)
	ListEmployeesWithActiveStructure(ctx context.Context) ([]string, error)
}
