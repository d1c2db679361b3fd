package salary

import "context"

type SalaryService interface {
	// CalculateSalary previews a structure's breakdown without persisting anything.
	CalculateSalary(ctx context.Context, req CalculateSalaryRequest) (SalaryBreakdown, error)
}
