package payroll

import "context"

// PayrollRepository defines data access methods for payroll runs. Mutating
// methods are expected to run inside a transaction carried by ctx.
type PayrollRepository interface {
	Create(ctx context.Context, run PayrollRun) (PayrollRun, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (PayrollRun, error)
	GetByIDForUpdate(ctx context.Context, id string) (PayrollRun, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRun, error)
	GetByEmployeePeriodForUpdate(ctx context.Context, employeeID string, month, year int) (PayrollRun, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) (PayrollRun, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRun, int64, error)
	GetSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
