package payroll

import "context"

type PayrollService interface {
	ProcessPayroll(ctx context.Context, req ProcessPayrollRequest) (BatchResult, error)
	GetPayroll(ctx context.Context, id string) (PayrollRunResponse, error)
	GetEmployeePayroll(ctx context.Context, req EmployeePayrollRequest) (PayrollRunResponse, error)
	LockPayroll(ctx context.Context, id string) (PayrollRunResponse, error)
	RejectPayroll(ctx context.Context, req RejectPayrollRequest) (PayrollRunResponse, error)
	ListPayroll(ctx context.Context, filter PayrollFilter) (ListPayrollRunResponse, error)
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
