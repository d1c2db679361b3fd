package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	complianceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/compliance"
	salaryService "github.com/cmlabs-hris/payroll-backend-go/internal/service/salary"
	"go.uber.org/zap"
)

// Engine groups the pure calculators the orchestrator composes.
type Engine struct {
	Aggregator *salaryService.Aggregator
	Registry   *complianceService.Registry
	Prorator   *attendanceService.Prorator
}

type Options struct {
	Workers int
	Logger  *zap.Logger
	Metrics *metrics.PayrollMetrics
	Now     func() time.Time
}

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	structureRepo  salary.SalaryStructureRepository
	attendanceRepo attendance.AttendanceRepository
	complianceRepo compliance.ComplianceRecordRepository
	engine         Engine
	workers        int
	logger         *zap.Logger
	metrics        *metrics.PayrollMetrics
	now            func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	structureRepo salary.SalaryStructureRepository,
	attendanceRepo attendance.AttendanceRepository,
	complianceRepo compliance.ComplianceRecordRepository,
	engine Engine,
	opts Options,
) payroll.PayrollService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		structureRepo:  structureRepo,
		attendanceRepo: attendanceRepo,
		complianceRepo: complianceRepo,
		engine:         engine,
		workers:        opts.Workers,
		logger:         opts.Logger.Named("payroll"),
		metrics:        opts.Metrics,
		now:            func() time.Time { return opts.Now().UTC() },
	}
}

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollRunResponse, error) {
	if err := payroll.ValidateID(id); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	run, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	return mapToRunResponse(run), nil
}

func (s *PayrollServiceImpl) GetEmployeePayroll(ctx context.Context, req payroll.EmployeePayrollRequest) (payroll.PayrollRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	run, err := s.payrollRepo.GetByEmployeePeriod(ctx, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	return mapToRunResponse(run), nil
}

func (s *PayrollServiceImpl) ListPayroll(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRunResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRunResponse{}, err
	}
	filter.Normalize()

	runs, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRunResponse{}, err
	}

	return payroll.ListPayrollRunResponse{
		Data:       mapToRunResponses(runs),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	if len(errs) > 0 {
		return payroll.PayrollSummaryResponse{}, errs
	}

	return s.payrollRepo.GetSummary(ctx, month, year)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func mapToRunResponse(r payroll.PayrollRun) payroll.PayrollRunResponse {
	resp := payroll.PayrollRunResponse{
		ID:                r.ID,
		BatchID:           r.BatchID,
		EmployeeID:        r.EmployeeID,
		SalaryStructureID: r.SalaryStructureID,
		PeriodMonth:       r.PeriodMonth,
		PeriodYear:        r.PeriodYear,
		Status:            string(r.Status),
		BasicSalary:       r.BasicSalary,
		Earnings:          r.Earnings,
		Deductions:        r.Deductions,
		GrossSalary:       r.GrossSalary,
		NetSalary:         r.NetSalary,
		PFDeduction:       r.PFDeduction,
		ESIDeduction:      r.ESIDeduction,
		PTDeduction:       r.PTDeduction,
		TDSDeduction:      r.TDSDeduction,
		WorkingDays:       r.WorkingDays,
		DaysWorked:        r.DaysWorked,
		DaysPresent:       r.DaysPresent,
		DaysAbsent:        r.DaysAbsent,
		DaysLeave:         r.DaysLeave,
		ProcessedAt:       formatTime(r.ProcessedAt),
		LockedAt:          formatTime(r.LockedAt),
		RejectedAt:        formatTime(r.RejectedAt),
		RejectionReason:   r.RejectionReason,
	}
	for _, item := range r.Components {
		resp.Components = append(resp.Components, payroll.LineItemResponse{
			ComponentName: item.ComponentName,
			Amount:        item.Amount,
			Type:          string(item.Type),
		})
	}
	return resp
}

func mapToRunResponses(runs []payroll.PayrollRun) []payroll.PayrollRunResponse {
	responses := make([]payroll.PayrollRunResponse, 0, len(runs))
	for _, r := range runs {
		responses = append(responses, mapToRunResponse(r))
	}
	return responses
}
