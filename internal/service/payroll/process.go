package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	salaryService "github.com/cmlabs-hris/payroll-backend-go/internal/service/salary"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProcessPayroll computes and persists one run per eligible employee. A
// failure for one employee is reported in the result and never stops the
// others; only an empty employee set fails the whole batch.
func (s *PayrollServiceImpl) ProcessPayroll(ctx context.Context, req payroll.ProcessPayrollRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		ids, err := s.structureRepo.ListEmployeesWithActiveStructure(ctx)
		if err != nil {
			return payroll.BatchResult{}, fmt.Errorf("failed to list eligible employees: %w", err)
		}
		employeeIDs = ids
	}
	if len(employeeIDs) == 0 {
		return payroll.BatchResult{}, payroll.ErrNoEligibleEmployees
	}

	batchUUID, err := uuid.NewV7()
	if err != nil {
		return payroll.BatchResult{}, fmt.Errorf("failed to generate batch id: %w", err)
	}
	batchID := batchUUID.String()
	start := time.Now()
	log := s.logger.With(
		zap.String("batch_id", batchID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)
	log.Info("payroll batch started", zap.Int("employees", len(employeeIDs)))

	// A started batch runs to completion even if the caller goes away.
	workCtx := context.WithoutCancel(ctx)

	details := make([]payroll.EmployeeResult, len(employeeIDs))
	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, employeeID := range employeeIDs {
		g.Go(func() error {
			details[i] = s.processEmployee(workCtx, log, batchID, employeeID, req.Month, req.Year)
			return nil
		})
	}
	_ = g.Wait()

	result := payroll.BatchResult{
		RunID:   batchID,
		Month:   req.Month,
		Year:    req.Year,
		Details: details,
	}
	for _, d := range details {
		if d.Success {
			result.ProcessedCount++
		} else {
			result.FailureCount++
		}
	}

	s.metrics.ObserveBatch(time.Since(start), result.ProcessedCount == 0)
	log.Info("payroll batch finished",
		zap.Int("processed", result.ProcessedCount),
		zap.Int("failed", result.FailureCount),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (s *PayrollServiceImpl) processEmployee(ctx context.Context, log *zap.Logger, batchID, employeeID string, month, year int) payroll.EmployeeResult {
	run, err := s.calculate(ctx, batchID, employeeID, month, year)
	if err == nil {
		run, err = s.persist(ctx, run)
	}
	if err != nil {
		code := errorCode(err)
		s.metrics.EmployeeResult(metrics.ResultFailed, code)
		log.Warn("payroll failed for employee",
			zap.String("employee_id", employeeID),
			zap.String("code", code),
			zap.Error(err),
		)
		return payroll.EmployeeResult{
			EmployeeID: employeeID,
			ErrorCode:  code,
			Error:      err.Error(),
		}
	}

	s.metrics.EmployeeResult(metrics.ResultProcessed, "")
	net := run.NetSalary
	return payroll.EmployeeResult{
		EmployeeID: employeeID,
		Success:    true,
		PayrollID:  &run.ID,
		NetSalary:  &net,
	}
}

// calculate builds the PROCESSED run for one employee without writing.
func (s *PayrollServiceImpl) calculate(ctx context.Context, batchID, employeeID string, month, year int) (payroll.PayrollRun, error) {
	structure, err := s.structureRepo.GetActiveByEmployeeID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	if err := s.engine.Aggregator.Validate(structure); err != nil {
		return payroll.PayrollRun{}, err
	}

	existing, err := s.payrollRepo.GetByEmployeePeriod(ctx, employeeID, month, year)
	switch {
	case err == nil:
		if err := checkReplaceable(existing.Status); err != nil {
			return payroll.PayrollRun{}, err
		}
	case !errors.Is(err, payroll.ErrPayrollRunNotFound):
		return payroll.PayrollRun{}, fmt.Errorf("failed to check existing payroll run: %w", err)
	}

	records, err := s.attendanceRepo.GetAttendanceRecords(ctx, employeeID, attendance.MonthRange(month, year))
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	summary, err := s.engine.Prorator.Summarize(records, month, year)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	if err := s.engine.Prorator.ValidateAttendance(summary); err != nil {
		return payroll.PayrollRun{}, err
	}

	amounts := s.engine.Aggregator.Evaluate(structure, salaryService.NewContext(structure))
	full := salaryService.Summarize(structure.BasicSalary, amounts)

	prorate := func(d decimal.Decimal) decimal.Decimal {
		return s.engine.Prorator.Prorate(d, summary)
	}

	run := payroll.PayrollRun{
		BatchID:           batchID,
		EmployeeID:        employeeID,
		SalaryStructureID: structure.ID,
		PeriodMonth:       month,
		PeriodYear:        year,
		Status:            payroll.PayrollStatusProcessed,
		BasicSalary:       prorate(full.BasicSalary),
		Earnings:          decimal.Zero,
		Deductions:        decimal.Zero,
		GrossSalary:       prorate(full.GrossSalary),
		NetSalary:         prorate(full.NetSalary),
		WorkingDays:       summary.WorkingDays,
		DaysWorked:        summary.DaysWorked,
		DaysPresent:       summary.DaysPresent,
		DaysAbsent:        summary.DaysAbsent,
		DaysLeave:         summary.DaysLeave,
	}
	for _, ca := range amounts {
		var itemType payroll.LineItemType
		switch ca.Component.Kind {
		case salary.ComponentKindEarning:
			itemType = payroll.LineItemEarning
		case salary.ComponentKindDeduction:
			itemType = payroll.LineItemDeduction
		default:
			continue
		}
		amount := prorate(ca.Amount)
		if itemType == payroll.LineItemEarning {
			run.Earnings = run.Earnings.Add(amount)
		} else {
			run.Deductions = run.Deductions.Add(amount)
		}
		run.Components = append(run.Components, payroll.LineItem{
			ComponentName: ca.Component.Name,
			Amount:        amount,
			Type:          itemType,
		})
	}

	deductions, err := s.engine.Registry.CalculateAll(run.GrossSalary, run.BasicSalary)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	run.PFDeduction = deductions.Amount(compliance.TypePF)
	run.ESIDeduction = deductions.Amount(compliance.TypeESI)
	run.PTDeduction = deductions.Amount(compliance.TypePT)
	run.TDSDeduction = deductions.Amount(compliance.TypeTDS)

	if err := crossCheck(run); err != nil {
		return payroll.PayrollRun{}, err
	}

	processedAt := s.now()
	run.ProcessedAt = &processedAt
	return run, nil
}

// crossCheck compares independently prorated totals. A mismatch beyond the
// rounding tolerance is reported, never corrected.
func crossCheck(run payroll.PayrollRun) error {
	if expected := run.BasicSalary.Add(run.Earnings); !money.WithinTolerance(run.GrossSalary, expected) {
		return &payroll.ArithmeticError{Field: "gross_salary", Expected: expected, Actual: run.GrossSalary}
	}
	if expected := run.GrossSalary.Sub(run.Deductions); !money.WithinTolerance(run.NetSalary, expected) {
		return &payroll.ArithmeticError{Field: "net_salary", Expected: expected, Actual: run.NetSalary}
	}
	return nil
}

// persist replaces any DRAFT or REJECTED run for the period and inserts run
// with its line items in one transaction. The existing row is re-read under
// lock so a run locked since calculate is never overwritten.
func (s *PayrollServiceImpl) persist(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	var created payroll.PayrollRun
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetByEmployeePeriodForUpdate(ctx, run.EmployeeID, run.PeriodMonth, run.PeriodYear)
		switch {
		case err == nil:
			if err := checkReplaceable(existing.Status); err != nil {
				return err
			}
			if err := s.payrollRepo.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("failed to delete superseded payroll run: %w", err)
			}
		case !errors.Is(err, payroll.ErrPayrollRunNotFound):
			return fmt.Errorf("failed to check existing payroll run: %w", err)
		}

		created, err = s.payrollRepo.Create(ctx, run)
		return err
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	return created, nil
}

func checkReplaceable(status payroll.PayrollStatus) error {
	switch {
	case status == payroll.PayrollStatusLocked:
		return payroll.ErrPayrollLocked
	case status.Replaceable():
		return nil
	default:
		return payroll.ErrPayrollAlreadyProcessed
	}
}

// errorCode maps an employee-level failure to its reported code.
func errorCode(err error) string {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, salary.ErrInvalidStructure),
		errors.Is(err, attendance.ErrUnknownStatus),
		errors.Is(err, attendance.ErrInvalidWorkingDays):
		return payroll.CodeValidation
	case errors.Is(err, salary.ErrNoActiveSalaryStructure),
		errors.Is(err, salary.ErrSalaryStructureNotFound),
		errors.Is(err, payroll.ErrPayrollRunNotFound):
		return payroll.CodeNotFound
	case errors.Is(err, payroll.ErrPayrollLocked):
		return payroll.CodePayrollLocked
	case errors.Is(err, payroll.ErrPayrollAlreadyProcessed):
		return payroll.CodePayrollAlreadyProcessed
	case errors.Is(err, compliance.ErrUnsupportedComplianceType):
		return payroll.CodeUnsupportedCompliance
	case errors.Is(err, payroll.ErrArithmeticInconsistency):
		return payroll.CodeArithmetic
	case errors.Is(err, payroll.ErrPayrollRunConflict),
		errors.Is(err, payroll.ErrPayrollStatusChanged):
		return payroll.CodeConflict
	default:
		return payroll.CodeInternal
	}
}
