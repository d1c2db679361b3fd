package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"go.uber.org/zap"
)

// LockPayroll moves a PROCESSED run to LOCKED and files its statutory
// deductions in the same transaction. A locked run never changes again.
func (s *PayrollServiceImpl) LockPayroll(ctx context.Context, id string) (payroll.PayrollRunResponse, error) {
	if err := payroll.ValidateID(id); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	var locked payroll.PayrollRun
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		run, err := s.payrollRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkLockable(run.Status); err != nil {
			return err
		}

		lockedAt := s.now()
		updated, err := s.payrollRepo.UpdateStatus(ctx, payroll.StatusUpdate{
			ID:   id,
			From: []payroll.PayrollStatus{payroll.PayrollStatusProcessed},
			To:   payroll.PayrollStatusLocked,
			At:   lockedAt,
		})
		if err != nil {
			return err
		}

		result := run.Compliance()
		records := make([]compliance.Record, 0, len(compliance.AllTypes))
		for _, t := range compliance.AllTypes {
			records = append(records, compliance.Record{
				EmployeeID:   run.EmployeeID,
				PayrollRunID: run.ID,
				Type:         t,
				Amount:       result.Amount(t),
				PeriodMonth:  run.PeriodMonth,
				PeriodYear:   run.PeriodYear,
			})
		}
		if err := s.complianceRepo.SaveRecords(ctx, records); err != nil {
			return fmt.Errorf("failed to save compliance records: %w", err)
		}

		updated.Components = run.Components
		locked = updated
		return nil
	})
	if err != nil {
		return payroll.PayrollRunResponse{}, s.resolveStatusRace(ctx, id, err, checkLockable)
	}

	s.metrics.Transition(string(payroll.PayrollStatusLocked))
	s.logger.Info("payroll run locked",
		zap.String("payroll_id", id),
		zap.String("employee_id", locked.EmployeeID),
	)
	return mapToRunResponse(locked), nil
}

// RejectPayroll moves a DRAFT or PROCESSED run to REJECTED. The period can
// then be processed again.
func (s *PayrollServiceImpl) RejectPayroll(ctx context.Context, req payroll.RejectPayrollRequest) (payroll.PayrollRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	reason := strings.TrimSpace(req.Reason)

	var rejected payroll.PayrollRun
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		run, err := s.payrollRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := checkRejectable(run.Status); err != nil {
			return err
		}

		updated, err := s.payrollRepo.UpdateStatus(ctx, payroll.StatusUpdate{
			ID:              req.ID,
			From:            []payroll.PayrollStatus{payroll.PayrollStatusDraft, payroll.PayrollStatusProcessed},
			To:              payroll.PayrollStatusRejected,
			At:              s.now(),
			RejectionReason: &reason,
		})
		if err != nil {
			return err
		}
		updated.Components = run.Components
		rejected = updated
		return nil
	})
	if err != nil {
		return payroll.PayrollRunResponse{}, s.resolveStatusRace(ctx, req.ID, err, checkRejectable)
	}

	s.metrics.Transition(string(payroll.PayrollStatusRejected))
	s.logger.Info("payroll run rejected",
		zap.String("payroll_id", req.ID),
		zap.String("employee_id", rejected.EmployeeID),
		zap.String("reason", reason),
	)
	return mapToRunResponse(rejected), nil
}

func checkLockable(status payroll.PayrollStatus) error {
	switch status {
	case payroll.PayrollStatusProcessed:
		return nil
	case payroll.PayrollStatusLocked:
		return payroll.ErrPayrollLocked
	default:
		return payroll.ErrPayrollNotProcessed
	}
}

func checkRejectable(status payroll.PayrollStatus) error {
	switch status {
	case payroll.PayrollStatusDraft, payroll.PayrollStatusProcessed:
		return nil
	case payroll.PayrollStatusLocked:
		return payroll.ErrPayrollLocked
	case payroll.PayrollStatusRejected:
		return payroll.ErrPayrollAlreadyRejected
	default:
		return fmt.Errorf("%w: cannot reject a %s run", payroll.ErrPayrollStatusChanged, status)
	}
}

// resolveStatusRace turns a lost compare-and-set into the error for the
// status the run ended up in.
func (s *PayrollServiceImpl) resolveStatusRace(ctx context.Context, id string, err error, check func(payroll.PayrollStatus) error) error {
	if !errors.Is(err, payroll.ErrPayrollStatusChanged) {
		return err
	}
	current, getErr := s.payrollRepo.GetByID(ctx, id)
	if getErr != nil {
		return err
	}
	if statusErr := check(current.Status); statusErr != nil {
		return statusErr
	}
	return err
}
