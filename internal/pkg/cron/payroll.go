package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"go.uber.org/zap"
)

// PayrollJobs runs the previous month's payroll on a fixed day of the month.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	runDay         int
	logger         *zap.Logger
	now            func() time.Time

	mu      sync.Mutex
	lastRun string
}

func NewPayrollJobs(payrollService payroll.PayrollService, runDay int, logger *zap.Logger) *PayrollJobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayrollJobs{
		payrollService: payrollService,
		runDay:         runDay,
		logger:         logger.Named("payroll_cron"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// RegisterJobs registers the auto-run job. A run day of 0 disables it.
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	if j.runDay <= 0 {
		return
	}
	scheduler.AddJob("auto_process_payroll", 1*time.Hour, j.AutoProcessPayroll)
}

// AutoProcessPayroll processes the previous month once per period, on runDay.
// Per-employee failures are reported in the batch result, not as job errors.
func (j *PayrollJobs) AutoProcessPayroll(ctx context.Context) error {
	now := j.now()
	if now.Day() != j.runDay {
		return nil
	}

	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	month, year := int(prev.Month()), prev.Year()
	period := fmt.Sprintf("%04d-%02d", year, month)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastRun == period {
		return nil
	}

	result, err := j.payrollService.ProcessPayroll(ctx, payroll.ProcessPayrollRequest{Month: month, Year: year})
	if err != nil {
		if errors.Is(err, payroll.ErrNoEligibleEmployees) {
			j.logger.Info("no eligible employees for scheduled payroll", zap.String("period", period))
			j.lastRun = period
			return nil
		}
		return fmt.Errorf("scheduled payroll for %s: %w", period, err)
	}
	j.lastRun = period

	j.logger.Info("scheduled payroll completed",
		zap.String("period", period),
		zap.String("run_id", result.RunID),
		zap.Int("processed", result.ProcessedCount),
		zap.Int("failed", result.FailureCount),
	)
	return nil
}
