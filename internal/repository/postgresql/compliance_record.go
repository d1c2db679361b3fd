package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type complianceRecordRepository struct {
	db *database.DB
}

func NewComplianceRecordRepository(db *database.DB) compliance.ComplianceRecordRepository {
	return &complianceRecordRepository{db: db}
}

// SaveRecords implements compliance.ComplianceRecordRepository. Callers run it
// in the same transaction as the lock it belongs to.
func (c *complianceRecordRepository) SaveRecords(ctx context.Context, records []compliance.Record) error {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO compliance_records (id, employee_id, payroll_run_id, type, amount, period_month, period_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, rec := range records {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate compliance record id: %w", err)
		}
		_, err = q.Exec(ctx, query, id.String(), rec.EmployeeID, rec.PayrollRunID, rec.Type, rec.Amount, rec.PeriodMonth, rec.PeriodYear)
		if err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("compliance record %s already filed for payroll run %s: %w", rec.Type, rec.PayrollRunID, err)
			}
			return fmt.Errorf("failed to save compliance record: %w", err)
		}
	}
	return nil
}
