package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const payrollRunColumns = `
	id, batch_id, employee_id, salary_structure_id, period_month, period_year, status,
	basic_salary, earnings, deductions, gross_salary, net_salary,
	pf_deduction, esi_deduction, pt_deduction, tds_deduction,
	working_days, days_worked, days_present, days_absent, days_leave,
	processed_at, locked_at, rejected_at, rejection_reason, created_at, updated_at`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func scanPayrollRun(row pgx.Row) (payroll.PayrollRun, error) {
	var r payroll.PayrollRun
	err := row.Scan(
		&r.ID, &r.BatchID, &r.EmployeeID, &r.SalaryStructureID, &r.PeriodMonth, &r.PeriodYear, &r.Status,
		&r.BasicSalary, &r.Earnings, &r.Deductions, &r.GrossSalary, &r.NetSalary,
		&r.PFDeduction, &r.ESIDeduction, &r.PTDeduction, &r.TDSDeduction,
		&r.WorkingDays, &r.DaysWorked, &r.DaysPresent, &r.DaysAbsent, &r.DaysLeave,
		&r.ProcessedAt, &r.LockedAt, &r.RejectedAt, &r.RejectionReason, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create inserts the run and its line items. Call it inside a transaction so
// a failed line item leaves nothing behind.
func (r *payrollRepository) Create(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to generate payroll run id: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO payroll_runs (
			id, batch_id, employee_id, salary_structure_id, period_month, period_year, status,
			basic_salary, earnings, deductions, gross_salary, net_salary,
			pf_deduction, esi_deduction, pt_deduction, tds_deduction,
			working_days, days_worked, days_present, days_absent, days_leave,
			processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING %s
	`, payrollRunColumns)

	created, err := scanPayrollRun(q.QueryRow(ctx, query,
		id.String(), run.BatchID, run.EmployeeID, run.SalaryStructureID, run.PeriodMonth, run.PeriodYear, run.Status,
		run.BasicSalary, run.Earnings, run.Deductions, run.GrossSalary, run.NetSalary,
		run.PFDeduction, run.ESIDeduction, run.PTDeduction, run.TDSDeduction,
		run.WorkingDays, run.DaysWorked, run.DaysPresent, run.DaysAbsent, run.DaysLeave,
		run.ProcessedAt,
	))
	if err != nil {
		if IsUniqueViolation(err) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunConflict
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	for i, item := range run.Components {
		itemID, err := uuid.NewV7()
		if err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("failed to generate line item id: %w", err)
		}
		_, err = q.Exec(ctx, `
			INSERT INTO payroll_line_items (id, payroll_run_id, component_name, amount, type, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, itemID.String(), created.ID, item.ComponentName, item.Amount, item.Type, i)
		if err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll line item %q: %w", item.ComponentName, err)
		}
		item.ID = itemID.String()
		item.PayrollRunID = created.ID
		created.Components = append(created.Components, item)
	}

	return created, nil
}

// Delete removes a DRAFT or REJECTED run; line items cascade. Any other
// status is refused at the statement level.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM payroll_runs
		WHERE id = $1 AND status IN ('DRAFT', 'REJECTED')
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrChanged(ctx, id)
	}
	return nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	return r.getOne(ctx, "id = $1", "", id)
}

func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayrollRun, error) {
	return r.getOne(ctx, "id = $1", "FOR UPDATE", id)
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRun, error) {
	return r.getOne(ctx, "employee_id = $1 AND period_month = $2 AND period_year = $3", "", employeeID, month, year)
}

func (r *payrollRepository) GetByEmployeePeriodForUpdate(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRun, error) {
	return r.getOne(ctx, "employee_id = $1 AND period_month = $2 AND period_year = $3", "FOR UPDATE", employeeID, month, year)
}

func (r *payrollRepository) getOne(ctx context.Context, where, lock string, args ...interface{}) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM payroll_runs WHERE %s %s`, payrollRunColumns, where, lock)
	run, err := scanPayrollRun(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	run.Components, err = r.getLineItems(ctx, run.ID)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	return run, nil
}

func (r *payrollRepository) getLineItems(ctx context.Context, runID string) ([]payroll.LineItem, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, payroll_run_id, component_name, amount, type
		FROM payroll_line_items
		WHERE payroll_run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll line items: %w", err)
	}
	defer rows.Close()

	var items []payroll.LineItem
	for rows.Next() {
		var item payroll.LineItem
		if err := rows.Scan(&item.ID, &item.PayrollRunID, &item.ComponentName, &item.Amount, &item.Type); err != nil {
			return nil, fmt.Errorf("failed to scan payroll line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus is a compare-and-set: the row changes only while its status is
// one of update.From.
func (r *payrollRepository) UpdateStatus(ctx context.Context, update payroll.StatusUpdate) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	from := make([]string, 0, len(update.From))
	for _, s := range update.From {
		from = append(from, string(s))
	}

	query := fmt.Sprintf(`
		UPDATE payroll_runs
		SET status = $2::varchar,
			locked_at = CASE WHEN $2::varchar = 'LOCKED' THEN $3::timestamptz ELSE locked_at END,
			rejected_at = CASE WHEN $2::varchar = 'REJECTED' THEN $3::timestamptz ELSE rejected_at END,
			rejection_reason = COALESCE($4::text, rejection_reason),
			updated_at = $3::timestamptz
		WHERE id = $1 AND status = ANY($5::varchar[])
		RETURNING %s
	`, payrollRunColumns)

	run, err := scanPayrollRun(q.QueryRow(ctx, query, update.ID, string(update.To), update.At, update.RejectionReason, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, r.missingOrChanged(ctx, update.ID)
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to update payroll run status: %w", err)
	}
	return run, nil
}

func (r *payrollRepository) missingOrChanged(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payroll_runs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check payroll run: %w", err)
	}
	if !exists {
		return payroll.ErrPayrollRunNotFound
	}
	return payroll.ErrPayrollStatusChanged
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_runs WHERE 1 = 1`
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.BatchID != nil {
		baseQuery += fmt.Sprintf(" AND batch_id = $%d", argIdx)
		args = append(args, *filter.BatchID)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	// Sort
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	allowedColumns := map[string]string{
		"created_at":   "created_at " + sortOrder,
		"period":       "period_year " + sortOrder + ", period_month " + sortOrder,
		"net_salary":   "net_salary " + sortOrder,
		"gross_salary": "gross_salary " + sortOrder,
	}
	orderBy, ok := allowedColumns[filter.SortBy]
	if !ok {
		orderBy = allowedColumns["created_at"]
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY %s, id LIMIT $%d OFFSET $%d`,
		payrollRunColumns, baseQuery, orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanPayrollRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}

	return runs, totalCount, nil
}

func (r *payrollRepository) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(basic_salary), 0),
			COALESCE(SUM(earnings), 0),
			COALESCE(SUM(deductions), 0),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(net_salary), 0),
			COALESCE(SUM(pf_deduction), 0),
			COALESCE(SUM(esi_deduction), 0),
			COALESCE(SUM(pt_deduction), 0),
			COALESCE(SUM(tds_deduction), 0),
			COUNT(*) FILTER (WHERE status = 'DRAFT'),
			COUNT(*) FILTER (WHERE status = 'PROCESSED'),
			COUNT(*) FILTER (WHERE status = 'LOCKED'),
			COUNT(*) FILTER (WHERE status = 'REJECTED')
		FROM payroll_runs
		WHERE period_month = $1 AND period_year = $2
	`

	s := payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}
	var totals [9]decimal.Decimal
	err := q.QueryRow(ctx, query, month, year).Scan(
		&s.TotalEmployees,
		&totals[0], &totals[1], &totals[2], &totals[3], &totals[4],
		&totals[5], &totals[6], &totals[7], &totals[8],
		&s.DraftCount, &s.ProcessedCount, &s.LockedCount, &s.RejectedCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	s.TotalBasicSalary, s.TotalEarnings, s.TotalDeductions = totals[0], totals[1], totals[2]
	s.TotalGrossSalary, s.TotalNetSalary = totals[3], totals[4]
	s.TotalPF, s.TotalESI, s.TotalPT, s.TotalTDS = totals[5], totals[6], totals[7], totals[8]

	return s, nil
}

