package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const salaryStructureColumns = `
	id, employee_id, basic_salary, ctc, effective_from, effective_until, active, created_at, updated_at`

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) salary.SalaryStructureRepository {
	return &salaryStructureRepository{db: db}
}

// GetActiveByEmployeeID implements salary.SalaryStructureRepository.
func (s *salaryStructureRepository) GetActiveByEmployeeID(ctx context.Context, employeeID string) (salary.SalaryStructure, error) {
	structure, err := s.getOne(ctx, "employee_id = $1 AND active = TRUE ORDER BY effective_from DESC LIMIT 1", employeeID)
	if errors.Is(err, salary.ErrSalaryStructureNotFound) {
		return salary.SalaryStructure{}, salary.ErrNoActiveSalaryStructure
	}
	return structure, err
}

// GetByID implements salary.SalaryStructureRepository.
func (s *salaryStructureRepository) GetByID(ctx context.Context, id string) (salary.SalaryStructure, error) {
	return s.getOne(ctx, "id = $1", id)
}

func (s *salaryStructureRepository) getOne(ctx context.Context, where string, args ...interface{}) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`SELECT %s FROM salary_structures WHERE %s`, salaryStructureColumns, where)

	var st salary.SalaryStructure
	err := q.QueryRow(ctx, query, args...).Scan(
		&st.ID, &st.EmployeeID, &st.BasicSalary, &st.CTC,
		&st.EffectiveFrom, &st.EffectiveUntil, &st.Active, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.SalaryStructure{}, salary.ErrSalaryStructureNotFound
		}
		return salary.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	st.Components, err = s.getComponents(ctx, st.ID)
	if err != nil {
		return salary.SalaryStructure{}, err
	}
	return st, nil
}

func (s *salaryStructureRepository) getComponents(ctx context.Context, structureID string) ([]salary.SalaryComponent, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, structure_id, name, kind, calc_method, value, formula,
			   COALESCE(depends_on, '{}'), optional, position, created_at
		FROM salary_components
		WHERE structure_id = $1
		ORDER BY position ASC, name ASC
	`

	rows, err := q.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get salary components: %w", err)
	}
	defer rows.Close()

	var components []salary.SalaryComponent
	for rows.Next() {
		var c salary.SalaryComponent
		if err := rows.Scan(
			&c.ID, &c.StructureID, &c.Name, &c.Kind, &c.CalcMethod, &c.Value, &c.Formula,
			&c.DependsOn, &c.Optional, &c.Position, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get salary components: %w", err)
	}

	return components, nil
}

// ListEmployeesWithActiveStructure implements salary.SalaryStructureRepository.
func (s *salaryStructureRepository) ListEmployeesWithActiveStructure(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT employee_id
		FROM salary_structures
		WHERE active = TRUE
		ORDER BY employee_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible employees: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
