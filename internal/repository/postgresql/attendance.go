package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// GetAttendanceRecords implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetAttendanceRecords(ctx context.Context, employeeID string, dateRange attendance.DateRange) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id, date, status
		FROM attendances
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date ASC, updated_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, dateRange.From, dateRange.To)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.EmployeeID, &rec.Date, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}

	return records, nil
}
