package attendance

import "context"

type AttendanceRepository interface {
	GetAttendanceRecords(ctx context.Context, employeeID string, dateRange DateRange) ([]Record, error)
}
