package compliance

import "context"

// ComplianceRecordRepository is the filing store written when a payroll run locks.
type ComplianceRecordRepository interface {
	SaveRecords(ctx context.Context, records []Record) error
}
