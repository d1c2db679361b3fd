package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft      PayrollStatus = "DRAFT"
	PayrollStatusProcessing PayrollStatus = "PROCESSING"
	PayrollStatusProcessed  PayrollStatus = "PROCESSED"
	PayrollStatusLocked     PayrollStatus = "LOCKED"
	PayrollStatusRejected   PayrollStatus = "REJECTED"
)

func (s PayrollStatus) Valid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusProcessing, PayrollStatusProcessed, PayrollStatusLocked, PayrollStatusRejected:
		return true
	}
	return false
}

// Replaceable reports whether a new run for the same period may supersede
// this one.
func (s PayrollStatus) Replaceable() bool {
	return s == PayrollStatusDraft || s == PayrollStatusRejected
}

// LineItemType enum
type LineItemType string

const (
	LineItemEarning   LineItemType = "EARNING"
	LineItemDeduction LineItemType = "DEDUCTION"
)

// LineItem - one prorated component amount on a payroll run
type LineItem struct {
	ID            string
	PayrollRunID  string
	ComponentName string
	Amount        decimal.Decimal
	Type          LineItemType
}

// PayrollRun - persisted payroll result for one employee and month.
// Unique per (EmployeeID, PeriodMonth, PeriodYear).
type PayrollRun struct {
	ID                string
	BatchID           string
	EmployeeID        string
	SalaryStructureID string
	PeriodMonth       int
	PeriodYear        int
	Status            PayrollStatus
	BasicSalary       decimal.Decimal
	Earnings          decimal.Decimal
	Deductions        decimal.Decimal
	GrossSalary       decimal.Decimal
	NetSalary         decimal.Decimal
	PFDeduction       decimal.Decimal
	ESIDeduction      decimal.Decimal
	PTDeduction       decimal.Decimal
	TDSDeduction      decimal.Decimal
	WorkingDays       int
	DaysWorked        decimal.Decimal
	DaysPresent       decimal.Decimal
	DaysAbsent        decimal.Decimal
	DaysLeave         decimal.Decimal
	ProcessedAt       *time.Time
	LockedAt          *time.Time
	RejectedAt        *time.Time
	RejectionReason   *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined
	Components []LineItem
}

// Compliance returns the statutory deductions stored on the run.
func (r PayrollRun) Compliance() compliance.Result {
	return compliance.Result{
		compliance.TypePF:  r.PFDeduction,
		compliance.TypeESI: r.ESIDeduction,
		compliance.TypePT:  r.PTDeduction,
		compliance.TypeTDS: r.TDSDeduction,
	}
}

// StatusUpdate - compare-and-set status transition
type StatusUpdate struct {
	ID              string
	From            []PayrollStatus
	To              PayrollStatus
	At              time.Time
	RejectionReason *string
}
