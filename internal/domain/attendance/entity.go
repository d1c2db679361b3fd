package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusLeave   Status = "LEAVE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave:
		return true
	}
	return false
}

// Record - one employee-day from the attendance store
type Record struct {
	EmployeeID string
	Date       time.Time
	Status     Status
}

// DateRange is inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// MonthRange returns the first and last calendar day of month/year in UTC.
func MonthRange(month, year int) DateRange {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: from, To: from.AddDate(0, 1, -1)}
}

// Summary - attendance counts for one employee and month. Day counts carry
// halves for HALF_DAY records.
type Summary struct {
	WorkingDays int
	DaysPresent decimal.Decimal
	DaysAbsent  decimal.Decimal
	DaysLeave   decimal.Decimal
	DaysWorked  decimal.Decimal
}
