package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var half = decimal.RequireFromString("0.5")

// Prorator turns attendance into the share of the month that is paid.
type Prorator struct {
	holidays map[string]struct{}
}

// NewProrator takes the holiday calendar used when counting leave days.
// Holidays never change the working-day count.
func NewProrator(holidays []time.Time) *Prorator {
	p := &Prorator{holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		p.holidays[h.Format(time.DateOnly)] = struct{}{}
	}
	return p
}

// WorkingDaysInMonth counts Monday to Friday in the month.
func (p *Prorator) WorkingDaysInMonth(month, year int) int {
	r := attendance.MonthRange(month, year)
	days := 0
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// Factor is daysWorked / workingDays. Out-of-range results are not clamped;
// ValidateAttendance rejects them first.
func (p *Prorator) Factor(daysWorked decimal.Decimal, workingDays int) (decimal.Decimal, error) {
	if workingDays <= 0 {
		return decimal.Zero, attendance.ErrInvalidWorkingDays
	}
	return daysWorked.Div(decimal.NewFromInt(int64(workingDays))), nil
}

// Prorate scales amount by daysWorked / workingDays, rounding once at the end.
func (p *Prorator) Prorate(amount decimal.Decimal, summary attendance.Summary) decimal.Decimal {
	if summary.WorkingDays <= 0 {
		return decimal.Zero
	}
	return money.Round2(amount.Mul(summary.DaysWorked).Div(decimal.NewFromInt(int64(summary.WorkingDays))))
}

// ValidateAttendance rejects negative counts and counts exceeding the
// month's working days.
func (p *Prorator) ValidateAttendance(summary attendance.Summary) error {
	var errs validator.ValidationErrors

	if summary.WorkingDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be greater than 0"})
	}
	for field, v := range map[string]decimal.Decimal{
		"days_present": summary.DaysPresent,
		"days_absent":  summary.DaysAbsent,
		"days_leave":   summary.DaysLeave,
		"days_worked":  summary.DaysWorked,
	} {
		if v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	working := decimal.NewFromInt(int64(summary.WorkingDays))
	recorded := money.Sum(summary.DaysPresent, summary.DaysAbsent, summary.DaysLeave)
	if recorded.GreaterThan(working) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance",
			Message: fmt.Sprintf("present+absent+leave (%s) exceeds working days (%d)", recorded.String(), summary.WorkingDays),
		})
	}
	if summary.DaysWorked.GreaterThan(working) {
		errs = append(errs, validator.ValidationError{
			Field:   "days_worked",
			Message: fmt.Sprintf("%s exceeds working days (%d)", summary.DaysWorked.String(), summary.WorkingDays),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Summarize folds one employee's records for month/year. Records outside the
// month are ignored; a later record for the same date replaces an earlier one.
// Leave taken on a holiday is not counted.
func (p *Prorator) Summarize(records []attendance.Record, month, year int) (attendance.Summary, error) {
	r := attendance.MonthRange(month, year)

	byDate := make(map[string]attendance.Status, len(records))
	for _, rec := range records {
		if !rec.Status.Valid() {
			return attendance.Summary{}, fmt.Errorf("%w: %q on %s", attendance.ErrUnknownStatus, rec.Status, rec.Date.Format(time.DateOnly))
		}
		day := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(r.From) || day.After(r.To) {
			continue
		}
		byDate[day.Format(time.DateOnly)] = rec.Status
	}

	s := attendance.Summary{
		WorkingDays: p.WorkingDaysInMonth(month, year),
		DaysPresent: decimal.Zero,
		DaysAbsent:  decimal.Zero,
		DaysLeave:   decimal.Zero,
	}
	one := decimal.NewFromInt(1)
	for date, status := range byDate {
		switch status {
		case attendance.StatusPresent:
			s.DaysPresent = s.DaysPresent.Add(one)
		case attendance.StatusHalfDay:
			s.DaysPresent = s.DaysPresent.Add(half)
			s.DaysAbsent = s.DaysAbsent.Add(half)
		case attendance.StatusAbsent:
			s.DaysAbsent = s.DaysAbsent.Add(one)
		case attendance.StatusLeave:
			if _, holiday := p.holidays[date]; !holiday {
				s.DaysLeave = s.DaysLeave.Add(one)
			}
		}
	}
	s.DaysWorked = s.DaysPresent.Add(s.DaysLeave)
	return s, nil
}
