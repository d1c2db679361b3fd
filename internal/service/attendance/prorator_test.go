package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDaysInMonth(t *testing.T) {
	p := NewProrator(nil)

	tests := []struct {
		month, year int
		want        int
	}{
		{1, 2024, 23},
		{2, 2024, 21}, // leap year
		{3, 2024, 21},
		{4, 2024, 22},
		{6, 2024, 20},
		{2, 2023, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.WorkingDaysInMonth(tt.month, tt.year), "%d/%d", tt.month, tt.year)
	}
}

func TestWorkingDaysIgnoreHolidays(t *testing.T) {
	p := NewProrator([]time.Time{day(2024, 4, 10)})
	assert.Equal(t, 22, p.WorkingDaysInMonth(4, 2024))
}

func TestFactor(t *testing.T) {
	p := NewProrator(nil)

	f, err := p.Factor(dec("11"), 22)
	require.NoError(t, err)
	assert.True(t, dec("0.5").Equal(f))

	f, err = p.Factor(dec("22"), 22)
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(f))

	_, err = p.Factor(dec("1"), 0)
	assert.True(t, errors.Is(err, attendance.ErrInvalidWorkingDays))
}

func TestProrate(t *testing.T) {
	p := NewProrator(nil)

	s := attendance.Summary{WorkingDays: 22, DaysWorked: dec("7")}
	// 45400 * 7 / 22 = 14445.4545...
	assert.True(t, dec("14445.45").Equal(p.Prorate(dec("45400"), s)))

	s.DaysWorked = dec("0")
	assert.True(t, p.Prorate(dec("45400"), s).IsZero())

	s.DaysWorked = dec("22")
	assert.True(t, dec("45400").Equal(p.Prorate(dec("45400"), s)))
}

func TestValidateAttendance(t *testing.T) {
	p := NewProrator(nil)

	valid := attendance.Summary{WorkingDays: 22, DaysPresent: dec("18"), DaysAbsent: dec("2"), DaysLeave: dec("2"), DaysWorked: dec("20")}
	assert.NoError(t, p.ValidateAttendance(valid))

	tests := []struct {
		name   string
		mutate func(*attendance.Summary)
	}{
		{"negative present", func(s *attendance.Summary) { s.DaysPresent = dec("-1") }},
		{"counts exceed working days", func(s *attendance.Summary) { s.DaysAbsent = dec("3") }},
		{"worked exceeds working days", func(s *attendance.Summary) { s.DaysWorked = dec("22.5") }},
		{"no working days", func(s *attendance.Summary) { s.WorkingDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			var verrs validator.ValidationErrors
			assert.True(t, errors.As(p.ValidateAttendance(s), &verrs))
		})
	}
}

func TestSummarize(t *testing.T) {
	p := NewProrator([]time.Time{day(2024, 4, 15)})

	records := []attendance.Record{
		{Date: day(2024, 4, 1), Status: attendance.StatusPresent},
		{Date: day(2024, 4, 2), Status: attendance.StatusPresent},
		{Date: day(2024, 4, 3), Status: attendance.StatusHalfDay},
		{Date: day(2024, 4, 4), Status: attendance.StatusAbsent},
		{Date: day(2024, 4, 5), Status: attendance.StatusLeave},
		{Date: day(2024, 4, 15), Status: attendance.StatusLeave}, // holiday
		{Date: day(2024, 3, 29), Status: attendance.StatusPresent},
		{Date: day(2024, 5, 1), Status: attendance.StatusPresent},
		{Date: day(2024, 4, 2), Status: attendance.StatusAbsent}, // replaces the earlier record
	}

	s, err := p.Summarize(records, 4, 2024)
	require.NoError(t, err)

	assert.Equal(t, 22, s.WorkingDays)
	assert.True(t, dec("1.5").Equal(s.DaysPresent), "present %s", s.DaysPresent)
	assert.True(t, dec("2.5").Equal(s.DaysAbsent), "absent %s", s.DaysAbsent)
	assert.True(t, dec("1").Equal(s.DaysLeave))
	assert.True(t, dec("2.5").Equal(s.DaysWorked))
}

func TestSummarize_UnknownStatus(t *testing.T) {
	p := NewProrator(nil)

	_, err := p.Summarize([]attendance.Record{{Date: day(2024, 4, 1), Status: "WFH"}}, 4, 2024)
	assert.True(t, errors.Is(err, attendance.ErrUnknownStatus))
}
