package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"157.5", "157.5"},
		{"0.125", "0.13"},
		{"1234.5678", "1234.57"},
		{"-0.005", "0"},
		{"-0.006", "-0.01"},
		{"-12.345", "-12.34"},
		{"-12.3451", "-12.35"},
	}
	for _, c := range cases {
		assert.True(t, Round2(d(c.in)).Equal(d(c.want)), "Round2(%s) = %s, want %s", c.in, Round2(d(c.in)), c.want)
	}
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(d("40"), d("30000")).Equal(d("12000")))
	assert.True(t, Percent(d("12.5"), d("333.33")).Equal(d("41.67")))
}

func TestAnnualizeAndMonthly(t *testing.T) {
	assert.True(t, Annualize(d("50000")).Equal(d("600000")))
	assert.True(t, Monthly(d("100000")).Equal(d("8333.33")))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(d("100.00"), d("100.50")))
	assert.True(t, WithinTolerance(d("100.50"), d("100.00")))
	assert.False(t, WithinTolerance(d("100.00"), d("100.51")))
}

func TestSumAndMin(t *testing.T) {
	assert.True(t, Sum(d("1.10"), d("2.20"), d("3.30")).Equal(d("6.6")))
	assert.True(t, Sum().IsZero())
	assert.True(t, Min(d("15000"), d("20000")).Equal(d("15000")))
	assert.True(t, Min(d("20000"), d("15000")).Equal(d("15000")))
}
