package compliance

import (
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculators(t *testing.T) {
	cfg := config.DefaultComplianceConfig()
	pf := NewPFCalculator(cfg.PF)
	esi := NewESICalculator(cfg.ESI)
	pt := NewPTCalculator(cfg.PT)
	tds := NewTDSCalculator(cfg.TDS)

	tests := []struct {
		name       string
		calculator Calculator
		gross      string
		want       string
	}{
		{"pf below cap", pf, "10000", "1200"},
		{"pf capped at monthly ceiling", pf, "20000", "1800"},
		{"pf zero gross", pf, "0", "0"},
		{"esi at threshold", esi, "21000", "157.5"},
		{"esi just above threshold", esi, "21000.01", "0"},
		{"esi rounds to cent", esi, "10001", "75.01"},
		{"pt lowest slab", pt, "15000", "0"},
		{"pt exactly on boundary", pt, "20000", "50"},
		{"pt just above boundary", pt, "20000.01", "100"},
		{"pt open slab", pt, "100000", "200"},
		{"pt zero gross", pt, "0", "0"},
		{"tds below exemption", tds, "25000", "0"},
		{"tds second slab", tds, "50000", "1041.67"},
		{"tds marginal brackets", tds, "100000", "6875"},
		{"tds zero gross", tds, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.calculator.Calculate(dec(tt.gross), dec(tt.gross))
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCalculators_IgnoreBasic(t *testing.T) {
	cfg := config.DefaultComplianceConfig()
	pf := NewPFCalculator(cfg.PF)

	a := pf.Calculate(dec("12000"), dec("1000"))
	b := pf.Calculate(dec("12000"), dec("12000"))
	assert.True(t, a.Equal(b))
}

func TestCalculators_Names(t *testing.T) {
	cfg := config.DefaultComplianceConfig()
	assert.Equal(t, "Provident Fund", NewPFCalculator(cfg.PF).Name())
	assert.Equal(t, "Employee State Insurance", NewESICalculator(cfg.ESI).Name())
	assert.Equal(t, "Professional Tax", NewPTCalculator(cfg.PT).Name())
	assert.Equal(t, "Tax Deducted at Source", NewTDSCalculator(cfg.TDS).Name())
}
