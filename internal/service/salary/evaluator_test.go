package salary

import (
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator(zap.NewNop(), nil)
	hra := dec("9000")
	ctx := salary.CalculationContext{BasicSalary: dec("30000"), HRA: &hra}

	tests := []struct {
		name      string
		component salary.SalaryComponent
		want      string
	}{
		{"fixed", salary.SalaryComponent{CalcMethod: salary.CalcMethodFixed, Value: dec("1250.5")}, "1250.5"},
		{"percentage of basic", salary.SalaryComponent{CalcMethod: salary.CalcMethodPercentage, Value: dec("40")}, "12000"},
		{"percentage rounds half up", salary.SalaryComponent{CalcMethod: salary.CalcMethodPercentage, Value: dec("0.01235")}, "3.71"},
		{"formula", salary.SalaryComponent{CalcMethod: salary.CalcMethodFormula, Formula: strPtr("Basic * 0.1 + HRA / 2")}, "7500"},
		{"formula absent variable is zero", salary.SalaryComponent{CalcMethod: salary.CalcMethodFormula, Formula: strPtr("Medical + 100")}, "100"},
		{"formula rounds to cent", salary.SalaryComponent{CalcMethod: salary.CalcMethodFormula, Formula: strPtr("Basic / 7")}, "4285.71"},
		{"unknown method", salary.SalaryComponent{CalcMethod: "MAGIC", Value: dec("10")}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.component, ctx)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEvaluator_FormulaFailureIsZeroAndLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := metrics.NewPayrollMetrics(prometheus.NewRegistry())
	e := NewEvaluator(zap.New(core), m)
	ctx := salary.CalculationContext{BasicSalary: dec("30000")}

	formulas := []string{
		"process.exit(1)",
		"require('child_process').exec('rm -rf /')",
		"Basic = 0",
		"Basic / 0",
		"(Basic + ",
		"",
	}

	for _, f := range formulas {
		got := e.Evaluate(salary.SalaryComponent{Name: "Bad", CalcMethod: salary.CalcMethodFormula, Formula: strPtr(f)}, ctx)
		assert.True(t, got.IsZero(), "formula %q should evaluate to zero", f)
	}
	got := e.Evaluate(salary.SalaryComponent{Name: "Missing", CalcMethod: salary.CalcMethodFormula}, ctx)
	assert.True(t, got.IsZero())

	assert.Equal(t, len(formulas)+1, logs.Len())
}
