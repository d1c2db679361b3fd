package salary

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func scenarioStructure() salary.SalaryStructure {
	return salary.SalaryStructure{
		ID:            "structure-1",
		EmployeeID:    "employee-1",
		BasicSalary:   dec("30000"),
		CTC:           dec("600000"),
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
		Components: []salary.SalaryComponent{
			{Name: "Special Allowance", Kind: salary.ComponentKindEarning, CalcMethod: salary.CalcMethodFormula, Formula: strPtr("(HRA + DA) * 0.1"), Position: 0},
			{Name: "HRA", Kind: salary.ComponentKindEarning, CalcMethod: salary.CalcMethodPercentage, Value: dec("30"), Position: 1},
			{Name: "DA", Kind: salary.ComponentKindEarning, CalcMethod: salary.CalcMethodFixed, Value: dec("5000"), Position: 2},
			{Name: "Employee Loan", Kind: salary.ComponentKindDeduction, CalcMethod: salary.CalcMethodFixed, Value: dec("1500"), Position: 3},
			{Name: "Internet", Kind: salary.ComponentKindReimbursement, CalcMethod: salary.CalcMethodFixed, Value: dec("800"), Position: 4},
		},
	}
}

func newTestAggregator() *Aggregator {
	return NewAggregator(NewEvaluator(zap.NewNop(), nil))
}

func TestAggregator_Breakdown(t *testing.T) {
	a := newTestAggregator()
	s := scenarioStructure()

	b := a.Breakdown(s, NewContext(s))

	// HRA 9000, DA 5000, special (9000+5000)*0.1 = 1400
	assert.True(t, dec("15400").Equal(b.Earnings), "earnings %s", b.Earnings)
	assert.True(t, dec("1500").Equal(b.Deductions))
	assert.True(t, dec("800").Equal(b.Reimbursements))
	assert.True(t, dec("45400").Equal(b.GrossSalary))
	assert.True(t, dec("43900").Equal(b.NetSalary))
	assert.True(t, dec("1400").Equal(b.Components["Special Allowance"]))
	assert.Len(t, b.Components, 5)
}

func TestAggregator_FormulasEvaluateAfterFixedAndPercentage(t *testing.T) {
	a := newTestAggregator()
	s := scenarioStructure()

	amounts := a.Evaluate(s, NewContext(s))
	require.Len(t, amounts, 5)
	assert.Equal(t, "HRA", amounts[0].Component.Name)
	assert.Equal(t, "Special Allowance", amounts[4].Component.Name)
}

func TestAggregator_DoesNotMutateContext(t *testing.T) {
	a := newTestAggregator()
	s := scenarioStructure()
	ctx := NewContext(s)

	a.Evaluate(s, ctx)

	assert.Nil(t, ctx.HRA)
	assert.Empty(t, ctx.PreviousComponents)
}

func TestAggregator_ContextOverrideWinsOverComponent(t *testing.T) {
	a := newTestAggregator()
	s := scenarioStructure()
	ctx := NewContext(s)
	hra := dec("1000")
	ctx.HRA = &hra

	b := a.Breakdown(s, ctx)
	// special = (1000 + 5000) * 0.1
	assert.True(t, dec("600").Equal(b.Components["Special Allowance"]))
	assert.True(t, dec("9000").Equal(b.Components["HRA"]))
}

func TestAggregator_ShortcutsAgreeWithBreakdown(t *testing.T) {
	a := newTestAggregator()
	s := scenarioStructure()
	ctx := NewContext(s)

	gross := a.GrossSalary(s, ctx)
	deductions := a.Deductions(s, ctx)
	net := a.NetSalary(s, ctx)

	assert.True(t, net.Equal(gross.Sub(deductions)))
	assert.Len(t, a.AllComponentAmounts(s, ctx), 5)
}

func TestAggregator_Validate(t *testing.T) {
	a := newTestAggregator()
	before := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*salary.SalaryStructure)
	}{
		{"zero basic", func(s *salary.SalaryStructure) { s.BasicSalary = decimal.Zero }},
		{"ctc below basic", func(s *salary.SalaryStructure) { s.CTC = dec("29999.99") }},
		{"no components", func(s *salary.SalaryStructure) { s.Components = nil }},
		{"effective until before from", func(s *salary.SalaryStructure) { s.EffectiveUntil = &before }},
		{"effective until equals from", func(s *salary.SalaryStructure) { u := s.EffectiveFrom; s.EffectiveUntil = &u }},
		{"duplicate component", func(s *salary.SalaryStructure) { s.Components = append(s.Components, s.Components[1]) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scenarioStructure()
			tt.mutate(&s)
			err := a.Validate(s)
			assert.True(t, errors.Is(err, salary.ErrInvalidStructure), "got %v", err)
		})
	}

	assert.NoError(t, a.Validate(scenarioStructure()))
}
