package salary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// ComponentAmount is one evaluated component.
type ComponentAmount struct {
	Component salary.SalaryComponent
	Amount    decimal.Decimal
}

// Aggregator composes component amounts into gross, deductions and net.
type Aggregator struct {
	evaluator *Evaluator
}

func NewAggregator(evaluator *Evaluator) *Aggregator {
	return &Aggregator{evaluator: evaluator}
}

// NewContext seeds a calculation context from the structure's basic salary.
func NewContext(structure salary.SalaryStructure) salary.CalculationContext {
	return salary.CalculationContext{
		BasicSalary:        structure.BasicSalary,
		PreviousComponents: make(map[string]decimal.Decimal),
	}
}

// Validate checks the structure invariants every calculation relies on.
func (a *Aggregator) Validate(structure salary.SalaryStructure) error {
	switch {
	case !structure.BasicSalary.IsPositive():
		return fmt.Errorf("%w: basic salary must be greater than 0", salary.ErrInvalidStructure)
	case structure.CTC.LessThan(structure.BasicSalary):
		return fmt.Errorf("%w: ctc %s is less than basic salary %s",
			salary.ErrInvalidStructure, structure.CTC.StringFixed(2), structure.BasicSalary.StringFixed(2))
	case len(structure.Components) == 0:
		return fmt.Errorf("%w: structure has no components", salary.ErrInvalidStructure)
	case structure.EffectiveUntil != nil && !structure.EffectiveUntil.After(structure.EffectiveFrom):
		return fmt.Errorf("%w: effective until must be after effective from", salary.ErrInvalidStructure)
	}

	seen := make(map[string]struct{}, len(structure.Components))
	for _, c := range structure.Components {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			return fmt.Errorf("%w: component name is required", salary.ErrInvalidStructure)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate component %q", salary.ErrInvalidStructure, c.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Evaluate computes every component. FIXED and PERCENTAGE components are
// evaluated before FORMULA components so formulas can see them; each group
// keeps its declared order. The returned slice is in evaluation order. ctx is
// not modified.
func (a *Aggregator) Evaluate(structure salary.SalaryStructure, ctx salary.CalculationContext) []ComponentAmount {
	components := make([]salary.SalaryComponent, len(structure.Components))
	copy(components, structure.Components)
	sort.SliceStable(components, func(i, j int) bool {
		fi := components[i].CalcMethod == salary.CalcMethodFormula
		fj := components[j].CalcMethod == salary.CalcMethodFormula
		if fi != fj {
			return !fi
		}
		return components[i].Position < components[j].Position
	})

	local := ctx.Clone()
	amounts := make([]ComponentAmount, 0, len(components))
	for _, c := range components {
		amount := a.evaluator.Evaluate(c, local)
		local.Bind(c.Name, amount)
		amounts = append(amounts, ComponentAmount{Component: c, Amount: amount})
	}
	return amounts
}

// Breakdown aggregates one evaluation pass.
func (a *Aggregator) Breakdown(structure salary.SalaryStructure, ctx salary.CalculationContext) salary.SalaryBreakdown {
	return Summarize(ctx.BasicSalary, a.Evaluate(structure, ctx))
}

// Summarize folds evaluated components into totals. Reimbursements are
// reported but excluded from gross and net.
func Summarize(basic decimal.Decimal, amounts []ComponentAmount) salary.SalaryBreakdown {
	b := salary.SalaryBreakdown{
		BasicSalary:    money.Round2(basic),
		Earnings:       decimal.Zero,
		Deductions:     decimal.Zero,
		Reimbursements: decimal.Zero,
		Components:     make(map[string]decimal.Decimal, len(amounts)),
	}
	for _, ca := range amounts {
		b.Components[ca.Component.Name] = ca.Amount
		switch ca.Component.Kind {
		case salary.ComponentKindEarning:
			b.Earnings = b.Earnings.Add(ca.Amount)
		case salary.ComponentKindDeduction:
			b.Deductions = b.Deductions.Add(ca.Amount)
		case salary.ComponentKindReimbursement:
			b.Reimbursements = b.Reimbursements.Add(ca.Amount)
		}
	}
	b.GrossSalary = b.BasicSalary.Add(b.Earnings)
	b.NetSalary = b.GrossSalary.Sub(b.Deductions)
	return b
}

func (a *Aggregator) GrossSalary(structure salary.SalaryStructure, ctx salary.CalculationContext) decimal.Decimal {
	return a.Breakdown(structure, ctx).GrossSalary
}

func (a *Aggregator) Deductions(structure salary.SalaryStructure, ctx salary.CalculationContext) decimal.Decimal {
	return a.Breakdown(structure, ctx).Deductions
}

func (a *Aggregator) NetSalary(structure salary.SalaryStructure, ctx salary.CalculationContext) decimal.Decimal {
	return a.Breakdown(structure, ctx).NetSalary
}

// AllComponentAmounts maps component name to amount.
func (a *Aggregator) AllComponentAmounts(structure salary.SalaryStructure, ctx salary.CalculationContext) map[string]decimal.Decimal {
	return a.Breakdown(structure, ctx).Components
}
