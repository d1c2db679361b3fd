package salary

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/formula"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Evaluator computes the amount of a single salary component.
type Evaluator struct {
	logger  *zap.Logger
	metrics *metrics.PayrollMetrics
}

func NewEvaluator(logger *zap.Logger, m *metrics.PayrollMetrics) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger, metrics: m}
}

// Evaluate never fails. A formula that cannot be parsed or evaluated yields
// zero and is logged, so one bad component cannot stop a payroll cycle.
func (e *Evaluator) Evaluate(component salary.SalaryComponent, ctx salary.CalculationContext) decimal.Decimal {
	switch component.CalcMethod {
	case salary.CalcMethodFixed:
		return money.Round2(component.Value)
	case salary.CalcMethodPercentage:
		return money.Percent(component.Value, ctx.BasicSalary)
	case salary.CalcMethodFormula:
		return e.evaluateFormula(component, ctx)
	default:
		e.logger.Warn("unknown calculation method, component evaluates to zero",
			zap.String("component", component.Name),
			zap.String("calc_method", string(component.CalcMethod)),
		)
		return decimal.Zero
	}
}

func (e *Evaluator) evaluateFormula(component salary.SalaryComponent, ctx salary.CalculationContext) decimal.Decimal {
	expr := ""
	if component.Formula != nil {
		expr = *component.Formula
	}

	amount, err := formula.Evaluate(expr, ctx.Variables())
	if err != nil {
		e.metrics.FormulaFailure()
		e.logger.Warn("formula evaluation failed, component evaluates to zero",
			zap.String("component_id", component.ID),
			zap.String("component", component.Name),
			zap.String("formula", expr),
			zap.Error(err),
		)
		return decimal.Zero
	}
	return money.Round2(amount)
}
