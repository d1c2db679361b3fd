package compliance

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Calculator is a statutory deduction rule. Implementations are pure and
// safe for concurrent use.
type Calculator interface {
	Calculate(grossSalary, basicSalary decimal.Decimal) decimal.Decimal
	Name() string
}

// PFCalculator withholds provident fund on gross capped at the monthly
// ceiling. Basic salary is not used.
type PFCalculator struct {
	rate       decimal.Decimal
	monthlyCap decimal.Decimal
}

func NewPFCalculator(cfg config.PFConfig) *PFCalculator {
	return &PFCalculator{
		rate:       decimal.NewFromFloat(cfg.Rate),
		monthlyCap: money.Monthly(decimal.NewFromFloat(cfg.AnnualCeiling)),
	}
}

func (c *PFCalculator) Calculate(grossSalary, _ decimal.Decimal) decimal.Decimal {
	return money.Round2(money.Min(grossSalary, c.monthlyCap).Mul(c.rate))
}

func (c *PFCalculator) Name() string { return "Provident Fund" }

// ESICalculator applies a flat rate up to the gross threshold and nothing
// above it.
type ESICalculator struct {
	rate      decimal.Decimal
	threshold decimal.Decimal
}

func NewESICalculator(cfg config.ESIConfig) *ESICalculator {
	return &ESICalculator{
		rate:      decimal.NewFromFloat(cfg.Rate),
		threshold: decimal.NewFromFloat(cfg.GrossThreshold),
	}
}

func (c *ESICalculator) Calculate(grossSalary, _ decimal.Decimal) decimal.Decimal {
	if grossSalary.GreaterThan(c.threshold) {
		return decimal.Zero
	}
	return money.Round2(grossSalary.Mul(c.rate))
}

func (c *ESICalculator) Name() string { return "Employee State Insurance" }

type ptSlab struct {
	upTo   *decimal.Decimal
	amount decimal.Decimal
}

// PTCalculator charges the amount of the first slab whose bound is >= gross.
type PTCalculator struct {
	slabs []ptSlab
}

func NewPTCalculator(cfg config.PTConfig) *PTCalculator {
	slabs := make([]ptSlab, 0, len(cfg.Slabs))
	for _, s := range cfg.Slabs {
		slab := ptSlab{amount: decimal.NewFromFloat(s.Amount)}
		if s.UpTo != nil {
			upTo := decimal.NewFromFloat(*s.UpTo)
			slab.upTo = &upTo
		}
		slabs = append(slabs, slab)
	}
	return &PTCalculator{slabs: slabs}
}

func (c *PTCalculator) Calculate(grossSalary, _ decimal.Decimal) decimal.Decimal {
	for _, s := range c.slabs {
		if s.upTo == nil || grossSalary.LessThanOrEqual(*s.upTo) {
			return money.Round2(s.amount)
		}
	}
	return decimal.Zero
}

func (c *PTCalculator) Name() string { return "Professional Tax" }

// TDSCalculator withholds one twelfth of the annual slab tax on the
// annualized gross less the standard deduction.
type TDSCalculator struct {
	standardDeduction decimal.Decimal
	slabs             []taxSlab
}

func NewTDSCalculator(cfg config.TDSConfig) *TDSCalculator {
	return &TDSCalculator{
		standardDeduction: decimal.NewFromFloat(cfg.StandardDeduction),
		slabs:             newTaxSlabs(cfg.Slabs),
	}
}

func (c *TDSCalculator) Calculate(grossSalary, _ decimal.Decimal) decimal.Decimal {
	taxable := money.Annualize(grossSalary).Sub(c.standardDeduction)
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	return money.Monthly(marginalTax(taxable, c.slabs))
}

func (c *TDSCalculator) Name() string { return "Tax Deducted at Source" }
