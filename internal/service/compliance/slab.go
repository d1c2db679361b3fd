package compliance

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/shopspring/decimal"
)

type taxSlab struct {
	upTo *decimal.Decimal // nil: open-ended
	rate decimal.Decimal
}

func newTaxSlabs(cfg []config.TaxSlab) []taxSlab {
	slabs := make([]taxSlab, 0, len(cfg))
	for _, s := range cfg {
		slab := taxSlab{rate: decimal.NewFromFloat(s.Rate)}
		if s.UpTo != nil {
			upTo := decimal.NewFromFloat(*s.UpTo)
			slab.upTo = &upTo
		}
		slabs = append(slabs, slab)
	}
	return slabs
}

// marginalTax taxes each bracket's share of income at that bracket's rate.
// The result is not rounded.
func marginalTax(income decimal.Decimal, slabs []taxSlab) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero
	for _, s := range slabs {
		if !income.GreaterThan(lower) {
			break
		}
		upper := income
		if s.upTo != nil && s.upTo.LessThan(income) {
			upper = *s.upTo
		}
		tax = tax.Add(upper.Sub(lower).Mul(s.rate))
		if s.upTo == nil {
			break
		}
		lower = *s.upTo
	}
	return tax
}
