package compliance

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

type surcharge struct {
	above decimal.Decimal
	rate  decimal.Decimal
}

// Projector annualizes a monthly salary into a full tax liability with
// exemptions, surcharge and cess.
type Projector struct {
	standardDeduction decimal.Decimal
	slabs             []taxSlab
	cessRate          decimal.Decimal
	surcharges        []surcharge
	exemptionCaps     map[string]decimal.Decimal
}

func NewProjector(tds config.TDSConfig, projection config.ProjectionConfig) *Projector {
	p := &Projector{
		standardDeduction: decimal.NewFromFloat(tds.StandardDeduction),
		slabs:             newTaxSlabs(tds.Slabs),
		cessRate:          decimal.NewFromFloat(projection.CessRate),
		exemptionCaps:     make(map[string]decimal.Decimal, len(projection.ExemptionCaps)),
	}
	for _, s := range projection.Surcharges {
		p.surcharges = append(p.surcharges, surcharge{
			above: decimal.NewFromFloat(s.Above),
			rate:  decimal.NewFromFloat(s.Rate),
		})
	}
	for section, limit := range projection.ExemptionCaps {
		p.exemptionCaps[config.NormalizeSection(section)] = decimal.NewFromFloat(limit)
	}
	return p
}

// Project computes the annual and monthly liability. Each exemption is
// capped at its section limit; unknown sections are rejected.
func (p *Projector) Project(monthlyGross decimal.Decimal, exemptions map[string]decimal.Decimal) (compliance.TaxProjection, error) {
	claimed := make(map[string]decimal.Decimal, len(exemptions))
	for section, amount := range exemptions {
		key := config.NormalizeSection(section)
		if _, ok := p.exemptionCaps[key]; !ok {
			return compliance.TaxProjection{}, fmt.Errorf("%w: %q", compliance.ErrUnknownExemptionSection, section)
		}
		claimed[key] = claimed[key].Add(amount)
	}

	applied := make(map[string]decimal.Decimal, len(claimed))
	totalExemptions := decimal.Zero
	for section, amount := range claimed {
		a := money.Round2(money.Min(amount, p.exemptionCaps[section]))
		applied[section] = a
		totalExemptions = totalExemptions.Add(a)
	}

	annualGross := money.Round2(money.Annualize(monthlyGross))
	taxable := annualGross.Sub(p.standardDeduction).Sub(totalExemptions)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	slabTax := money.Round2(marginalTax(taxable, p.slabs))

	surchargeRate := decimal.Zero
	for _, s := range p.surcharges {
		if taxable.GreaterThan(s.above) {
			surchargeRate = s.rate
		}
	}
	surchargeAmount := money.Round2(slabTax.Mul(surchargeRate))
	cess := money.Round2(slabTax.Add(surchargeAmount).Mul(p.cessRate))
	annualTax := slabTax.Add(surchargeAmount).Add(cess)

	return compliance.TaxProjection{
		MonthlyGross:      money.Round2(monthlyGross),
		AnnualGross:       annualGross,
		StandardDeduction: p.standardDeduction,
		Exemptions:        applied,
		TotalExemptions:   totalExemptions,
		TaxableIncome:     taxable,
		SlabTax:           slabTax,
		Surcharge:         surchargeAmount,
		Cess:              cess,
		AnnualTax:         annualTax,
		MonthlyTax:        money.Monthly(annualTax),
	}, nil
}
