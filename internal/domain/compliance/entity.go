package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the registry key of a statutory deduction calculator.
type Type string

const (
	TypePF  Type = "PF"
	TypeESI Type = "ESI"
	TypePT  Type = "PT"
	TypeTDS Type = "TDS"
)

// AllTypes lists the deductions every payroll run carries, in filing order.
var AllTypes = []Type{TypePF, TypeESI, TypePT, TypeTDS}

// Result - statutory deductions produced by one calculation.
type Result map[Type]decimal.Decimal

// Amount returns the deduction for t, zero when absent.
func (r Result) Amount(t Type) decimal.Decimal {
	if v, ok := r[t]; ok {
		return v
	}
	return decimal.Zero
}

// Record - a statutory deduction filed for a locked payroll run.
type Record struct {
	ID           string
	EmployeeID   string
	PayrollRunID string
	Type         Type
	Amount       decimal.Decimal
	PeriodMonth  int
	PeriodYear   int
	CreatedAt    time.Time
}

// TaxProjection - annual tax liability derived from a monthly salary.
type TaxProjection struct {
	MonthlyGross      decimal.Decimal            `json:"monthly_gross"`
	AnnualGross       decimal.Decimal            `json:"annual_gross"`
	StandardDeduction decimal.Decimal            `json:"standard_deduction"`
	Exemptions        map[string]decimal.Decimal `json:"exemptions"`
	TotalExemptions   decimal.Decimal            `json:"total_exemptions"`
	TaxableIncome     decimal.Decimal            `json:"taxable_income"`
	SlabTax           decimal.Decimal            `json:"slab_tax"`
	Surcharge         decimal.Decimal            `json:"surcharge"`
	Cess              decimal.Decimal            `json:"cess"`
	AnnualTax         decimal.Decimal            `json:"annual_tax"`
	MonthlyTax        decimal.Decimal            `json:"monthly_tax"`
}
