package salary

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ContextOverrides struct {
	BasicSalary *decimal.Decimal `json:"basic_salary,omitempty"`
	HRA         *decimal.Decimal `json:"hra,omitempty"`
	Dearness    *decimal.Decimal `json:"dearness,omitempty"`
	Conveyance  *decimal.Decimal `json:"conveyance,omitempty"`
	Medical     *decimal.Decimal `json:"medical,omitempty"`
	Other       *decimal.Decimal `json:"other,omitempty"`
}

type CalculateSalaryRequest struct {
	StructureID string           `json:"-"`
	Overrides   ContextOverrides `json:"overrides"`
}

func (r *CalculateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StructureID) {
		errs = append(errs, validator.ValidationError{Field: "structure_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.StructureID) {
		errs = append(errs, validator.ValidationError{Field: "structure_id", Message: "must be a valid UUID"})
	}
	o := r.Overrides
	if o.BasicSalary != nil && !o.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "overrides.basic_salary", Message: "must be greater than 0"})
	}
	for field, v := range map[string]*decimal.Decimal{
		"overrides.hra":        o.HRA,
		"overrides.dearness":   o.Dearness,
		"overrides.conveyance": o.Conveyance,
		"overrides.medical":    o.Medical,
		"overrides.other":      o.Other,
	} {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SalaryBreakdown is the result of one aggregation pass.
type SalaryBreakdown struct {
	BasicSalary    decimal.Decimal            `json:"basic_salary"`
	Earnings       decimal.Decimal            `json:"earnings"`
	Deductions     decimal.Decimal            `json:"deductions"`
	Reimbursements decimal.Decimal            `json:"reimbursements"`
	GrossSalary    decimal.Decimal            `json:"gross_salary"`
	NetSalary      decimal.Decimal            `json:"net_salary"`
	Components     map[string]decimal.Decimal `json:"components"`
}
