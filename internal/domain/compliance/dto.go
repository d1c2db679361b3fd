package compliance

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CalculateDeductionsRequest struct {
	GrossSalary decimal.Decimal `json:"gross_salary"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	EmployeeID  string          `json:"employee_id"`
}

func (r *CalculateDeductionsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.GrossSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "gross_salary", Message: "must be non-negative"})
	}
	if r.BasicSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be non-negative"})
	}
	if r.BasicSalary.GreaterThan(r.GrossSalary) {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must not exceed gross_salary"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeductionsResponse struct {
	EmployeeID string          `json:"employee_id,omitempty"`
	PF         decimal.Decimal `json:"PF"`
	ESI        decimal.Decimal `json:"ESI"`
	PT         decimal.Decimal `json:"PT"`
	TDS        decimal.Decimal `json:"TDS"`
	Total      decimal.Decimal `json:"total"`
}

type TaxProjectionRequest struct {
	MonthlyGross decimal.Decimal            `json:"monthly_gross"`
	Exemptions   map[string]decimal.Decimal `json:"exemptions,omitempty"` // {"80C": 150000}
}

func (r *TaxProjectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.MonthlyGross.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "monthly_gross", Message: "must be non-negative"})
	}
	for section, amount := range r.Exemptions {
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "exemptions." + section, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
