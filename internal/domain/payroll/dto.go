package payroll

import (
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PROCESS DTOs ==========

type ProcessPayrollRequest struct {
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all employees with an active structure
}

func (r *ProcessPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	seen := make(map[string]struct{}, len(r.EmployeeIDs))
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain empty ids"})
			break
		}
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must contain valid UUIDs"})
			break
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain duplicates"})
			break
		}
		seen[id] = struct{}{}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EmployeeResult - outcome for one employee inside a batch
type EmployeeResult struct {
	EmployeeID string           `json:"employee_id"`
	Success    bool             `json:"success"`
	PayrollID  *string          `json:"payroll_id,omitempty"`
	NetSalary  *decimal.Decimal `json:"net_salary,omitempty"`
	ErrorCode  string           `json:"error_code,omitempty"`
	Error      string           `json:"error,omitempty"`
}

type BatchResult struct {
	RunID          string           `json:"run_id"`
	Month          int              `json:"month"`
	Year           int              `json:"year"`
	ProcessedCount int              `json:"processed_count"`
	FailureCount   int              `json:"failure_count"`
	Details        []EmployeeResult `json:"details"`
}

// ========== STATUS DTOs ==========

type RejectPayrollRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	} else if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	} else if len(strings.TrimSpace(r.Reason)) > 500 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "must be at most 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeePayrollRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *EmployeePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== READ DTOs ==========

type LineItemResponse struct {
	ComponentName string          `json:"component_name"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
}

type PayrollRunResponse struct {
	ID                string             `json:"id"`
	BatchID           string             `json:"batch_id"`
	EmployeeID        string             `json:"employee_id"`
	SalaryStructureID string             `json:"salary_structure_id"`
	PeriodMonth       int                `json:"period_month"`
	PeriodYear        int                `json:"period_year"`
	Status            string             `json:"status"`
	BasicSalary       decimal.Decimal    `json:"basic_salary"`
	Earnings          decimal.Decimal    `json:"earnings"`
	Deductions        decimal.Decimal    `json:"deductions"`
	GrossSalary       decimal.Decimal    `json:"gross_salary"`
	NetSalary         decimal.Decimal    `json:"net_salary"`
	PFDeduction       decimal.Decimal    `json:"pf_deduction"`
	ESIDeduction      decimal.Decimal    `json:"esi_deduction"`
	PTDeduction       decimal.Decimal    `json:"pt_deduction"`
	TDSDeduction      decimal.Decimal    `json:"tds_deduction"`
	WorkingDays       int                `json:"working_days"`
	DaysWorked        decimal.Decimal    `json:"days_worked"`
	DaysPresent       decimal.Decimal    `json:"days_present"`
	DaysAbsent        decimal.Decimal    `json:"days_absent"`
	DaysLeave         decimal.Decimal    `json:"days_leave"`
	ProcessedAt       *string            `json:"processed_at,omitempty"`
	LockedAt          *string            `json:"locked_at,omitempty"`
	RejectedAt        *string            `json:"rejected_at,omitempty"`
	RejectionReason   *string            `json:"rejection_reason,omitempty"`
	Components        []LineItemResponse `json:"components,omitempty"`
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	BatchID     *string `json:"batch_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.PeriodMonth != nil && !validator.IsValidMonth(*f.PeriodMonth) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if f.PeriodYear != nil && !validator.IsValidPayrollYear(*f.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2100"})
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if f.BatchID != nil && !validator.IsValidUUID(*f.BatchID) {
		errs = append(errs, validator.ValidationError{Field: "batch_id", Message: "must be a valid UUID"})
	}
	if f.Status != nil && !PayrollStatus(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of DRAFT, PROCESSING, PROCESSED, LOCKED, REJECTED"})
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"created_at", "net_salary", "gross_salary", "period"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "must be one of created_at, net_salary, gross_salary, period"})
	}
	if f.SortOrder != "" && !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "must be asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateID checks a payroll run id taken from the URL.
func ValidateID(id string) error {
	if validator.IsEmpty(id) {
		return validator.ValidationErrors{{Field: "id", Message: "is required"}}
	}
	if !validator.IsValidUUID(id) {
		return validator.ValidationErrors{{Field: "id", Message: "must be a valid UUID"}}
	}
	return nil
}

// Normalize applies paging defaults.
func (f *PayrollFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.SortBy == "" {
		f.SortBy = "created_at"
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
}

type ListPayrollRunResponse struct {
	Data       []PayrollRunResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	TotalEmployees   int             `json:"total_employees"`
	TotalBasicSalary decimal.Decimal `json:"total_basic_salary"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	TotalPF          decimal.Decimal `json:"total_pf"`
	TotalESI         decimal.Decimal `json:"total_esi"`
	TotalPT          decimal.Decimal `json:"total_pt"`
	TotalTDS         decimal.Decimal `json:"total_tds"`
	DraftCount       int             `json:"draft_count"`
	ProcessedCount   int             `json:"processed_count"`
	LockedCount      int             `json:"locked_count"`
	RejectedCount    int             `json:"rejected_count"`
}
