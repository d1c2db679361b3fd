package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrNoEligibleEmployees):
		NotFound(w, "No eligible employees for this period")
	case errors.Is(err, payroll.ErrPayrollLocked):
		ErrorWithCode(w, http.StatusConflict, payroll.CodePayrollLocked, "Payroll run is locked")
	case errors.Is(err, payroll.ErrPayrollAlreadyProcessed):
		ErrorWithCode(w, http.StatusConflict, payroll.CodePayrollAlreadyProcessed, err.Error())
	case errors.Is(err, payroll.ErrPayrollNotProcessed),
		errors.Is(err, payroll.ErrPayrollAlreadyRejected):
		ErrorWithCode(w, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, payroll.ErrPayrollRunConflict),
		errors.Is(err, payroll.ErrPayrollStatusChanged):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrArithmeticInconsistency):
		ErrorWithCode(w, http.StatusInternalServerError, payroll.CodeArithmetic, err.Error())

	// Salary domain errors
	case errors.Is(err, salary.ErrSalaryStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, salary.ErrNoActiveSalaryStructure):
		NotFound(w, "Employee has no active salary structure")
	case errors.Is(err, salary.ErrInvalidStructure):
		ValidationError(w, map[string]string{"structure": err.Error()})

	// Compliance domain errors
	case errors.Is(err, compliance.ErrUnknownExemptionSection):
		ValidationError(w, map[string]string{"exemptions": err.Error()})
	case errors.Is(err, compliance.ErrUnsupportedComplianceType):
		ErrorWithCode(w, http.StatusInternalServerError, payroll.CodeUnsupportedCompliance, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidWorkingDays):
		ValidationError(w, map[string]string{"working_days": err.Error()})

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
