package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrPayrollRunNotFound      = errors.New("payroll run not found")
	ErrPayrollLocked           = errors.New("payroll run is locked and cannot be modified")
	ErrPayrollAlreadyProcessed = errors.New("payroll run already processed for this period, reject it before re-running")
	ErrPayrollNotProcessed     = errors.New("only processed payroll runs can be locked")
	ErrPayrollAlreadyRejected  = errors.New("payroll run already rejected")
	ErrPayrollRunConflict      = errors.New("payroll run for this period is being written concurrently")
	ErrPayrollStatusChanged    = errors.New("payroll run status changed concurrently")
	ErrNoEligibleEmployees     = errors.New("no eligible employees for payroll")
	ErrArithmeticInconsistency = errors.New("payroll arithmetic inconsistency")
)

// Error codes reported per employee in a batch and in HTTP error bodies.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeNotFound                = "NOT_FOUND"
	CodePayrollLocked           = "PAYROLL_LOCKED"
	CodePayrollAlreadyProcessed = "PAYROLL_ALREADY_PROCESSED"
	CodeUnsupportedCompliance   = "UNSUPPORTED_COMPLIANCE_TYPE"
	CodeArithmetic              = "ARITHMETIC_INCONSISTENCY"
	CodeConflict                = "CONFLICT"
	CodeInternal                = "INTERNAL_ERROR"
)

// ArithmeticError reports a failed cross-check between independently
// rounded payroll figures.
type ArithmeticError struct {
	Field    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected.StringFixed(2), e.Actual.StringFixed(2))
}

func (e *ArithmeticError) Unwrap() error {
	return ErrArithmeticInconsistency
}
