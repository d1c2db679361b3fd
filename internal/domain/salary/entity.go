package salary

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ComponentKind enum
type ComponentKind string

const (
	ComponentKindEarning       ComponentKind = "EARNING"
	ComponentKindDeduction     ComponentKind = "DEDUCTION"
	ComponentKindReimbursement ComponentKind = "REIMBURSEMENT"
)

// CalcMethod enum
type CalcMethod string

const (
	CalcMethodFixed      CalcMethod = "FIXED"
	CalcMethodPercentage CalcMethod = "PERCENTAGE"
	CalcMethodFormula    CalcMethod = "FORMULA"
)

// SalaryComponent - one line of a salary structure. Immutable once a
// finalized payroll run references it.
type SalaryComponent struct {
	ID          string
	StructureID string
	Name        string
	Kind        ComponentKind
	CalcMethod  CalcMethod
	Value       decimal.Decimal // amount for FIXED, percent of basic for PERCENTAGE
	Formula     *string
	DependsOn   []string
	Optional    bool
	Position    int
	CreatedAt   time.Time
}

// SalaryStructure - an employee's compensation definition. Superseded, never
// mutated, when pay changes.
type SalaryStructure struct {
	ID             string
	EmployeeID     string
	BasicSalary    decimal.Decimal
	CTC            decimal.Decimal
	EffectiveFrom  time.Time
	EffectiveUntil *time.Time
	Components     []SalaryComponent
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Formula variable names.
const (
	VarBasic      = "Basic"
	VarHRA        = "HRA"
	VarDA         = "DA"
	VarConveyance = "Conveyance"
	VarMedical    = "Medical"
	VarOther      = "Other"
)

// CalculationContext - input to every component evaluation for one pass.
// Not persisted.
type CalculationContext struct {
	BasicSalary        decimal.Decimal
	HRA                *decimal.Decimal
	Dearness           *decimal.Decimal
	Conveyance         *decimal.Decimal
	Medical            *decimal.Decimal
	Other              *decimal.Decimal
	PreviousComponents map[string]decimal.Decimal
}

// Variables returns the formula variable bindings; absent values bind to 0.
func (c CalculationContext) Variables() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		VarBasic:      c.BasicSalary,
		VarHRA:        valueOrZero(c.HRA),
		VarDA:         valueOrZero(c.Dearness),
		VarConveyance: valueOrZero(c.Conveyance),
		VarMedical:    valueOrZero(c.Medical),
		VarOther:      valueOrZero(c.Other),
	}
}

// Bind records a component amount in PreviousComponents and fills the
// context slot its name maps to, if any. Slots already set (by the caller's
// overrides or an earlier component) are left alone.
func (c *CalculationContext) Bind(name string, amount decimal.Decimal) {
	if c.PreviousComponents == nil {
		c.PreviousComponents = make(map[string]decimal.Decimal)
	}
	c.PreviousComponents[name] = amount

	var slot **decimal.Decimal
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hra", "house rent allowance":
		slot = &c.HRA
	case "da", "dearness", "dearness allowance":
		slot = &c.Dearness
	case "conveyance", "conveyance allowance":
		slot = &c.Conveyance
	case "medical", "medical allowance":
		slot = &c.Medical
	default:
		return
	}
	if *slot == nil {
		v := amount
		*slot = &v
	}
}

// Clone returns a copy whose PreviousComponents can be mutated independently.
func (c CalculationContext) Clone() CalculationContext {
	prev := make(map[string]decimal.Decimal, len(c.PreviousComponents))
	for k, v := range c.PreviousComponents {
		prev[k] = v
	}
	c.PreviousComponents = prev
	return c
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
