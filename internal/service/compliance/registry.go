package compliance

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/shopspring/decimal"
)

// Registry resolves calculators by type code. It is built once at startup
// and read-only afterwards.
type Registry struct {
	calculators map[compliance.Type]Calculator
}

func NewRegistry() *Registry {
	return &Registry{calculators: make(map[compliance.Type]Calculator)}
}

// NewDefaultRegistry registers PF, ESI, PT and TDS from the rule set.
func NewDefaultRegistry(cfg config.ComplianceConfig) *Registry {
	r := NewRegistry()
	r.Register(compliance.TypePF, NewPFCalculator(cfg.PF))
	r.Register(compliance.TypeESI, NewESICalculator(cfg.ESI))
	r.Register(compliance.TypePT, NewPTCalculator(cfg.PT))
	r.Register(compliance.TypeTDS, NewTDSCalculator(cfg.TDS))
	return r
}

func (r *Registry) Register(t compliance.Type, c Calculator) {
	r.calculators[t] = c
}

func (r *Registry) Get(t compliance.Type) (Calculator, error) {
	c, ok := r.calculators[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", compliance.ErrUnsupportedComplianceType, t)
	}
	return c, nil
}

// Calculate runs the calculators for types. Any unknown type fails the whole
// calculation.
func (r *Registry) Calculate(types []compliance.Type, grossSalary, basicSalary decimal.Decimal) (compliance.Result, error) {
	result := make(compliance.Result, len(types))
	for _, t := range types {
		c, err := r.Get(t)
		if err != nil {
			return nil, err
		}
		result[t] = c.Calculate(grossSalary, basicSalary)
	}
	return result, nil
}

// CalculateAll runs PF, ESI, PT and TDS.
func (r *Registry) CalculateAll(grossSalary, basicSalary decimal.Decimal) (compliance.Result, error) {
	return r.Calculate(compliance.AllTypes, grossSalary, basicSalary)
}
