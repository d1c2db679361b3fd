package compliance

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/money"
)

type ComplianceServiceImpl struct {
	registry  *Registry
	projector *Projector
}

func NewComplianceService(registry *Registry, projector *Projector) compliance.ComplianceService {
	return &ComplianceServiceImpl{
		registry:  registry,
		projector: projector,
	}
}

func (s *ComplianceServiceImpl) CalculateDeductions(ctx context.Context, req compliance.CalculateDeductionsRequest) (compliance.DeductionsResponse, error) {
	if err := req.Validate(); err != nil {
		return compliance.DeductionsResponse{}, err
	}

	result, err := s.registry.CalculateAll(req.GrossSalary, req.BasicSalary)
	if err != nil {
		return compliance.DeductionsResponse{}, err
	}

	return compliance.DeductionsResponse{
		EmployeeID: req.EmployeeID,
		PF:         result.Amount(compliance.TypePF),
		ESI:        result.Amount(compliance.TypeESI),
		PT:         result.Amount(compliance.TypePT),
		TDS:        result.Amount(compliance.TypeTDS),
		Total: money.Sum(
			result.Amount(compliance.TypePF),
			result.Amount(compliance.TypeESI),
			result.Amount(compliance.TypePT),
			result.Amount(compliance.TypeTDS),
		),
	}, nil
}

func (s *ComplianceServiceImpl) ProjectTax(ctx context.Context, req compliance.TaxProjectionRequest) (compliance.TaxProjection, error) {
	if err := req.Validate(); err != nil {
		return compliance.TaxProjection{}, err
	}
	return s.projector.Project(req.MonthlyGross, req.Exemptions)
}
