package salary

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
)

type SalaryServiceImpl struct {
	structureRepo salary.SalaryStructureRepository
	aggregator    *Aggregator
}

func NewSalaryService(structureRepo salary.SalaryStructureRepository, aggregator *Aggregator) salary.SalaryService {
	return &SalaryServiceImpl{
		structureRepo: structureRepo,
		aggregator:    aggregator,
	}
}

func (s *SalaryServiceImpl) CalculateSalary(ctx context.Context, req salary.CalculateSalaryRequest) (salary.SalaryBreakdown, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryBreakdown{}, err
	}

	structure, err := s.structureRepo.GetByID(ctx, req.StructureID)
	if err != nil {
		return salary.SalaryBreakdown{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	o := req.Overrides
	if o.BasicSalary != nil {
		structure.BasicSalary = *o.BasicSalary
	}
	if err := s.aggregator.Validate(structure); err != nil {
		return salary.SalaryBreakdown{}, err
	}

	calcCtx := NewContext(structure)
	calcCtx.HRA = o.HRA
	calcCtx.Dearness = o.Dearness
	calcCtx.Conveyance = o.Conveyance
	calcCtx.Medical = o.Medical
	calcCtx.Other = o.Other

	return s.aggregator.Breakdown(structure, calcCtx), nil
}
