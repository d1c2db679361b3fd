package compliance

import "context"

type ComplianceService interface {
	// CalculateDeductions previews PF/ESI/PT/TDS for a gross/basic pair.
	CalculateDeductions(ctx context.Context, req CalculateDeductionsRequest) (DeductionsResponse, error)
	ProjectTax(ctx context.Context, req TaxProjectionRequest) (TaxProjection, error)
}
