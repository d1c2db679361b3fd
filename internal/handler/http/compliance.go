package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type ComplianceHandler interface {
	CalculateDeductions(w http.ResponseWriter, r *http.Request)
	ProjectTax(w http.ResponseWriter, r *http.Request)
}

type complianceHandlerImpl struct {
	complianceService compliance.ComplianceService
}

func NewComplianceHandler(complianceService compliance.ComplianceService) ComplianceHandler {
	return &complianceHandlerImpl{complianceService: complianceService}
}

func (h *complianceHandlerImpl) CalculateDeductions(w http.ResponseWriter, r *http.Request) {
	var req compliance.CalculateDeductionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.complianceService.CalculateDeductions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *complianceHandlerImpl) ProjectTax(w http.ResponseWriter, r *http.Request) {
	var req compliance.TaxProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.complianceService.ProjectTax(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
