package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/validation"
)

// PricingHandler handles HTTP requests for company rental pricing.
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new PricingHandler with the provided service dependency.
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// ManualTotalResponse is the outcome of a manual total together with input warnings.
type ManualTotalResponse struct {
	model.ManualTotalResult
	Warnings map[string]string `json:"warnings,omitempty"`
}

// Companies handles GET requests to list pricing companies.
//
// Endpoint: GET /api/pricing
// Response: 200 OK with array of PricingCompany
// Error: 500 Internal Server Error if retrieval fails
func (h *PricingHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.pricingService.GetCompanies(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePricing.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, companies)
}

// CompanyPricing handles GET requests for a company's size groups and aggregate value.
//
// Endpoint: GET /api/pricing/{uuid}
// Response: 200 OK with CompanyPricing
// Error: 404 Not Found if company not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PricingHandler) CompanyPricing(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "uuid")

	pricing, err := h.pricingService.GetCompanyPricing(r.Context(), companyID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePricing)
		return
	}

	response.RespondJSON(w, http.StatusOK, pricing)
}

// ApplyManualTotal handles POST requests to spread a target total over a company's
// size groups proportionally to their current value.
//
// Endpoint: POST /api/pricing/{uuid}/total
// Request Body: ManualTotalRequest {targetTotal}
// Response: 200 OK with ManualTotalResponse
// Error: 400 Bad Request if the target is not positive or the company has no units
// Error: 404 Not Found if company not found
// Error: 500 Internal Server Error if the update fails
func (h *PricingHandler) ApplyManualTotal(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ManualTotalRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateManualTotal(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.pricingService.ApplyManualTotal(r.Context(), companyID, req.TargetTotal.Value)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApplyTotal)
		return
	}

	response.RespondJSON(w, http.StatusOK, ManualTotalResponse{
		ManualTotalResult: result,
		Warnings:          request.Warnings(map[string]request.FlexNumber{"targetTotal": req.TargetTotal}),
	})
}
