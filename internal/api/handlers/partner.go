package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/validation"
)

// PartnerHandler handles HTTP requests for partner endpoints.
type PartnerHandler struct {
	partnerService *service.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler with the provided service dependency.
func NewPartnerHandler(partnerService *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// Partners handles GET requests to list all partners, ordered by name.
//
// Endpoint: GET /api/partner
// Response: 200 OK with array of PartnerView
// Error: 500 Internal Server Error if retrieval fails
func (h *PartnerHandler) Partners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.partnerService.GetPartners(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePartners.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, partners)
}

// GetPartner handles GET requests to retrieve a single partner.
//
// Endpoint: GET /api/partner/{uuid}
// Response: 200 OK with PartnerView
// Error: 404 Not Found if partner not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PartnerHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "uuid")

	partner, err := h.partnerService.GetPartner(r.Context(), partnerID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePartner)
		return
	}

	response.RespondJSON(w, http.StatusOK, partner)
}

// CreatePartner handles POST requests to register a partner.
//
// Endpoint: POST /api/partner
// Request Body: CreatePartnerRequest (name required; phone, bankAccount optional)
// Response: 201 Created with PartnerView
// Error: 400 Bad Request if validation fails or bank details cannot be encrypted
// Error: 500 Internal Server Error if creation fails
func (h *PartnerHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePartnerRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePartner(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	partner, err := h.partnerService.CreatePartner(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSavePartner)
		return
	}

	response.RespondJSON(w, http.StatusCreated, partner)
}

// UpdatePartner handles PUT requests to change a partner.
//
// Endpoint: PUT /api/partner/{uuid}
// Request Body: UpdatePartnerRequest (all fields optional, at least one required)
// Response: 200 OK with PartnerView
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if partner not found
// Error: 500 Internal Server Error if update fails
func (h *PartnerHandler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePartnerRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePartner(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	partner, err := h.partnerService.UpdatePartner(r.Context(), partnerID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSavePartner)
		return
	}

	response.RespondJSON(w, http.StatusOK, partner)
}

// DeletePartner handles DELETE requests to remove a partner.
//
// Endpoint: DELETE /api/partner/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if partner not found
// Error: 409 Conflict if the partner still holds billboard shares
// Error: 500 Internal Server Error if deletion fails
func (h *PartnerHandler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "uuid")

	if err := h.partnerService.DeletePartner(r.Context(), partnerID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeletePartner)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
