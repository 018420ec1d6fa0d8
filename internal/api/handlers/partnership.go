package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/validation"
)

// historyWindow is the default span of the history endpoint.
const historyWindow = 30 * 24 * time.Hour

// PartnershipHandler handles HTTP requests for partnership editing, revenue posting,
// recovery history and statements.
type PartnershipHandler struct {
	partnershipService *service.PartnershipService
	revenueService     *service.RevenueService
	snapshotService    *service.SnapshotService
	statementService   *service.StatementService
	now                func() time.Time
}

// NewPartnershipHandler creates a new PartnershipHandler with the provided service dependencies.
func NewPartnershipHandler(
	partnershipService *service.PartnershipService,
	revenueService *service.RevenueService,
	snapshotService *service.SnapshotService,
	statementService *service.StatementService,
) *PartnershipHandler {
	return &PartnershipHandler{
		partnershipService: partnershipService,
		revenueService:     revenueService,
		snapshotService:    snapshotService,
		statementService:   statementService,
		now:                time.Now,
	}
}

// DraftResponse is a draft together with the fields whose input was coerced to 0.
type DraftResponse struct {
	model.Draft
	Warnings map[string]string `json:"warnings,omitempty"`
}

// GetPartnership handles GET requests for the persisted partnership of a billboard.
//
// Endpoint: GET /api/partnership/{uuid}
// Response: 200 OK with Partnership
// Error: 404 Not Found if billboard not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PartnershipHandler) GetPartnership(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	partnership, err := h.partnershipService.GetPartnership(r.Context(), billboardID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePartnership)
		return
	}

	response.RespondJSON(w, http.StatusOK, partnership)
}

// GetDraft handles GET requests for the draft of a billboard, opening one from the
// persisted state when none exists.
//
// Endpoint: GET /api/partnership/{uuid}/draft
// Response: 200 OK with Draft
// Error: 404 Not Found if billboard not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PartnershipHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	draft, err := h.partnershipService.Draft(r.Context(), billboardID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePartnership)
		return
	}

	response.RespondJSON(w, http.StatusOK, DraftResponse{Draft: draft})
}

// knobSetter is one of the percentage setters of PartnershipService.
type knobSetter func(ctx context.Context, billboardID string, value float64) (model.Draft, error)

// setKnob decodes a SetValueRequest and applies it with set.
func (h *PartnershipHandler) setKnob(w http.ResponseWriter, r *http.Request, set knobSetter) {
	billboardID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.SetValueRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetValue(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	draft, err := set(r.Context(), billboardID, req.Value.Value)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateDraft)
		return
	}

	response.RespondJSON(w, http.StatusOK, DraftResponse{
		Draft:    draft,
		Warnings: request.Warnings(map[string]request.FlexNumber{"value": req.Value}),
	})
}

// SetCompanyPre handles PUT requests to change the company's pre-recovery percentage.
// Partner pre-recovery shares are redistributed equally over what remains.
//
// Endpoint: PUT /api/partnership/{uuid}/draft/company-pre
// Request Body: SetValueRequest {value}
// Response: 200 OK with DraftResponse
// Error: 400 Bad Request if request body is invalid or value is missing
// Error: 404 Not Found if billboard not found
func (h *PartnershipHandler) SetCompanyPre(w http.ResponseWriter, r *http.Request) {
	h.setKnob(w, r, h.partnershipService.SetCompanyPre)
}

// SetCapitalDeduction handles PUT requests to change the capital deduction percentage.
//
// Endpoint: PUT /api/partnership/{uuid}/draft/capital-deduction
// Request Body: SetValueRequest {value}
// Response: 200 OK with DraftResponse
// Error: 400 Bad Request if request body is invalid or value is missing
// Error: 404 Not Found if billboard not found
func (h *PartnershipHandler) SetCapitalDeduction(w http.ResponseWriter, r *http.Request) {
	h.setKnob(w, r, h.partnershipService.SetCapitalDeduction)
}

// SetCompanyPost handles PUT requests to change the company's post-recovery percentage.
//
// Endpoint: PUT /api/partnership/{uuid}/draft/company-post
// Request Body: SetValueRequest {value}
// Response: 200 OK with DraftResponse
// Error: 400 Bad Request if request body is invalid or value is missing
// Error: 404 Not Found if billboard not found
func (h *PartnershipHandler) SetCompanyPost(w http.ResponseWriter, r *http.Request) {
	h.setKnob(w, r, h.partnershipService.SetCompanyPost)
}

// SetCapital handles PUT requests to change the draft's capital account.
//
// Endpoint: PUT /api/partnership/{uuid}/draft/capital
// Request Body: SetCapitalRequest {totalCapital, capitalRemaining}
// Response: 200 OK with DraftResponse
// Error: 400 Bad Request if request body is invalid
// Error: 404 Not Found if billboard not found
func (h *PartnershipHandler) SetCapital(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.SetCapitalRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetCapital(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	draft, err := h.partnershipService.SetCapital(r.Context(), billboardID, req.TotalCapital.Value, req.CapitalRemaining.Value)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateDraft)
		return
	}

	response.RespondJSON(w, http.StatusOK, DraftResponse{
		Draft: draft,
		Warnings: request.Warnings(map[string]request.FlexNumber{
			"totalCapital":     req.TotalCapital,
			"capitalRemaining": req.CapitalRemaining,
		}),
	})
}

// AddPartner handles POST requests to attach a partner to the draft.
//
// Endpoint: POST /api/partnership/{uuid}/draft/partners
// Request Body: AddPartnerRequest {partnerId}
// Response: 200 OK with DraftResponse
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if billboard or partner not found
// Error: 409 Conflict if the partner is already attached
func (h *PartnershipHandler) AddPartner(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.AddPartnerRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddPartner(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	draft, err := h.partnershipService.AddPartner(r.Context(), billboardID, req.PartnerID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateDraft)
		return
	}

	response.RespondJSON(w, http.StatusOK, DraftResponse{Draft: draft})
}

// RemovePartner handles DELETE requests to detach a partner from the draft.
// Removing a partner that is not attached leaves the draft unchanged.
//
// Endpoint: DELETE /api/partnership/{uuid}/draft/partners/{partnerId}
// Response: 200 OK with DraftResponse
// Error: 400 Bad Request if partnerId is not a UUID
// Error: 404 Not Found if billboard not found
func (h *PartnershipHandler) RemovePartner(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")
	partnerID := chi.URLParam(r, "partnerId")

	if err := validation.ValidateUUID(partnerID); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidUUID.Error(), err.Error())
		return
	}

	draft, err := h.partnershipService.RemovePartner(r.Context(), billboardID, partnerID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateDraft)
		return
	}

	response.RespondJSON(w, http.StatusOK, DraftResponse{Draft: draft})
}

// Save handles POST requests to persist the draft immediately.
//
// Endpoint: POST /api/partnership/{uuid}/save
// Response: 200 OK with the persisted Partnership
// Error: 404 Not Found if billboard not found or no draft is open
// Error: 422 Unprocessable Entity if a regime does not sum to 100 or there are no partners
// Error: 500 Internal Server Error if saving fails
func (h *PartnershipHandler) Save(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	partnership, err := h.partnershipService.Save(r.Context(), billboardID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSavePartnership)
		return
	}

	response.RespondJSON(w, http.StatusOK, partnership)
}

// Discard handles DELETE requests to drop unsaved draft changes.
//
// Endpoint: DELETE /api/partnership/{uuid}/draft
// Response: 204 No Content
// Error: 404 Not Found if no draft is open
func (h *PartnershipHandler) Discard(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	if err := h.partnershipService.Discard(billboardID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateDraft)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Deactivate handles POST requests to turn a partnership billboard back into a
// company-owned billboard.
//
// Endpoint: POST /api/partnership/{uuid}/deactivate
// Response: 204 No Content
// Error: 404 Not Found if billboard not found
// Error: 500 Internal Server Error if deactivation fails
func (h *PartnershipHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	if err := h.partnershipService.Deactivate(r.Context(), billboardID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeactivate)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// PostRevenue handles POST requests to record revenue against a partnership.
// The amount is split by the regime active at posting time and recovered capital
// is deducted from the billboard's capital account.
//
// Endpoint: POST /api/partnership/{uuid}/revenue
// Request Body: PostRevenueRequest {amount, date (YYYY-MM-DD, defaults to today)}
// Response: 201 Created with RevenuePosting
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if billboard not found
// Error: 422 Unprocessable Entity if the billboard is not a partnership
// Error: 500 Internal Server Error if posting fails
func (h *PartnershipHandler) PostRevenue(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.PostRevenueRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePostRevenue(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	postedOn, err := request.ParseDate(req.Date, h.now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	posting, err := h.revenueService.PostRevenue(r.Context(), billboardID, req.Amount, postedOn)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToPostRevenue)
		return
	}

	response.RespondJSON(w, http.StatusCreated, posting)
}

// Postings handles GET requests to list revenue postings of a billboard.
//
// Endpoint: GET /api/partnership/{uuid}/revenue
// Query Parameters:
//   - start_date, end_date: optional YYYY-MM-DD bounds
//   - sort_dir: "asc" or "desc" (default "desc")
//   - per_page: 1 to 100 (default 50)
//
// Response: 200 OK with array of RevenuePosting
// Error: 400 Bad Request if a filter is invalid
// Error: 404 Not Found if billboard not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PartnershipHandler) Postings(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")
	q := r.URL.Query()

	filters, err := request.ParsePostingFilters(q.Get("start_date"), q.Get("end_date"), q.Get("sort_dir"), q.Get("per_page"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	postings, err := h.revenueService.ListPostings(r.Context(), billboardID, *filters)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePostings)
		return
	}

	response.RespondJSON(w, http.StatusOK, postings)
}

// RevenueSummary handles GET requests for the capital recovered so far by revenue postings.
//
// Endpoint: GET /api/partnership/{uuid}/revenue/summary
// Response: 200 OK with RevenueSummary
// Error: 404 Not Found if billboard not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PartnershipHandler) RevenueSummary(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	summary, err := h.revenueService.Summary(r.Context(), billboardID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePostings)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// History handles GET requests for the daily recovery snapshots of a billboard.
//
// Endpoint: GET /api/partnership/{uuid}/history
// Query Parameters:
//   - start_date: YYYY-MM-DD (defaults to 30 days before end_date)
//   - end_date: YYYY-MM-DD (defaults to today)
//
// Response: 200 OK with array of PartnershipSnapshot, oldest first
// Error: 400 Bad Request if a date is invalid or start_date is after end_date
// Error: 404 Not Found if billboard not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PartnershipHandler) History(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")
	q := r.URL.Query()

	end, err := request.ParseDate(q.Get("end_date"), h.now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return
	}
	start, err := request.ParseDate(q.Get("start_date"), end.Add(-historyWindow))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid start_date", err.Error())
		return
	}

	history, err := h.snapshotService.History(r.Context(), billboardID, start, end)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots)
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// Statement handles GET requests to download a partnership statement.
//
// Endpoint: GET /api/partnership/{uuid}/statement?format=pdf|xlsx
// Response: 200 OK with the rendered file as an attachment (format defaults to pdf)
// Error: 400 Bad Request if the format is not supported
// Error: 404 Not Found if billboard not found
// Error: 422 Unprocessable Entity if the billboard is not a partnership
// Error: 500 Internal Server Error if rendering fails
func (h *PartnershipHandler) Statement(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	docFormat := r.URL.Query().Get("format")
	if docFormat == "" {
		docFormat = service.FormatPDF
	}

	doc, err := h.statementService.PartnershipStatement(r.Context(), billboardID, docFormat)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRenderStatement)
		return
	}

	response.RespondFile(w, doc.Filename, doc.ContentType, doc.Body)
}
