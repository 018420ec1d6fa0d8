package handlers

import (
	"net/http"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/validation"
)

// SettingsHandler handles statement header and footer settings.
type SettingsHandler struct {
	statementService *service.StatementService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(statementService *service.StatementService) *SettingsHandler {
	return &SettingsHandler{
		statementService: statementService,
	}
}

// StatementSettings handles GET requests for the current statement settings.
//
// Endpoint: GET /api/settings/statement
// Response: 200 OK with StatementSettings
// Error: 500 Internal Server Error if retrieval fails
func (h *SettingsHandler) StatementSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.statementService.GetSettings(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRenderStatement.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// UpdateStatementSettings handles PUT requests to replace the statement settings.
//
// Endpoint: PUT /api/settings/statement
// Request Body: StatementSettingsRequest {companyName, title, footer}
// Response: 200 OK with StatementSettings
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if saving fails
func (h *SettingsHandler) UpdateStatementSettings(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.StatementSettingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateStatementSettings(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	settings, err := h.statementService.UpdateSettings(r.Context(), model.StatementSettings{
		CompanyName: req.CompanyName,
		Title:       req.Title,
		Footer:      req.Footer,
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSaveSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}
