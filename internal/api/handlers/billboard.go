package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/importer"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/validation"
)

// maxImportBytes bounds uploaded inventory spreadsheets.
const maxImportBytes = 10 << 20

// BillboardHandler handles HTTP requests for billboard endpoints.
type BillboardHandler struct {
	billboardService *service.BillboardService
	importService    *service.ImportService
}

// NewBillboardHandler creates a new BillboardHandler with the provided service dependencies.
func NewBillboardHandler(billboardService *service.BillboardService, importService *service.ImportService) *BillboardHandler {
	return &BillboardHandler{
		billboardService: billboardService,
		importService:    importService,
	}
}

// Billboards handles GET requests to list billboards.
//
// Endpoint: GET /api/billboard
// Query Parameters:
//   - partnerships: "true" to list only partnership billboards
//   - municipality: exact municipality filter
//
// Response: 200 OK with array of Billboard
// Error: 400 Bad Request if partnerships is not a boolean
// Error: 500 Internal Server Error if retrieval fails
func (h *BillboardHandler) Billboards(w http.ResponseWriter, r *http.Request) {
	filter := model.BillboardFilter{
		Municipality: strings.TrimSpace(r.URL.Query().Get("municipality")),
	}
	if raw := r.URL.Query().Get("partnerships"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid partnerships parameter", err.Error())
			return
		}
		filter.OnlyPartnerships = only
	}

	billboards, err := h.billboardService.GetBillboards(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveBillboards.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, billboards)
}

// GetBillboard handles GET requests to retrieve a single billboard.
//
// Endpoint: GET /api/billboard/{uuid}
// Response: 200 OK with Billboard
// Error: 404 Not Found if billboard not found
// Error: 500 Internal Server Error if retrieval fails
func (h *BillboardHandler) GetBillboard(w http.ResponseWriter, r *http.Request) {
	billboardID := chi.URLParam(r, "uuid")

	billboard, err := h.billboardService.GetBillboard(r.Context(), billboardID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveBillboard)
		return
	}

	response.RespondJSON(w, http.StatusOK, billboard)
}

// CreateBillboard handles POST requests to register a billboard.
// New billboards start without a partnership and with the default distribution knobs.
//
// Endpoint: POST /api/billboard
// Request Body: CreateBillboardRequest (name required)
// Response: 201 Created with Billboard
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *BillboardHandler) CreateBillboard(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateBillboardRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateBillboard(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	billboard, err := h.billboardService.CreateBillboard(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateBillboard.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, billboard)
}

// ImportBillboards handles POST requests to load an inventory spreadsheet.
// The workbook is read from the multipart field "file", or from the raw body
// when the request is not multipart.
//
// Endpoint: POST /api/billboard/import
// Response: 201 Created with ImportResult
// Error: 400 Bad Request if the upload is missing or holds no data rows
// Error: 500 Internal Server Error if the import fails
func (h *BillboardHandler) ImportBillboards(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "missing file upload", err.Error())
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.importService.ImportBillboards(r.Context(), src)
	if err != nil {
		if errors.Is(err, importer.ErrNoRows) {
			response.RespondError(w, http.StatusBadRequest, importer.ErrNoRows.Error(), nil)
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(w, http.StatusRequestEntityTooLarge, "file too large", err.Error())
			return
		}
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToImportBillboards.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}
