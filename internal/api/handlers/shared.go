package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/importer"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T, rejecting unknown fields and trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, errors.New("request body is empty")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is empty")
		}
		return req, fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return req, errors.New("request body must contain a single JSON object")
	}
	return req, nil
}

// unbalancedDetails is the error detail for a regime whose percentages do not sum to 100.
type unbalancedDetails struct {
	Regime allocation.Regime `json:"regime"`
	Sum    float64           `json:"sum"`
}

// respondServiceError maps a service error to an HTTP status. Errors without a
// mapping are reported as 500 with fallback as the message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	var unbalanced *allocation.UnbalancedRegimeError
	var verr *validation.Error

	switch {
	case errors.As(err, &unbalanced):
		response.RespondError(w, http.StatusUnprocessableEntity, allocation.ErrUnbalancedRegime.Error(),
			unbalancedDetails{Regime: unbalanced.Regime, Sum: unbalanced.Sum})
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)

	case errors.Is(err, apperrors.ErrBillboardNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrBillboardNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPartnerNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPartnerNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPricingCompanyNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPricingCompanyNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrNoDraft):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrNoDraft.Error(), err.Error())

	case errors.Is(err, allocation.ErrDuplicatePartner):
		response.RespondError(w, http.StatusConflict, allocation.ErrDuplicatePartner.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPartnerInUse):
		response.RespondError(w, http.StatusConflict, apperrors.ErrPartnerInUse.Error(), err.Error())

	case errors.Is(err, allocation.ErrNoPartners):
		response.RespondError(w, http.StatusUnprocessableEntity, allocation.ErrNoPartners.Error(), err.Error())
	case errors.Is(err, apperrors.ErrNotAPartnership):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrNotAPartnership.Error(), err.Error())

	case errors.Is(err, apperrors.ErrNegativeAmount),
		errors.Is(err, apperrors.ErrInvalidTargetTotal),
		errors.Is(err, apperrors.ErrUnsupportedFormat),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrSecretsDisabled),
		errors.Is(err, importer.ErrNoRows):
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)

	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
