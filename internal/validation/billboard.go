package validation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
)

const maxNameLength = 200

// ValidateCreateBillboard validates a request to create a billboard.
func ValidateCreateBillboard(req request.CreateBillboardRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > maxNameLength {
		errors["name"] = "name must be 200 characters or less"
	}

	return result(errors)
}

// ValidateCreatePartner validates a request to create a partner.
func ValidateCreatePartner(req request.CreatePartnerRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > maxNameLength {
		errors["name"] = "name must be 200 characters or less"
	}

	return result(errors)
}

// ValidateUpdatePartner validates a partial partner update. At least one field must be set.
func ValidateUpdatePartner(req request.UpdatePartnerRequest) error {
	errors := make(map[string]string)

	if req.Name == nil && req.Phone == nil && req.BankAccount == nil {
		errors["request"] = "at least one field must be provided"
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > maxNameLength {
			errors["name"] = "name must be 200 characters or less"
		}
	}

	return result(errors)
}

// ValidateAddPartner checks that the partner id is a UUID.
func ValidateAddPartner(req request.AddPartnerRequest) error {
	errors := make(map[string]string)

	if req.PartnerID == "" {
		errors["partnerId"] = "partnerId is required"
	} else if _, err := uuid.Parse(req.PartnerID); err != nil {
		errors["partnerId"] = "partnerId must be a valid UUID"
	}

	return result(errors)
}

// ValidateSetValue checks that a knob request carries a value.
func ValidateSetValue(req request.SetValueRequest) error {
	errors := make(map[string]string)
	requireNumber(errors, "value", req.Value)
	return result(errors)
}

// ValidateSetCapital checks that both capital figures are given.
func ValidateSetCapital(req request.SetCapitalRequest) error {
	errors := make(map[string]string)
	requireNumber(errors, "totalCapital", req.TotalCapital)
	requireNumber(errors, "capitalRemaining", req.CapitalRemaining)
	return result(errors)
}

// ValidateManualTotal checks that a target total is given.
func ValidateManualTotal(req request.ManualTotalRequest) error {
	errors := make(map[string]string)
	requireNumber(errors, "targetTotal", req.TargetTotal)
	return result(errors)
}

// requireNumber rejects absent keys. Present but non-numeric input is coerced
// downstream and reported as a warning.
func requireNumber(errors map[string]string, field string, n request.FlexNumber) {
	if !n.Present {
		errors[field] = field + " is required"
	}
}

// ValidatePostRevenue checks the amount and the optional YYYY-MM-DD date.
func ValidatePostRevenue(req request.PostRevenueRequest) error {
	errors := make(map[string]string)

	if req.Amount < 0 {
		errors["amount"] = "amount cannot be negative"
	}
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			errors["date"] = "date must be in YYYY-MM-DD format"
		}
	}

	return result(errors)
}

// ValidateStatementSettings bounds the statement header and footer lines.
func ValidateStatementSettings(req request.StatementSettingsRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.CompanyName) == "" {
		errors["companyName"] = "companyName is required"
	}
	if len(req.Title) > maxNameLength {
		errors["title"] = "title must be 200 characters or less"
	}
	if len(req.Footer) > 1000 {
		errors["footer"] = "footer must be 1000 characters or less"
	}

	return result(errors)
}
