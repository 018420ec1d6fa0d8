package model

import (
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
)

// RevenuePosting is revenue recognized for a partnership billboard and its split.
type RevenuePosting struct {
	ID                    string                     `json:"id"`
	BillboardID           string                     `json:"billboardId"`
	PostedOn              time.Time                  `json:"postedOn"`
	Amount                float64                    `json:"amount"`
	Regime                allocation.Regime          `json:"regime"`
	CapitalAmount         float64                    `json:"capitalAmount"`
	CompanyAmount         float64                    `json:"companyAmount"`
	PartnerAmounts        []allocation.PartnerAmount `json:"partnerAmounts"`
	CapitalRemainingAfter float64                    `json:"capitalRemainingAfter"`
	CreatedAt             time.Time                  `json:"createdAt"`
}

// PostingFilters narrows revenue posting listings.
type PostingFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	SortDir   string
	PerPage   int
}

// RevenueSummary compares a billboard's capital account with the capital
// recovered through postings. Capital edited by hand shows up as a gap between
// TotalCapital - CapitalRemaining and RecoveredByPostings.
type RevenueSummary struct {
	BillboardID         string  `json:"billboardId"`
	TotalCapital        float64 `json:"totalCapital"`
	CapitalRemaining    float64 `json:"capitalRemaining"`
	RecoveredByPostings float64 `json:"recoveredByPostings"`
}
