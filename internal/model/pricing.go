package model

import "github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"

// PricingCompany is a client renting many billboards grouped by size.
type PricingCompany struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CompanyPricing is a company's size groups and their aggregate value.
type CompanyPricing struct {
	Company PricingCompany         `json:"company"`
	Groups  []allocation.SizeGroup `json:"groups"`
	Units   int                    `json:"units"`
	Total   float64                `json:"total"`
}

// ManualTotalResult is the outcome of spreading a target total over size groups.
// Drift is Total minus Target, caused by rounding prices to whole units.
type ManualTotalResult struct {
	CompanyPricing
	Target float64 `json:"target"`
	Drift  float64 `json:"drift"`
}
