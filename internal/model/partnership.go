package model

import "github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"

// PartnerShare is a persisted partner allocation on a billboard.
type PartnerShare struct {
	ID          string  `json:"id"`
	BillboardID string  `json:"billboardId"`
	PartnerID   string  `json:"partnerId"`
	PartnerName string  `json:"partnerName"`
	PrePct      float64 `json:"prePct"`
	PostPct     float64 `json:"postPct"`
}

// Partnership is the full distribution state of one billboard, either as persisted
// or as an in-progress draft.
type Partnership struct {
	BillboardID         string            `json:"billboardId"`
	BillboardName       string            `json:"billboardName"`
	IsPartnership       bool              `json:"isPartnership"`
	TotalCapital        float64           `json:"totalCapital"`
	CapitalRemaining    float64           `json:"capitalRemaining"`
	RecoveredPct        float64           `json:"recoveredPct"`
	ActiveRegime        allocation.Regime `json:"activeRegime"`
	CompanyPrePct       float64           `json:"companyPrePct"`
	CapitalDeductionPct float64           `json:"capitalDeductionPct"`
	CompanyPostPct      float64           `json:"companyPostPct"`
	Partners            []PartnerShare    `json:"partners"`
	PreSum              float64           `json:"preSum"`
	PostSum             float64           `json:"postSum"`
}

// Draft is a Partnership being edited. Dirty is true while changes are not persisted.
type Draft struct {
	Partnership
	Dirty     bool   `json:"dirty"`
	LastError string `json:"lastError,omitempty"`
}
