package model

import "time"

// PartnershipSnapshot is the daily state of a partnership's capital recovery.
type PartnershipSnapshot struct {
	ID               string    `json:"id"`
	BillboardID      string    `json:"billboardId"`
	Date             string    `json:"date"`
	TotalCapital     float64   `json:"totalCapital"`
	CapitalRemaining float64   `json:"capitalRemaining"`
	RecoveredPct     float64   `json:"recoveredPct"`
	PartnerCount     int       `json:"partnerCount"`
	CalculatedAt     time.Time `json:"calculatedAt"`
}
