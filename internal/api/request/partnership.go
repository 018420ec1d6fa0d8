package request

// SetValueRequest is the body of the percentage knob endpoints.
type SetValueRequest struct {
	Value FlexNumber `json:"value"`
}

// SetCapitalRequest is the body for editing a draft's capital account.
type SetCapitalRequest struct {
	TotalCapital     FlexNumber `json:"totalCapital"`
	CapitalRemaining FlexNumber `json:"capitalRemaining"`
}

// AddPartnerRequest attaches an existing partner to a draft.
type AddPartnerRequest struct {
	PartnerID string `json:"partnerId"`
}

// PostRevenueRequest records revenue against a partnership billboard.
// Date defaults to today when empty.
type PostRevenueRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// ManualTotalRequest sets a company's aggregate rental value.
type ManualTotalRequest struct {
	TargetTotal FlexNumber `json:"targetTotal"`
}
