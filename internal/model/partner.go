package model

import "time"

// Partner is an investor that can hold shares in partnership billboards.
type Partner struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	BankAccountEnc string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PartnerView is the outward representation of a partner. Bank details are masked.
type PartnerView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	BankAccount string    `json:"bankAccount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
