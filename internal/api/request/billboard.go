package request

// CreateBillboardRequest represents the request body for creating a billboard.
type CreateBillboardRequest struct {
	Name         string `json:"name"`
	Size         string `json:"size"`
	Location     string `json:"location"`
	Municipality string `json:"municipality"`
}

// CreatePartnerRequest represents the request body for creating a partner.
type CreatePartnerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	BankAccount string `json:"bankAccount"`
}

// UpdatePartnerRequest carries optional partner changes. An empty BankAccount
// string clears the stored account.
type UpdatePartnerRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	BankAccount *string `json:"bankAccount,omitempty"`
}

// StatementSettingsRequest replaces the header and footer lines of statements.
type StatementSettingsRequest struct {
	CompanyName string `json:"companyName"`
	Title       string `json:"title"`
	Footer      string `json:"footer"`
}
