package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion string          `json:"app_version"`
	DbVersion  string          `json:"db_version"`
	Features   map[string]bool `json:"features"`
}

// StatementSettings are the header and footer lines printed on statements.
type StatementSettings struct {
	CompanyName string `json:"companyName"`
	Title       string `json:"title"`
	Footer      string `json:"footer"`
}

// Setting keys used in system_setting.
const (
	SettingStatementCompanyName = "statement.company_name"
	SettingStatementTitle       = "statement.title"
	SettingStatementFooter      = "statement.footer"
)
