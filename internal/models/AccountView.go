package models

// AccountView is an Account plus the read-only fields derived for clients.
type AccountView struct {
	Account
	CanUse            bool `json:"canUse"`
	DaysUntilEligible int  `json:"daysUntilEligible"`
	DaysUntilReset    *int `json:"daysUntilReset"`
}

type AccountList struct {
	Accounts []AccountView `json:"accounts"`
}

// ReplaceRequest is the legacy bulk-write payload.
type ReplaceRequest struct {
	Accounts []Account `json:"accounts"`
}

type CreateRequest struct {
	Name string `json:"name" validate:"required|minLen:1|maxLen:256"`
}

type ToggleResponse struct {
	Account AccountView `json:"account"`
	Applied bool        `json:"applied"`
	Notice  string      `json:"notice,omitempty"`
}
