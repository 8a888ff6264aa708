package models

import "time"

// AccountType selects the identity provider that revalidates an account.
type AccountType string

const (
	AccountTypeXbox        AccountType = "Xbox"
	AccountTypeTokenAuth   AccountType = "AZauth"
	AccountTypeSimpleLogin AccountType = "Mojang"
)

// Account stores one signed-in game identity and its provider credentials.
type Account struct {
	ID           string      `gorm:"primaryKey" json:"id"` // UUID
	Type         AccountType `gorm:"index" json:"type"`
	Name         string      `json:"name"`
	UUID         string      `json:"uuid"`   // game profile id
	Online       bool        `json:"online"` // Mojang only: refresh online vs. derive offline
	AccessToken  string      `json:"access_token"`
	ClientToken  string      `json:"client_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	Meta         string      `json:"meta"` // JSON blob for provider-specific extras (xuid, role, skins)

	// Error is set by an earlier process when the record is known to be bad.
	Error        bool   `gorm:"default:false" json:"error"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Known reports whether the account type has a dedicated provider.
func (t AccountType) Known() bool {
	switch t {
	case AccountTypeXbox, AccountTypeTokenAuth, AccountTypeSimpleLogin:
		return true
	}
	return false
}
