package profile

import (
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the remote user profile. The ID is assigned by the remote
// store; local-only sessions never have a row here.
type Profile struct {
	ID        string
	Name      string
	Phone     string
	Language  string
	Currency  string
	Theme     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTheme    = "light"
)

// WithDefaults fills unset preference attributes.
func (p Profile) WithDefaults() Profile {
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	return p
}
