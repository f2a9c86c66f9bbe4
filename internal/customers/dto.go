package customers

import (
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/users"
)

// CustomerInput is the full profile used by create, import and checkout.
type CustomerInput struct {
	ID         string `json:"id" validate:"omitempty,max=64"`
	FirstName  string `json:"first_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	Phone      string `json:"phone" validate:"max=40"`
	Address    string `json:"address" validate:"max=200"`
	City       string `json:"city" validate:"max=100"`
	Province   string `json:"province" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// UpdateCustomerInput holds optional profile changes.
type UpdateCustomerInput struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Phone      *string `json:"phone" validate:"omitempty,max=40"`
	Address    *string `json:"address" validate:"omitempty,max=200"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	Province   *string `json:"province" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=20"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

func (in CustomerInput) toCustomer() Customer {
	return Customer{
		ID:         strings.TrimSpace(in.ID),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      users.NormalizeEmail(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		Province:   strings.TrimSpace(in.Province),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Notes:      strings.TrimSpace(in.Notes),
	}
}

func applyUpdate(c *Customer, in UpdateCustomerInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.FirstName, in.FirstName)
	set(&c.LastName, in.LastName)
	if in.Email != nil {
		c.Email = users.NormalizeEmail(*in.Email)
	}
	set(&c.Phone, in.Phone)
	set(&c.Address, in.Address)
	set(&c.City, in.City)
	set(&c.Province, in.Province)
	set(&c.PostalCode, in.PostalCode)
	set(&c.Notes, in.Notes)
}

// mergeProfile copies the non-empty fields of in over c. Notes are admin
// owned and never come from checkout.
func mergeProfile(c *Customer, in CustomerInput) {
	next := in.toCustomer()
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&c.FirstName, next.FirstName)
	merge(&c.LastName, next.LastName)
	merge(&c.Email, next.Email)
	merge(&c.Phone, next.Phone)
	merge(&c.Address, next.Address)
	merge(&c.City, next.City)
	merge(&c.Province, next.Province)
	merge(&c.PostalCode, next.PostalCode)
}
