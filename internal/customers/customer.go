package customers

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Customer is a shopper profile with its orders, oldest first.
type Customer struct {
	ID         string         `json:"id"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	City       string         `json:"city"`
	Province   string         `json:"province"`
	PostalCode string         `json:"postal_code"`
	Notes      string         `json:"notes"`
	Orders     []orders.Order `json:"orders"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func fromModel(m models.Customer) Customer {
	c := Customer{
		ID:         m.ID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Phone:      m.Phone,
		Address:    m.Address,
		City:       m.City,
		Province:   m.Province,
		PostalCode: m.PostalCode,
		Notes:      m.Notes,
		Orders:     []orders.Order{},
		CreatedAt:  m.CreatedAt,
	}
	name := c.FullName()
	for _, o := range m.Orders {
		c.Orders = append(c.Orders, orders.FromModel(o, name))
	}
	return c
}

func toModel(c Customer) models.Customer {
	return models.Customer{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		Province:   c.Province,
		PostalCode: c.PostalCode,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	}
}
