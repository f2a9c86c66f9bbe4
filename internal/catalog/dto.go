package catalog

import (
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductInput is the full payload for creating or importing a product.
type ProductInput struct {
	ID             string               `json:"id" validate:"omitempty,max=64"`
	Name           string               `json:"name" validate:"required,max=200"`
	Description    string               `json:"description" validate:"max=5000"`
	Price          decimal.Decimal      `json:"price"`
	Images         []string             `json:"images" validate:"omitempty,dive,required,url"`
	Category       string               `json:"category" validate:"required,max=100"`
	Specifications types.Specifications `json:"specifications"`
	Stock          int                  `json:"stock" validate:"gte=0"`
	Vendor         string               `json:"vendor" validate:"max=100"`
	Visible        *bool                `json:"visible"`
	UnitsPerBulk   *int                 `json:"units_per_bulk" validate:"omitempty,gt=0"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name           *string               `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string               `json:"description" validate:"omitempty,max=5000"`
	Price          *decimal.Decimal      `json:"price"`
	Images         *[]string             `json:"images" validate:"omitempty,min=1,dive,required,url"`
	Category       *string               `json:"category" validate:"omitempty,min=1,max=100"`
	Specifications *types.Specifications `json:"specifications"`
	Stock          *int                  `json:"stock" validate:"omitempty,gte=0"`
	Vendor         *string               `json:"vendor" validate:"omitempty,max=100"`
	Visible        *bool                 `json:"visible"`
	UnitsPerBulk   *int                  `json:"units_per_bulk" validate:"omitempty,gt=0"`
}

func (in ProductInput) toProduct() Product {
	return Product{
		ID:             strings.TrimSpace(in.ID),
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Price:          in.Price,
		Images:         trimAll(in.Images),
		Category:       strings.TrimSpace(in.Category),
		Specifications: in.Specifications,
		Stock:          in.Stock,
		Vendor:         strings.TrimSpace(in.Vendor),
		Visible:        in.Visible,
		UnitsPerBulk:   in.UnitsPerBulk,
	}
}

func applyUpdate(p *Product, in UpdateProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Images != nil {
		p.Images = trimAll(*in.Images)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Specifications != nil {
		p.Specifications = *in.Specifications
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Vendor != nil {
		p.Vendor = strings.TrimSpace(*in.Vendor)
	}
	if in.Visible != nil {
		v := *in.Visible
		p.Visible = &v
	}
	if in.UnitsPerBulk != nil {
		v := *in.UnitsPerBulk
		p.UnitsPerBulk = &v
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
