package models

import (
	"time"

	dbtypes "github.com/angelmondragon/storefront-backend/pkg/db/types"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Visible is nullable; NULL reads as visible.
type Product struct {
	ID             string               `gorm:"column:id;primaryKey"`
	Name           string               `gorm:"column:name;not null"`
	Description    string               `gorm:"column:description;not null;default:''"`
	Price          decimal.Decimal      `gorm:"column:price;type:numeric(12,2);not null"`
	Images         dbtypes.StringArray  `gorm:"column:images;not null"`
	Category       string               `gorm:"column:category;not null;index:idx_products_category"`
	Specifications types.Specifications `gorm:"column:specifications;not null"`
	Stock          int                  `gorm:"column:stock;not null;default:0"`
	Vendor         string               `gorm:"column:vendor;not null;default:'';index:idx_products_vendor"`
	Visible        *bool                `gorm:"column:visible"`
	UnitsPerBulk   *int                 `gorm:"column:units_per_bulk"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
