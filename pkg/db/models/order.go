package models

import (
	"time"

	dbtypes "github.com/angelmondragon/storefront-backend/pkg/db/types"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Order belongs to a customer. Items hold the product snapshot taken at
// checkout; Total is never recomputed from live prices.
type Order struct {
	ID         string                    `gorm:"column:id;primaryKey"`
	CustomerID string                    `gorm:"column:customer_id;not null;index:idx_orders_customer_id"`
	PlacedAt   time.Time                 `gorm:"column:placed_at;not null;index:idx_orders_placed_at"`
	Status     enums.OrderStatus         `gorm:"column:status;not null;default:'pendiente'"`
	Items      dbtypes.JSON[[]OrderLine] `gorm:"column:items;not null"`
	Comment    *string                   `gorm:"column:comment"`
	Total      decimal.Decimal           `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt  time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine is the persisted form of a purchased line.
type OrderLine struct {
	Product      ProductSnapshot    `json:"product"`
	Quantity     int                `json:"quantity"`
	Presentation enums.Presentation `json:"presentation"`
	UnitPrice    decimal.Decimal    `json:"unit_price"`
}

// ProductSnapshot freezes the product fields a line needs for display.
type ProductSnapshot struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Price          decimal.Decimal      `json:"price"`
	Images         []string             `json:"images"`
	Category       string               `json:"category"`
	Specifications types.Specifications `json:"specifications"`
	Vendor         string               `json:"vendor"`
	UnitsPerBulk   *int                 `json:"units_per_bulk,omitempty"`
}
