package catalog

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/storefront-backend/pkg/db/types"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is the catalog listing shared by the storefront, carts and orders.
type Product struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Price          decimal.Decimal      `json:"price"`
	Images         []string             `json:"images"`
	Category       string               `json:"category"`
	Specifications types.Specifications `json:"specifications"`
	Stock          int                  `json:"stock"`
	Vendor         string               `json:"vendor"`
	Visible        *bool                `json:"visible,omitempty"`
	UnitsPerBulk   *int                 `json:"units_per_bulk,omitempty"`
	CreatedAt      time.Time            `json:"created_at,omitempty"`
	UpdatedAt      time.Time            `json:"updated_at,omitempty"`
}

// IsVisible treats an unset flag as visible.
func (p Product) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// BulkUnits is the number of units sold in one bulk presentation.
func (p Product) BulkUnits() int {
	if p.UnitsPerBulk == nil || *p.UnitsPerBulk <= 0 {
		return 1
	}
	return *p.UnitsPerBulk
}

// UnitPrice is the price charged for one item of the given presentation.
func (p Product) UnitPrice(presentation enums.Presentation) decimal.Decimal {
	if presentation == enums.PresentationBulk {
		return p.Price.Mul(decimal.NewFromInt(int64(p.BulkUnits())))
	}
	return p.Price
}

// Snapshot drops the mutable inventory fields so the copy can be frozen into
// carts, wishlists and orders.
func (p Product) Snapshot() Product {
	out := p
	out.Stock = 0
	out.Visible = nil
	out.CreatedAt = time.Time{}
	out.UpdatedAt = time.Time{}
	out.Images = append([]string(nil), p.Images...)
	out.Specifications = append(types.Specifications(nil), p.Specifications...)
	if p.UnitsPerBulk != nil {
		v := *p.UnitsPerBulk
		out.UnitsPerBulk = &v
	}
	return out
}

// FromModel maps a persisted product into the domain type.
func FromModel(m models.Product) Product {
	return Product{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		Price:          m.Price,
		Images:         append([]string{}, m.Images...),
		Category:       m.Category,
		Specifications: m.Specifications,
		Stock:          m.Stock,
		Vendor:         m.Vendor,
		Visible:        m.Visible,
		UnitsPerBulk:   m.UnitsPerBulk,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToModel maps the domain product into its persisted row.
func ToModel(p Product) models.Product {
	specs := p.Specifications
	if specs == nil {
		specs = types.Specifications{}
	}
	return models.Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Images:         dbtypes.StringArray(append([]string{}, p.Images...)),
		Category:       p.Category,
		Specifications: specs,
		Stock:          p.Stock,
		Vendor:         p.Vendor,
		Visible:        p.Visible,
		UnitsPerBulk:   p.UnitsPerBulk,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// SnapshotFromModel rebuilds a product snapshot stored inside an order row.
func SnapshotFromModel(s models.ProductSnapshot) Product {
	return Product{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		Price:          s.Price,
		Images:         append([]string{}, s.Images...),
		Category:       s.Category,
		Specifications: s.Specifications,
		Vendor:         s.Vendor,
		UnitsPerBulk:   s.UnitsPerBulk,
	}
}

// SnapshotToModel freezes the product into the order line column format.
func SnapshotToModel(p Product) models.ProductSnapshot {
	return models.ProductSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Images:         append([]string{}, p.Images...),
		Category:       p.Category,
		Specifications: p.Specifications,
		Vendor:         p.Vendor,
		UnitsPerBulk:   p.UnitsPerBulk,
	}
}
