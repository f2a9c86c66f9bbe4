package cart

import (
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// AddItemInput is the payload for adding to the cart.
type AddItemInput struct {
	ProductID    string             `json:"product_id" validate:"required,max=64"`
	Quantity     int                `json:"quantity" validate:"omitempty,min=1,max=9999"`
	Presentation enums.Presentation `json:"presentation" validate:"omitempty,oneof=unit bulk"`
}

// UpdateQuantityInput replaces a line quantity; 0 removes the line.
type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required,max=9999"`
}

// View is the cart as returned to clients.
type View struct {
	Items []LineView      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type LineView struct {
	Line
	Subtotal decimal.Decimal `json:"subtotal"`
}

// NewView renders the cart with its derived totals.
func NewView(c *Cart) View {
	items := make([]LineView, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, LineView{Line: item, Subtotal: item.Subtotal()})
	}
	return View{Items: items, Count: c.Count(), Total: c.Total()}
}
