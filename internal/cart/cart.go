package cart

import (
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Line is one (product, presentation) entry. UnitPrice is captured when the
// line is first created and never refreshed from the catalog.
type Line struct {
	Product      catalog.Product    `json:"product"`
	Quantity     int                `json:"quantity"`
	Presentation enums.Presentation `json:"presentation"`
	UnitPrice    decimal.Decimal    `json:"unit_price"`
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per (product id, presentation) and never a
// line with a non-positive quantity.
type Cart struct {
	Items []Line `json:"items"`
}

// Add merges quantity into the matching line or appends a new one priced
// from the product.
func (c *Cart) Add(product catalog.Product, quantity int, presentation enums.Presentation) {
	if quantity <= 0 {
		return
	}
	if presentation == "" {
		presentation = enums.PresentationUnit
	}
	if idx := c.find(product.ID, presentation); idx >= 0 {
		c.Items[idx].Quantity += quantity
		return
	}
	c.Items = append(c.Items, Line{
		Product:      product.Snapshot(),
		Quantity:     quantity,
		Presentation: presentation,
		UnitPrice:    product.UnitPrice(presentation),
	})
}

// Remove deletes the line; absent lines are ignored.
func (c *Cart) Remove(productID string, presentation enums.Presentation) {
	idx := c.find(productID, presentation)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// UpdateQuantity replaces the quantity; zero or less removes the line.
func (c *Cart) UpdateQuantity(productID string, presentation enums.Presentation, quantity int) {
	if quantity <= 0 {
		c.Remove(productID, presentation)
		return
	}
	if idx := c.find(productID, presentation); idx >= 0 {
		c.Items[idx].Quantity = quantity
	}
}

// Quantity returns the line quantity, 0 when absent.
func (c *Cart) Quantity(productID string, presentation enums.Presentation) int {
	if idx := c.find(productID, presentation); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

// Has reports whether a line exists for the pair.
func (c *Cart) Has(productID string, presentation enums.Presentation) bool {
	return c.find(productID, presentation) >= 0
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Count is the sum of line quantities.
func (c *Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total is the sum of line subtotals at captured prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs lists the distinct product ids in line order.
func (c *Cart) ProductIDs() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.Product.ID]; ok {
			continue
		}
		seen[item.Product.ID] = struct{}{}
		out = append(out, item.Product.ID)
	}
	return out
}

// normalize drops lines that violate the cart invariants, e.g. from a
// snapshot written by an older build.
func (c *Cart) normalize() {
	out := c.Items[:0]
	for _, item := range c.Items {
		if item.Quantity <= 0 || item.Product.ID == "" {
			continue
		}
		if item.Presentation == "" {
			item.Presentation = enums.PresentationUnit
		}
		if !item.Presentation.IsValid() {
			continue
		}
		if idx := indexOf(out, item.Product.ID, item.Presentation); idx >= 0 {
			out[idx].Quantity += item.Quantity
			continue
		}
		out = append(out, item)
	}
	c.Items = out
}

func (c *Cart) find(productID string, presentation enums.Presentation) int {
	return indexOf(c.Items, productID, presentation)
}

func indexOf(items []Line, productID string, presentation enums.Presentation) int {
	for i := range items {
		if items[i].Product.ID == productID && items[i].Presentation == presentation {
			return i
		}
	}
	return -1
}
