package orders

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/storefront-backend/pkg/db/types"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Line is a purchased line frozen at checkout.
type Line struct {
	Product      catalog.Product    `json:"product"`
	Quantity     int                `json:"quantity"`
	Presentation enums.Presentation `json:"presentation"`
	UnitPrice    decimal.Decimal    `json:"unit_price"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order belongs to one customer. Total is fixed when the order is built.
type Order struct {
	ID           string            `json:"id"`
	CustomerID   string            `json:"customer_id"`
	CustomerName string            `json:"customer_name,omitempty"`
	Date         time.Time         `json:"date"`
	Status       enums.OrderStatus `json:"status"`
	Items        []Line            `json:"items"`
	Comment      *string           `json:"comment,omitempty"`
	Total        decimal.Decimal   `json:"total"`
}

// EffectiveStatus reads a missing status as pendiente.
func (o Order) EffectiveStatus() enums.OrderStatus {
	return o.Status.OrDefault()
}

// ItemCount sums line quantities.
func (o Order) ItemCount() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ComputeTotal sums unit price × quantity over lines.
func ComputeTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// New builds a pending order and fixes its total from the captured prices.
func New(id, customerID string, lines []Line, comment *string, now time.Time) (Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if len(lines) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order line quantity must be positive").
				WithDetails(map[string]any{"product_id": line.Product.ID})
		}
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}
	items := make([]Line, len(lines))
	copy(items, lines)
	return Order{
		ID:         id,
		CustomerID: customerID,
		Date:       now.UTC(),
		Status:     enums.OrderStatusPending,
		Items:      items,
		Comment:    comment,
		Total:      ComputeTotal(items),
	}, nil
}

// Patch is an admin edit of an order. Nil fields are left untouched.
type Patch struct {
	Status  *enums.OrderStatus `json:"status" validate:"omitempty,oneof=pendiente completado cancelado"`
	Comment *string            `json:"comment" validate:"omitempty,max=2000"`
}

// Apply mutates the order; the total is never touched.
func (p Patch) Apply(o *Order) error {
	if p.Status != nil {
		if !p.Status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		o.Status = *p.Status
	}
	if p.Comment != nil {
		trimmed := strings.TrimSpace(*p.Comment)
		if trimmed == "" {
			o.Comment = nil
		} else {
			o.Comment = &trimmed
		}
	}
	return nil
}

// FromModel maps a persisted order; customerName is filled by callers that
// joined the customer row.
func FromModel(m models.Order, customerName string) Order {
	items := make([]Line, 0, len(m.Items.Data))
	for _, line := range m.Items.Data {
		items = append(items, Line{
			Product:      catalog.SnapshotFromModel(line.Product),
			Quantity:     line.Quantity,
			Presentation: line.Presentation,
			UnitPrice:    line.UnitPrice,
		})
	}
	return Order{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		CustomerName: customerName,
		Date:         m.PlacedAt,
		Status:       m.Status.OrDefault(),
		Items:        items,
		Comment:      m.Comment,
		Total:        m.Total,
	}
}

func ToModel(o Order) models.Order {
	lines := make([]models.OrderLine, 0, len(o.Items))
	for _, line := range o.Items {
		lines = append(lines, models.OrderLine{
			Product:      catalog.SnapshotToModel(line.Product),
			Quantity:     line.Quantity,
			Presentation: line.Presentation,
			UnitPrice:    line.UnitPrice,
		})
	}
	return models.Order{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		PlacedAt:   o.Date,
		Status:     o.Status.OrDefault(),
		Items:      dbtypes.NewJSON(lines),
		Comment:    o.Comment,
		Total:      o.Total,
	}
}
