package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventOrderCreated = "order.created"

// Envelope is the JSON document published for every storefront event.
type Envelope struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Data        json.RawMessage `json:"data"`
}

// OrderCreated is the data carried by order.created.
type OrderCreated struct {
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"item_count"`
	Items      []OrderItem     `json:"items"`
}

type OrderItem struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Presentation string          `json:"presentation"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// NewOrderCreated builds the envelope for a freshly placed order.
func NewOrderCreated(o orders.Order) (Envelope, error) {
	data := OrderCreated{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.EffectiveStatus()),
		Total:      o.Total,
		ItemCount:  o.ItemCount(),
		Items:      make([]OrderItem, 0, len(o.Items)),
	}
	for _, line := range o.Items {
		data.Items = append(data.Items, OrderItem{
			ProductID:    line.Product.ID,
			Name:         line.Product.Name,
			Category:     line.Product.Category,
			Quantity:     line.Quantity,
			Presentation: string(line.Presentation),
			UnitPrice:    line.UnitPrice,
		})
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode order.created: %w", err)
	}
	return Envelope{
		EventID:     uuid.NewString(),
		EventType:   EventOrderCreated,
		AggregateID: o.ID,
		OccurredAt:  o.Date.UTC(),
		Data:        raw,
	}, nil
}

// DecodeEnvelope parses and checks a published envelope.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if _, err := uuid.Parse(strings.TrimSpace(env.EventID)); err != nil {
		return nil, fmt.Errorf("event_id: %w", err)
	}
	if strings.TrimSpace(env.EventType) == "" {
		return nil, errors.New("event_type missing")
	}
	if env.OccurredAt.IsZero() {
		return nil, errors.New("occurred_at missing")
	}
	return &env, nil
}
