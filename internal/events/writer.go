package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// OrderEventRow is one row of the order events table.
type OrderEventRow struct {
	EventID    string             `bigquery:"event_id"`
	EventType  string             `bigquery:"event_type"`
	OccurredAt time.Time          `bigquery:"occurred_at"`
	OrderID    string             `bigquery:"order_id"`
	CustomerID string             `bigquery:"customer_id"`
	Status     string             `bigquery:"status"`
	TotalCents int64              `bigquery:"total_cents"`
	ItemCount  int64              `bigquery:"item_count"`
	Items      cbigquery.NullJSON `bigquery:"items"`
}

// OrderEventSchema is the table layout EnsureTable creates.
var OrderEventSchema = cbigquery.Schema{
	{Name: "event_id", Type: cbigquery.StringFieldType, Required: true},
	{Name: "event_type", Type: cbigquery.StringFieldType, Required: true},
	{Name: "occurred_at", Type: cbigquery.TimestampFieldType, Required: true},
	{Name: "order_id", Type: cbigquery.StringFieldType, Required: true},
	{Name: "customer_id", Type: cbigquery.StringFieldType},
	{Name: "status", Type: cbigquery.StringFieldType},
	{Name: "total_cents", Type: cbigquery.IntegerFieldType},
	{Name: "item_count", Type: cbigquery.IntegerFieldType},
	{Name: "items", Type: cbigquery.JSONFieldType},
}

type tableClient interface {
	EnsureTable(ctx context.Context, table string, schema cbigquery.Schema) error
	InsertRows(ctx context.Context, table string, rows []any) error
}

// Writer turns order envelopes into BigQuery rows.
type Writer struct {
	client tableClient
	table  string
}

func NewWriter(client tableClient, table string) (*Writer, error) {
	if client == nil {
		return nil, errors.New("bigquery client required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, errors.New("order events table is required")
	}
	return &Writer{client: client, table: table}, nil
}

// Setup creates the table when it does not exist.
func (w *Writer) Setup(ctx context.Context) error {
	return w.client.EnsureTable(ctx, w.table, OrderEventSchema)
}

func (w *Writer) Write(ctx context.Context, env Envelope) error {
	row, err := RowFromEnvelope(env)
	if err != nil {
		return err
	}
	return w.client.InsertRows(ctx, w.table, []any{row})
}

// RowFromEnvelope maps an order.created envelope to its table row.
func RowFromEnvelope(env Envelope) (*OrderEventRow, error) {
	if env.EventType != EventOrderCreated {
		return nil, fmt.Errorf("unsupported event type %q", env.EventType)
	}
	var data OrderCreated
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode order.created: %w", err)
	}
	items, err := json.Marshal(data.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return &OrderEventRow{
		EventID:    env.EventID,
		EventType:  env.EventType,
		OccurredAt: env.OccurredAt.UTC(),
		OrderID:    data.OrderID,
		CustomerID: data.CustomerID,
		Status:     data.Status,
		TotalCents: data.Total.Shift(2).Round(0).IntPart(),
		ItemCount:  int64(data.ItemCount),
		Items:      cbigquery.NullJSON{JSONVal: string(items), Valid: true},
	}, nil
}
