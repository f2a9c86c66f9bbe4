package bulk

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/orders"
)

var orderColumns = []string{
	"order_id",
	"date",
	"status",
	"customer_id",
	"customer_name",
	"product_id",
	"product_name",
	"presentation",
	"quantity",
	"unit_price",
	"subtotal",
	"order_total",
	"comment",
}

// ExportOrders writes one CSV row per order line. Dates are rendered in loc.
func ExportOrders(w io.Writer, list []orders.Order, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(orderColumns); err != nil {
		return err
	}
	for _, order := range list {
		comment := ""
		if order.Comment != nil {
			comment = *order.Comment
		}
		for _, line := range order.Items {
			row := []string{
				order.ID,
				order.Date.In(loc).Format(time.RFC3339),
				string(order.EffectiveStatus()),
				order.CustomerID,
				order.CustomerName,
				line.Product.ID,
				line.Product.Name,
				string(line.Presentation),
				strconv.Itoa(line.Quantity),
				line.UnitPrice.StringFixed(2),
				line.Subtotal().StringFixed(2),
				order.Total.StringFixed(2),
				comment,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// OrdersCSV renders ExportOrders into memory for HTTP responses.
func OrdersCSV(list []orders.Order, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	if err := ExportOrders(&buf, list, loc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
