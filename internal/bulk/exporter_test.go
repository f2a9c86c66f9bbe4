package bulk

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportOrdersWritesOneRowPerLine(t *testing.T) {
	comment := "entregar por la tarde"
	list := []orders.Order{
		{
			ID:           "o1",
			CustomerID:   "c1",
			CustomerName: "Ana Paz",
			Date:         time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			Items: []orders.Line{
				{Product: catalog.Product{ID: "p1", Name: "Mate"}, Quantity: 2, Presentation: enums.PresentationUnit, UnitPrice: decimal.RequireFromString("100")},
				{Product: catalog.Product{ID: "p2", Name: "Yerba"}, Quantity: 1, Presentation: enums.PresentationBulk, UnitPrice: decimal.RequireFromString("900")},
			},
			Comment: &comment,
			Total:   decimal.RequireFromString("1100"),
		},
		{
			ID:         "o2",
			CustomerID: "c2",
			Date:       time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
			Status:     enums.OrderStatusCompleted,
			Items: []orders.Line{
				{Product: catalog.Product{ID: "p1", Name: "Mate"}, Quantity: 1, Presentation: enums.PresentationUnit, UnitPrice: decimal.RequireFromString("100")},
			},
			Total: decimal.RequireFromString("100"),
		},
	}

	body, err := OrdersCSV(list, time.UTC)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, orderColumns, rows[0])
	assert.Equal(t, []string{"o1", "2024-01-15T12:00:00Z", "pendiente", "c1", "Ana Paz", "p1", "Mate", "unit", "2", "100.00", "200.00", "1100.00", comment}, rows[1])
	assert.Equal(t, "900.00", rows[2][10])
	assert.Equal(t, "completado", rows[3][2])
	assert.Equal(t, "", rows[3][12])
}
