package orders

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, qty int, unitPrice string) Line {
	return Line{
		Product:      catalog.Product{ID: id, Name: "Producto " + id, Price: decimal.RequireFromString(unitPrice)},
		Quantity:     qty,
		Presentation: enums.PresentationUnit,
		UnitPrice:    decimal.RequireFromString(unitPrice),
	}
}

func TestNewComputesTotalFromCapturedPrices(t *testing.T) {
	comment := "  dejar en porteria "
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	order, err := New("o-1", "c-1", []Line{line("a", 2, "10.50"), line("b", 1, "4")}, &comment, now)
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "dejar en porteria", *order.Comment)
	assert.Equal(t, 3, order.ItemCount())
	assert.Equal(t, now, order.Date)
}

func TestNewRejectsEmptyOrInvalidLines(t *testing.T) {
	now := time.Now()
	_, err := New("o", "c", nil, nil, now)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = New("o", "c", []Line{line("a", 0, "1")}, nil, now)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = New("o", " ", []Line{line("a", 1, "1")}, nil, now)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPatchNeverTouchesTotal(t *testing.T) {
	order, err := New("o", "c", []Line{line("a", 1, "100")}, nil, time.Now())
	require.NoError(t, err)

	status := enums.OrderStatusCompleted
	comment := "entregado"
	require.NoError(t, Patch{Status: &status, Comment: &comment}.Apply(&order))
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(100)))

	bad := enums.OrderStatus("enviado")
	assert.Error(t, Patch{Status: &bad}.Apply(&order))

	empty := "  "
	require.NoError(t, Patch{Comment: &empty}.Apply(&order))
	assert.Nil(t, order.Comment)
}

func TestModelMappingRoundTrip(t *testing.T) {
	units := 6
	l := line("a", 2, "10")
	l.Product.UnitsPerBulk = &units
	l.Presentation = enums.PresentationBulk
	order, err := New("o", "c", []Line{l}, nil, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	restored := FromModel(ToModel(order), "Ana Perez")
	assert.Equal(t, "Ana Perez", restored.CustomerName)
	assert.Equal(t, order.Date, restored.Date)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, enums.PresentationBulk, restored.Items[0].Presentation)
	assert.Equal(t, 6, *restored.Items[0].Product.UnitsPerBulk)
	assert.True(t, restored.Total.Equal(order.Total))
}

func TestEffectiveStatusDefaultsToPending(t *testing.T) {
	assert.Equal(t, enums.OrderStatusPending, Order{}.EffectiveStatus())
}
