package cart

import (
	"encoding/json"
	"math/rand"
	"sort"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price int64, unitsPerBulk *int) catalog.Product {
	return catalog.Product{
		ID:           id,
		Name:         "Producto " + id,
		Price:        decimal.NewFromInt(price),
		Images:       []string{"https://cdn.example.com/" + id + ".jpg"},
		Category:     "Mates",
		Stock:        50,
		UnitsPerBulk: unitsPerBulk,
	}
}

func intPtr(v int) *int { return &v }

func TestAddMergesQuantityAndKeepsFirstUnitPrice(t *testing.T) {
	var c Cart
	p := testProduct("p1", 100, nil)

	c.Add(p, 2, enums.PresentationUnit)
	p.Price = decimal.NewFromInt(999)
	c.Add(p, 3, enums.PresentationUnit)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, c.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(500)))
}

func TestPresentationsAreSeparateLines(t *testing.T) {
	var c Cart
	p := testProduct("p1", 100, intPtr(6))

	c.Add(p, 1, enums.PresentationUnit)
	c.Add(p, 2, enums.PresentationBulk)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 1, c.Quantity("p1", enums.PresentationUnit))
	assert.Equal(t, 2, c.Quantity("p1", enums.PresentationBulk))
	assert.True(t, c.Items[1].UnitPrice.Equal(decimal.NewFromInt(600)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, 3, c.Count())
}

func TestBulkWithoutUnitsPerBulkUsesMultiplierOne(t *testing.T) {
	var c Cart
	c.Add(testProduct("p1", 250, nil), 1, enums.PresentationBulk)
	assert.True(t, c.Items[0].UnitPrice.Equal(decimal.NewFromInt(250)))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	var c Cart
	c.Add(testProduct("p1", 100, nil), 2, enums.PresentationUnit)

	c.UpdateQuantity("p1", enums.PresentationUnit, 0)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Quantity("p1", enums.PresentationUnit))

	c.Add(testProduct("p1", 100, nil), 2, enums.PresentationUnit)
	c.UpdateQuantity("p1", enums.PresentationUnit, -4)
	assert.Empty(t, c.Items)
}

func TestUpdateQuantityReplacesVerbatim(t *testing.T) {
	var c Cart
	c.Add(testProduct("p1", 100, nil), 2, enums.PresentationUnit)
	c.UpdateQuantity("p1", enums.PresentationUnit, 7)
	assert.Equal(t, 7, c.Quantity("p1", enums.PresentationUnit))
}

func TestRemoveMissingLineIsNoop(t *testing.T) {
	var c Cart
	c.Add(testProduct("p1", 100, nil), 1, enums.PresentationUnit)
	c.Remove("p1", enums.PresentationBulk)
	c.Remove("nope", enums.PresentationUnit)
	assert.Len(t, c.Items, 1)
}

func TestRandomOperationSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := []catalog.Product{
		testProduct("a", 10, nil),
		testProduct("b", 20, intPtr(4)),
		testProduct("c", 30, intPtr(12)),
	}
	presentations := []enums.Presentation{enums.PresentationUnit, enums.PresentationBulk}

	for run := 0; run < 200; run++ {
		var c Cart
		for step := 0; step < 30; step++ {
			p := products[rng.Intn(len(products))]
			pres := presentations[rng.Intn(len(presentations))]
			switch rng.Intn(4) {
			case 0:
				c.Add(p, rng.Intn(5)+1, pres)
			case 1:
				c.UpdateQuantity(p.ID, pres, rng.Intn(7)-2)
			case 2:
				c.Remove(p.ID, pres)
			case 3:
				if rng.Intn(10) == 0 {
					c.Clear()
				}
			}

			sum := 0
			seen := map[string]bool{}
			for _, item := range c.Items {
				require.Positive(t, item.Quantity)
				key := item.Product.ID + "|" + string(item.Presentation)
				require.False(t, seen[key], "duplicate line %s", key)
				seen[key] = true
				sum += item.Quantity
			}
			require.Equal(t, sum, c.Count())
		}
	}
}

func TestSnapshotRoundTripReproducesLines(t *testing.T) {
	var c Cart
	c.Add(testProduct("a", 10, nil), 2, enums.PresentationUnit)
	c.Add(testProduct("b", 20, intPtr(4)), 1, enums.PresentationBulk)
	c.Add(testProduct("c", 30, nil), 5, enums.PresentationUnit)

	raw, err := json.Marshal(&c)
	require.NoError(t, err)

	var restored Cart
	require.NoError(t, json.Unmarshal(raw, &restored))
	restored.normalize()

	assert.ElementsMatch(t, lineKeys(&c), lineKeys(&restored))
	assert.True(t, c.Total().Equal(restored.Total()))
	assert.Equal(t, c.Count(), restored.Count())
}

func TestNormalizeDropsInvalidLines(t *testing.T) {
	c := Cart{Items: []Line{
		{Product: catalog.Product{ID: "a"}, Quantity: 0},
		{Product: catalog.Product{ID: "b"}, Quantity: 2},
		{Product: catalog.Product{ID: "b"}, Quantity: 1, Presentation: enums.PresentationUnit},
		{Product: catalog.Product{ID: "c"}, Quantity: 1, Presentation: "crate"},
	}}
	c.normalize()
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, enums.PresentationUnit, c.Items[0].Presentation)
}

func lineKeys(c *Cart) []string {
	out := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		out = append(out, item.Product.ID+"|"+string(item.Presentation)+"|"+item.UnitPrice.String()+"|"+decimal.NewFromInt(int64(item.Quantity)).String())
	}
	sort.Strings(out)
	return out
}
