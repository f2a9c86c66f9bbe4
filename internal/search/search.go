// Package search filters catalog products, orders and customers in memory.
// Every function is pure: it copies what it keeps and never caches.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Category values that disable the category filter.
const (
	CategoryAll      = "all"
	CategoryAllLabel = "Todos"
)

// StatusAll disables the order status filter.
const StatusAll = "all"

// ProductFilter narrows a product collection. Zero values match everything.
type ProductFilter struct {
	Category   string
	Vendor     string
	Visibility enums.VisibilityFilter
	Query      string
}

// OrderFilter narrows an order collection. From and To are calendar days;
// only their date part in Location matters.
type OrderFilter struct {
	Status   string
	From     *time.Time
	To       *time.Time
	Query    string
	Location *time.Location
}

// CustomerFilter narrows a customer collection.
type CustomerFilter struct {
	Query string
}

// Terms lower-cases the query and splits it on whitespace.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// MatchesAll reports whether every term is a substring of the lower-cased
// haystack. An empty term list matches.
func MatchesAll(haystack string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack = strings.ToLower(haystack)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// CategoryMatches treats empty, "all" and "Todos" as no filter.
func CategoryMatches(filter, category string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, CategoryAll) || filter == CategoryAllLabel {
		return true
	}
	return category == filter
}

// VisibilityMatches applies the admin visibility filter.
func VisibilityMatches(filter enums.VisibilityFilter, p catalog.Product) bool {
	switch filter {
	case enums.VisibilityVisible:
		return p.IsVisible()
	case enums.VisibilityHidden:
		return !p.IsVisible()
	default:
		return true
	}
}

// StartOfDay returns 00:00:00.000 of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// FilterProducts keeps collection order.
func FilterProducts(products []catalog.Product, f ProductFilter) []catalog.Product {
	terms := Terms(f.Query)
	vendor := strings.TrimSpace(f.Vendor)
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if !CategoryMatches(f.Category, p.Category) {
			continue
		}
		if vendor != "" && !strings.EqualFold(vendor, strings.TrimSpace(p.Vendor)) {
			continue
		}
		if !VisibilityMatches(f.Visibility, p) {
			continue
		}
		if !MatchesAll(p.ID+" "+p.Name+" "+p.Description, terms) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterOrders returns the matching orders newest first.
func FilterOrders(list []orders.Order, f OrderFilter) []orders.Order {
	terms := Terms(f.Query)
	status := strings.ToLower(strings.TrimSpace(f.Status))
	var from, to time.Time
	if f.From != nil {
		from = StartOfDay(*f.From, f.Location)
	}
	if f.To != nil {
		to = EndOfDay(*f.To, f.Location)
	}

	out := make([]orders.Order, 0, len(list))
	for _, o := range list {
		if status != "" && status != StatusAll && string(o.EffectiveStatus()) != status {
			continue
		}
		if f.From != nil && o.Date.Before(from) {
			continue
		}
		if f.To != nil && o.Date.After(to) {
			continue
		}
		if !MatchesAll(orderHaystack(o), terms) {
			continue
		}
		out = append(out, o)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders by date descending, keeping ties stable.
func SortNewestFirst(list []orders.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
}

// FilterCustomers keeps collection order.
func FilterCustomers(list []customers.Customer, f CustomerFilter) []customers.Customer {
	terms := Terms(f.Query)
	out := make([]customers.Customer, 0, len(list))
	for _, c := range list {
		haystack := strings.Join([]string{c.ID, c.FirstName, c.LastName, c.Email, c.Phone}, " ")
		if MatchesAll(haystack, terms) {
			out = append(out, c)
		}
	}
	return out
}

func orderHaystack(o orders.Order) string {
	var b strings.Builder
	b.WriteString(o.ID)
	b.WriteByte(' ')
	b.WriteString(o.CustomerName)
	b.WriteByte(' ')
	b.WriteString(o.CustomerID)
	for _, item := range o.Items {
		b.WriteByte(' ')
		b.WriteString(item.Product.Name)
		b.WriteByte(' ')
		b.WriteString(item.Product.ID)
	}
	return b.String()
}
