package wishlist

import "github.com/angelmondragon/storefront-backend/internal/catalog"

// Wishlist is a set of product snapshots keyed by product id, kept in the
// order products were liked.
type Wishlist struct {
	Items []catalog.Product `json:"items"`
}

// Add is idempotent.
func (w *Wishlist) Add(product catalog.Product) {
	if w.Contains(product.ID) {
		return
	}
	w.Items = append(w.Items, product.Snapshot())
}

// Remove ignores products that are not in the list.
func (w *Wishlist) Remove(productID string) {
	for i := range w.Items {
		if w.Items[i].ID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return
		}
	}
}

// Toggle adds or removes the product and returns the new membership.
func (w *Wishlist) Toggle(product catalog.Product) bool {
	if w.Contains(product.ID) {
		w.Remove(product.ID)
		return false
	}
	w.Add(product)
	return true
}

func (w *Wishlist) Contains(productID string) bool {
	for i := range w.Items {
		if w.Items[i].ID == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Count() int {
	return len(w.Items)
}

// ProductIDs lists the liked product ids in order.
func (w *Wishlist) ProductIDs() []string {
	out := make([]string, 0, len(w.Items))
	for _, item := range w.Items {
		out = append(out, item.ID)
	}
	return out
}

func (w *Wishlist) normalize() {
	out := w.Items[:0]
	seen := map[string]struct{}{}
	for _, item := range w.Items {
		if item.ID == "" {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	w.Items = out
}
