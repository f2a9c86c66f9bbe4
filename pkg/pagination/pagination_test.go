package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := Slice(items, Params{Page: 2, Limit: 2})
	if len(page) != 2 || page[0] != 3 || page[1] != 4 {
		t.Fatalf("unexpected page %v", page)
	}
	if meta.Total != 5 || !meta.HasNext {
		t.Fatalf("unexpected meta %+v", meta)
	}

	page, meta = Slice(items, Params{Page: 3, Limit: 2})
	if len(page) != 1 || page[0] != 5 || meta.HasNext {
		t.Fatalf("unexpected last page %v %+v", page, meta)
	}

	page, meta = Slice(items, Params{Page: 9, Limit: 2})
	if len(page) != 0 || meta.HasNext {
		t.Fatalf("expected empty page past the end, got %v %+v", page, meta)
	}

	page, meta = Slice(items, Params{})
	if len(page) != 5 || meta.Page != 1 || meta.Limit != DefaultLimit {
		t.Fatalf("unexpected defaults %v %+v", page, meta)
	}
}
