package dbtypes

import (
	"testing"
)

func TestStringArrayRoundTrip(t *testing.T) {
	in := StringArray{"https://cdn.test/a.jpg", "https://cdn.test/b,c.jpg"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out StringArray
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(out) != 2 || out[1] != in[1] {
		t.Fatalf("unexpected round trip %v", out)
	}

	var empty StringArray
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil array, got %#v", empty)
	}
}

func TestJSONScanFormats(t *testing.T) {
	type line struct {
		Name string `json:"name"`
		Qty  int    `json:"qty"`
	}

	var fromBytes JSON[[]line]
	if err := fromBytes.Scan([]byte(`[{"name":"Mate","qty":2}]`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if len(fromBytes.Data) != 1 || fromBytes.Data[0].Qty != 2 {
		t.Fatalf("unexpected data %+v", fromBytes.Data)
	}

	var fromString JSON[[]line]
	if err := fromString.Scan(`[]`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if fromString.Data == nil || len(fromString.Data) != 0 {
		t.Fatalf("expected empty slice, got %#v", fromString.Data)
	}

	if err := fromString.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}

	v, err := NewJSON(map[string]string{"a": "b"}).Value()
	if err != nil || v != `{"a":"b"}` {
		t.Fatalf("unexpected value %v err=%v", v, err)
	}
}
