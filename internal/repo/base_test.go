package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	Slug     string `gorm:"primaryKey"`
	Body     string
	Position int
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&note{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}
	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestKeyedRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewKeyed[note](newTestDB(t), "slug", "position ASC")

	for _, n := range []note{{Slug: "b", Position: 2}, {Slug: "a", Position: 1}} {
		n := n
		if err := r.Create(ctx, &n); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Slug != "a" {
		t.Fatalf("expected position order, got %+v", rows)
	}

	got, err := r.Find(ctx, "b")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got.Body = "edited"
	if err := r.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	if again, _ := r.Find(ctx, "b"); again.Body != "edited" {
		t.Fatalf("expected saved body, got %q", again.Body)
	}

	removed, err := r.Delete(ctx, "b")
	if err != nil || !removed {
		t.Fatalf("expected delete, got %v %v", removed, err)
	}
	removed, err = r.Delete(ctx, "b")
	if err != nil || removed {
		t.Fatalf("expected second delete to report nothing removed, got %v %v", removed, err)
	}
	if _, err := r.Find(ctx, "b"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
