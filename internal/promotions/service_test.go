package promotions

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	svc, err := NewService(NewRepository(client.DB()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPromotionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	second, err := svc.Create(ctx, Input{Title: "Envio gratis", Position: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := svc.Create(ctx, Input{Title: " Hot Sale ", ImageURL: "https://cdn.example.com/hot.jpg", ImageHint: "mate sobre mesa", Position: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Title != "Hot Sale" {
		t.Fatalf("expected trimmed title, got %q", first.Title)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected position order, got %+v", list)
	}

	updated, err := svc.Update(ctx, second.ID, Input{Title: "Envio gratis +$50.000", Position: 0})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Position != 0 {
		t.Fatalf("expected position 0, got %d", updated.Position)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, first.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
