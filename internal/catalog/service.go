package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes catalog reads for the storefront and writes for admins.
type Service interface {
	ListAll(ctx context.Context) ([]Product, error)
	ListVisible(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	GetVisible(ctx context.Context, id string) (*Product, error)
	Categories(ctx context.Context) ([]string, error)
	Vendors(ctx context.Context) ([]string, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error)
	SetVisibility(ctx context.Context, id string, visible bool) (*Product, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, id string, patch UpdateProductInput) (*Product, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) ListVisible(ctx context.Context) ([]Product, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if p.IsVisible() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	product := FromModel(*row)
	return &product, nil
}

// GetVisible hides products shoppers must not see behind the same 404.
func (s *service) GetVisible(ctx context.Context, id string) (*Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsVisible() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	visible, err := s.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(visible, func(p Product) string { return p.Category }), nil
}

func (s *service) Vendors(ctx context.Context) ([]string, error) {
	visible, err := s.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(visible, func(p Product) string { return p.Vendor }), nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*Product, error) {
	product := input.toProduct()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := Validate(product, true); err != nil {
		return nil, err
	}
	row := ToModel(product)
	if err := s.repo.Create(ctx, &row); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product id already exists").WithDetails(map[string]any{"id": product.ID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	created := FromModel(row)
	return &created, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(product, input)
	if err := Validate(*product, true); err != nil {
		return nil, err
	}
	return s.save(ctx, *product)
}

func (s *service) SetVisibility(ctx context.Context, id string, visible bool) (*Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Visible = &visible
	return s.save(ctx, *product)
}

func (s *service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// Upsert applies patch to the product with id, creating it when missing.
// Fields left nil in patch keep their stored value.
func (s *service) Upsert(ctx context.Context, id string, patch UpdateProductInput) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product := Product{ID: id}
	existing, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		product = FromModel(*existing)
	case !db.IsNotFound(err):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	applyUpdate(&product, patch)
	if err := Validate(product, false); err != nil {
		return nil, err
	}
	if existing != nil {
		return s.save(ctx, product)
	}
	row := ToModel(product)
	if err := s.repo.Upsert(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert product")
	}
	saved := FromModel(row)
	return &saved, nil
}

func (s *service) save(ctx context.Context, product Product) (*Product, error) {
	row := ToModel(product)
	if err := s.repo.Save(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	saved := FromModel(row)
	return &saved, nil
}

// Validate checks the catalog invariants that struct tags cannot express.
// requireImages is false for imports, whose minimal column set has no images.
func Validate(p Product, requireImages bool) error {
	details := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(p.Category) == "" {
		details["category"] = "is required"
	}
	switch {
	case !p.Price.IsPositive():
		details["price"] = "must be greater than 0"
	case !p.Price.Equal(p.Price.Round(2)):
		details["price"] = "must have at most 2 decimals"
	}
	if p.Stock < 0 {
		details["stock"] = "must be greater than or equal to 0"
	}
	if p.UnitsPerBulk != nil && *p.UnitsPerBulk <= 0 {
		details["units_per_bulk"] = "must be greater than 0"
	}
	if requireImages && len(p.Images) == 0 {
		details["images"] = "is required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func distinct(products []Product, key func(Product) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range products {
		value := strings.TrimSpace(key(p))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
