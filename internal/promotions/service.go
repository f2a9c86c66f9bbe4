package promotions

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion is a storefront banner.
type Promotion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ImageHint   string `json:"image_hint"`
	Link        string `json:"link"`
	Position    int    `json:"position"`
}

// Input creates or replaces a promotion.
type Input struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	ImageHint   string `json:"image_hint" validate:"max=200"`
	Link        string `json:"link" validate:"max=500"`
	Position    int    `json:"position" validate:"gte=0"`
}

// Repository persists promotions ordered by position.
type Repository struct {
	repo.Keyed[models.Promotion]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Keyed: repo.NewKeyed[models.Promotion](db, "id", "position ASC", "created_at ASC")}
}

// Service manages storefront promotions.
type Service interface {
	List(ctx context.Context) ([]Promotion, error)
	Get(ctx context.Context, id string) (*Promotion, error)
	Create(ctx context.Context, input Input) (*Promotion, error)
	Update(ctx context.Context, id string, input Input) (*Promotion, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Promotion, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}
	out := make([]Promotion, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Promotion, error) {
	row, err := s.repo.Find(ctx, strings.TrimSpace(id))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	p := fromModel(*row)
	return &p, nil
}

func (s *service) Create(ctx context.Context, input Input) (*Promotion, error) {
	row := models.Promotion{ID: uuid.NewString()}
	apply(&row, input)
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert promotion")
	}
	p := fromModel(row)
	return &p, nil
}

func (s *service) Update(ctx context.Context, id string, input Input) (*Promotion, error) {
	row, err := s.repo.Find(ctx, strings.TrimSpace(id))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	apply(row, input)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update promotion")
	}
	p := fromModel(*row)
	return &p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete promotion")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	return nil
}

func apply(row *models.Promotion, input Input) {
	row.Title = strings.TrimSpace(input.Title)
	row.Description = strings.TrimSpace(input.Description)
	row.ImageURL = strings.TrimSpace(input.ImageURL)
	row.ImageHint = strings.TrimSpace(input.ImageHint)
	row.Link = strings.TrimSpace(input.Link)
	row.Position = input.Position
}

func fromModel(m models.Promotion) Promotion {
	return Promotion{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		ImageHint:   m.ImageHint,
		Link:        m.Link,
		Position:    m.Position,
	}
}
