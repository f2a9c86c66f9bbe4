package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/storefront-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,63}$`)

// Setting is one storefront-wide key with a free-form JSON value.
type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Repository struct {
	repo.Keyed[models.Setting]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Keyed: repo.NewKeyed[models.Setting](db, "key", "key ASC")}
}

// Put upserts by key, last write wins.
func (r *Repository) Put(ctx context.Context, row *models.Setting) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(row).Error
}

// Service reads and writes storefront settings.
type Service interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Put(ctx context.Context, key string, value json.RawMessage) (*Setting, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Setting, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings")
	}
	out := make([]Setting, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, key string) (*Setting, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.Find(ctx, key)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	setting := fromModel(*row)
	return &setting, nil
}

// Put stores any valid JSON document under key.
func (s *service) Put(ctx context.Context, key string, value json.RawMessage) (*Setting, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting value must be valid JSON")
	}
	row := models.Setting{Key: key, Value: dbtypes.NewJSON(value)}
	if err := s.repo.Put(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: put setting")
	}
	setting := fromModel(row)
	return &setting, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete setting")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	return nil
}

func normalizeKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !keyPattern.MatchString(key) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid setting key").
			WithDetails(map[string]any{"key": key, "pattern": keyPattern.String()})
	}
	return key, nil
}

func fromModel(m models.Setting) Setting {
	return Setting{Key: m.Key, Value: m.Value.Data, UpdatedAt: m.UpdatedAt}
}
