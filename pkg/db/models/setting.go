package models

import (
	"encoding/json"
	"time"

	dbtypes "github.com/angelmondragon/storefront-backend/pkg/db/types"
)

// Setting is a storefront-wide key holding a JSON value.
type Setting struct {
	Key       string                        `gorm:"column:key;primaryKey"`
	Value     dbtypes.JSON[json.RawMessage] `gorm:"column:value;not null"`
	UpdatedAt time.Time                     `gorm:"column:updated_at;autoUpdateTime"`
}
