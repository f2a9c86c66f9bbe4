package db

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

var memCounter atomic.Int64

// OpenMemory opens an isolated in-memory SQLite database with the full
// schema applied. Each call gets its own database, served by a single
// connection.
func OpenMemory() (*Client, error) {
	name := fmt.Sprintf("file:storefront_%d?mode=memory&cache=shared", memCounter.Add(1))
	conn, err := gorm.Open(sqlite.Open(name), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Client{conn: conn}, nil
}
