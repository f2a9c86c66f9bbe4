package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	redisclient "github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Slot names the durable per-session keys.
type Slot string

const (
	SlotCart     Slot = "cart"
	SlotWishlist Slot = "wishlist"
)

var ErrSessionRequired = errors.New("session id is required")

// KV is the key-value surface the store needs; *redis.Client satisfies it.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SnapshotKey(slot, sessionID string) string
}

// Store reads and writes JSON snapshots keyed by (slot, session id). Every
// save overwrites the slot, so concurrent writers resolve last-write-wins.
type Store struct {
	kv   KV
	ttl  time.Duration
	logg *logger.Logger
}

func NewStore(kv KV, ttl time.Duration, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("session kv store is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{kv: kv, ttl: ttl, logg: logg}, nil
}

// Load decodes the slot into dest and reports whether a snapshot was found.
// A snapshot that cannot be decoded is logged and reported as missing.
func (s *Store) Load(ctx context.Context, slot Slot, sessionID string, dest any) (bool, error) {
	key, err := s.key(slot, sessionID)
	if err != nil {
		return false, err
	}
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.ErrNil) {
			return false, nil
		}
		return false, fmt.Errorf("load %s snapshot: %w", slot, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"slot":       string(slot),
			"session_id": sessionID,
			"error":      err.Error(),
		})
		s.logg.Warn(logCtx, "session.snapshot_corrupt")
		return false, nil
	}
	return true, nil
}

// Save encodes value into the slot and refreshes its TTL.
func (s *Store) Save(ctx context.Context, slot Slot, sessionID string, value any) error {
	key, err := s.key(slot, sessionID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", slot, err)
	}
	if err := s.kv.Set(ctx, key, string(payload), s.ttl); err != nil {
		return fmt.Errorf("save %s snapshot: %w", slot, err)
	}
	return nil
}

// Delete drops the slot.
func (s *Store) Delete(ctx context.Context, slot Slot, sessionID string) error {
	key, err := s.key(slot, sessionID)
	if err != nil {
		return err
	}
	return s.kv.Del(ctx, key)
}

func (s *Store) key(slot Slot, sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", ErrSessionRequired
	}
	return s.kv.SnapshotKey(string(slot), sessionID), nil
}
