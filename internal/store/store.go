// Package store is the narrow persistence adapter the integration layer
// talks to: string keys with expiry plus capped lists. The core
// classification and scoring packages never import it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is the abstract persistence contract. RedisStore is the durable
// implementation; MemoryStore is the explicit degradation strategy chosen
// by bootstrap code, never auto-probed.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	ListKeys(ctx context.Context, pattern string) ([]string, error)
	AppendToList(ctx context.Context, key, value string) (int64, error)
	RangeList(ctx context.Context, key string, start, stop int64) ([]string, error)
	TrimList(ctx context.Context, key string, start, stop int64) error
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
	Close() error
}

// Default TTLs for the logical key namespace.
const (
	StateTTL      = 168 * time.Hour
	BeatTTL       = 720 * time.Hour
	EventCacheTTL = 24 * time.Hour
)

// RoutingHistoryMax caps routing-decision lists; every append trims to the
// most recent entries.
const RoutingHistoryMax = 100

// CurrentStateKey points at the most recently saved ledger.
const CurrentStateKey = "state:current"

// StateKey is the ledger state for one session.
func StateKey(sessionID string) string { return fmt.Sprintf("state:%s", sessionID) }

// BeatsKey is the per-session list of beat ids.
func BeatsKey(sessionID string) string { return fmt.Sprintf("beats:%s", sessionID) }

// BeatKey is one serialized beat.
func BeatKey(beatID string) string { return fmt.Sprintf("beat:%s", beatID) }

// EventKey caches one event's classification result.
func EventKey(eventID string) string { return fmt.Sprintf("event:%s", eventID) }

// RoutingKey is the per-session routing-decision list.
func RoutingKey(sessionID string) string { return fmt.Sprintf("routing:%s", sessionID) }

// EpisodeKey is one episode record.
func EpisodeKey(episodeID string) string { return fmt.Sprintf("episode:%s", episodeID) }
