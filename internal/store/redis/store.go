package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/session"
)

const (
	// DefaultSessionTTL is used when the store is created with a zero TTL
	DefaultSessionTTL = 24 * time.Hour
	// maxTxRetries bounds optimistic-lock retries in Update
	maxTxRetries = 8
)

// Store handles Redis operations for navbar sessions and the published catalog
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

var _ session.Store = (*Store)(nil)

// NewStore creates a new Redis store. Session keys expire after ttl of inactivity.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a session state from Redis by ID
func (s *Store) Get(ctx context.Context, id string) (domain.State, error) {
	data, err := s.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.State{}, session.ErrNotFound
		}
		return domain.State{}, fmt.Errorf("failed to get session: %w", err)
	}
	return decodeState(data)
}

// Update applies fn to the stored state inside a WATCH/MULTI transaction.
// A concurrent write to the same key makes the transaction fail and fn is
// re-run against the fresh value.
func (s *Store) Update(ctx context.Context, id string, fn session.UpdateFunc) (domain.State, domain.State, error) {
	key := SessionKey(id)

	var prev, next domain.State
	txf := func(tx *redis.Tx) error {
		prev = domain.InitialState()
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to get session: %w", err)
		default:
			if prev, err = decodeState(data); err != nil {
				return err
			}
		}

		next, err = fn(prev)
		if err != nil {
			next = prev
			return err
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return prev, next, err
	}
	return prev, prev, fmt.Errorf("failed to update session %s: too much contention", id)
}

// Delete removes a session from Redis
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, SessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CountSessions scans the session keyspace. Expiry is left to Redis TTLs.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixSession+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return n, nil
}

// Fields missing from the stored value keep their initial (closed) values.
func decodeState(data []byte) (domain.State, error) {
	st := domain.InitialState()
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.State{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return st, nil
}
