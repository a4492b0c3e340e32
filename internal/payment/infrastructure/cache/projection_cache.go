package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/paygate/payment-gateway/internal/payment/application"
)

// Store caches payment projections in Redis for the Get path. Payments are
// immutable once persisted, so a cached projection never goes stale; the
// TTL only bounds memory.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) key(id uuid.UUID) string {
	return fmt.Sprintf("payment:proj:%s", id)
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (application.Projection, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return application.Projection{}, false, nil
	}
	if err != nil {
		return application.Projection{}, false, err
	}

	var proj application.Projection
	if err := json.Unmarshal(raw, &proj); err != nil {
		return application.Projection{}, false, err
	}
	return proj, true, nil
}

func (s *Store) Set(ctx context.Context, proj application.Projection) error {
	raw, err := json.Marshal(proj)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(proj.ID), raw, s.ttl).Err()
}
