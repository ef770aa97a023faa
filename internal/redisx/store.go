package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ordertrackhq/order-tracker/internal/orders"
)

// Store persists each record as a JSON value with a native redis TTL and
// maintains the owner secondary index as a set of order ids. Index members of
// already-expired records are pruned lazily during QueryByOwner.
type Store struct {
	rdb    *redis.Client
	prefix string
}

func NewStore(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) orderKey(id string) string  { return fmt.Sprintf(KeyOrder, s.prefix, id) }
func (s *Store) ownerKey(uid string) string { return fmt.Sprintf(KeyOwnerIndex, s.prefix, uid) }

func (s *Store) Put(ctx context.Context, o orders.Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	ttl := time.Until(time.Unix(o.TTL, 0))
	if ttl <= 0 {
		ttl = time.Second
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.orderKey(o.OrderID), b, ttl)
	pipe.SAdd(ctx, s.ownerKey(o.UserID), o.OrderID)
	// keep the index alive at least as long as its newest member
	pipe.Expire(ctx, s.ownerKey(o.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put order %s: %w", o.OrderID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, orderID string) (orders.Order, error) {
	v, err := s.rdb.Get(ctx, s.orderKey(orderID)).Result()
	if err == redis.Nil {
		return orders.Order{}, orders.ErrNotFound
	}
	if err != nil {
		return orders.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	var o orders.Order
	if err := json.Unmarshal([]byte(v), &o); err != nil {
		return orders.Order{}, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	return o, nil
}

func (s *Store) QueryByOwner(ctx context.Context, userID string) ([]orders.Order, error) {
	ids, err := s.rdb.SMembers(ctx, s.ownerKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("owner index %s: %w", userID, err)
	}
	if len(ids) == 0 {
		return []orders.Order{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.orderKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch owner orders %s: %w", userID, err)
	}

	out := make([]orders.Order, 0, len(vals))
	var stale []any
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok { // value expired but its index member is still around
			stale = append(stale, ids[i])
			continue
		}
		var o orders.Order
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", ids[i], err)
		}
		out = append(out, o)
	}
	if len(stale) > 0 {
		_ = s.rdb.SRem(ctx, s.ownerKey(userID), stale...).Err()
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].OrderID < out[j].OrderID
	})
	if len(out) > orders.MaxList {
		out = out[:orders.MaxList]
	}
	return out, nil
}
