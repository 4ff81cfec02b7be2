package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ApprovalStore keeps the approved review ids in a Redis set under one
// namespaced key. The whole set expires together; every write refreshes the
// TTL, so an actively curated set never lapses.
type ApprovalStore struct {
	c   *redis.Client
	key string
	ttl time.Duration
}

func NewApprovalStore(c *redis.Client, key string, ttl time.Duration) *ApprovalStore {
	return &ApprovalStore{c: c, key: key, ttl: ttl}
}

func (s *ApprovalStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.c.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *ApprovalStore) Has(ctx context.Context, id string) (bool, error) {
	return s.c.SIsMember(ctx, s.key, id).Result()
}

func (s *ApprovalStore) Add(ctx context.Context, id string) error {
	pipe := s.c.TxPipeline()
	pipe.SAdd(ctx, s.key, id)
	pipe.Expire(ctx, s.key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *ApprovalStore) Delete(ctx context.Context, id string) error {
	pipe := s.c.TxPipeline()
	pipe.SRem(ctx, s.key, id)
	pipe.Expire(ctx, s.key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
