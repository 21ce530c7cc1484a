package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
)

// RedisCache keeps each tenant's payload as one JSON blob in Redis, which
// lets several gateway instances share the same working copy.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// DialRedis connects and verifies the server is reachable before the
// cache is handed to any service.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %v", addr, err)
	}
	return client, nil
}

func (c *RedisCache) key(tenant string) string {
	return config.PayloadCacheKey + ":" + tenant
}

func (c *RedisCache) Load(ctx context.Context, tenant string) (*ingest.Payload, error) {
	raw, err := c.client.Get(ctx, c.key(tenant)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read payload cache: %v", err)
	}
	var p ingest.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payload cache: %v", err)
	}
	p.Normalize()
	return &p, nil
}

func (c *RedisCache) Save(ctx context.Context, tenant string, p *ingest.Payload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload cache: %v", err)
	}
	if err := c.client.Set(ctx, c.key(tenant), raw, 0).Err(); err != nil {
		return fmt.Errorf("write payload cache: %v", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context, tenant string) error {
	if err := c.client.Del(ctx, c.key(tenant)).Err(); err != nil {
		return fmt.Errorf("clear payload cache: %v", err)
	}
	return nil
}
