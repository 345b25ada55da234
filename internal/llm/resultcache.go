package llm

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// ResultCache stores remote outcomes so repeated transcripts do not pay for
// a second provider call.
type ResultCache interface {
	Get(ctx context.Context, key string) (*Outcome, error)
	Set(ctx context.Context, key string, outcome *Outcome) error
}

var ErrCacheMiss = errors.New("cache miss")

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Outcome, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var outcome Outcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, outcome *Outcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// CacheKey hashes the provider chain together with the transcript.
func CacheKey(chain []string, transcript string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(strings.Join(chain, ",")))
	h.Write([]byte{0})
	h.Write([]byte(transcript))
	return "analysis:" + hex.EncodeToString(h.Sum(nil))
}
