package job

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis"
)

// SummaryCache stores summaries keyed by transcript content so a
// re-submitted recording does not pay for a second model call.
type SummaryCache interface {
	Get(transcript string) (string, bool)
	Set(transcript, summary string)
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	return &redisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return "summary:" + hex.EncodeToString(sum[:])
}

func (c *redisSummaryCache) Get(transcript string) (string, bool) {
	val, err := c.client.Get(summaryKey(transcript)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisSummaryCache) Set(transcript, summary string) {
	// Cache writes are best effort.
	c.client.Set(summaryKey(transcript), summary, c.ttl)
}

// NopSummaryCache disables caching. Used when redis is not configured.
type NopSummaryCache struct{}

func (NopSummaryCache) Get(string) (string, bool) { return "", false }
func (NopSummaryCache) Set(string, string)        {}
