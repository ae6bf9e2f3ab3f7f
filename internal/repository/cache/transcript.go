package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/pkg/utils"
)

// RedisTranscriptCache keeps cleaned transcripts keyed by audio digest so a
// re-uploaded recording skips transcription.
type RedisTranscriptCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func TranscriptKey(digest string) string {
	return fmt.Sprintf("transcript:%s", digest)
}

func NewRedisTranscriptCache(rc *redis.Client, ttl time.Duration) lecture.TranscriptCache {
	return &RedisTranscriptCache{rc: rc, ttl: ttl}
}

// Get implements lecture.TranscriptCache.
func (c *RedisTranscriptCache) Get(ctx context.Context, digest string) (*lecture.CachedTranscript, error) {
	raw, err := c.rc.WithContext(ctx).Get(TranscriptKey(digest)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, utils.XError{Reason: "fetching cached transcript", Meta: err}.ToError()
	}

	var entry lecture.CachedTranscript
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// a corrupt entry is a miss; the next Set overwrites it
		return nil, nil
	}
	return &entry, nil
}

// Set implements lecture.TranscriptCache.
func (c *RedisTranscriptCache) Set(ctx context.Context, digest string, t lecture.CachedTranscript) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("can't marshal transcript: %w", err)
	}
	if err := c.rc.WithContext(ctx).Set(TranscriptKey(digest), data, c.ttl).Err(); err != nil {
		return utils.XError{Reason: "storing transcript", Meta: err}.ToError()
	}
	return nil
}
