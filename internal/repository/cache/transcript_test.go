package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
)

func newTestCache(t *testing.T, ttl time.Duration) (lecture.TranscriptCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return NewRedisTranscriptCache(rc, ttl), mr
}

func TestSetAndGet(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	want := lecture.CachedTranscript{Text: "Today we discuss entropy.", Raw: "today we we discuss entropy", Language: "en"}
	if err := c.Set(ctx, "d1", want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if ttl := mr.TTL(TranscriptKey("d1")); ttl != time.Hour {
		t.Errorf("unexpected ttl %s", ttl)
	}
}

func TestMiss(t *testing.T) {
	c, _ := newTestCache(t, 0)
	got, err := c.Get(context.Background(), "unknown")
	if err != nil || got != nil {
		t.Errorf("expected clean miss, got %+v, %v", got, err)
	}
}

func TestExpiry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	if err := c.Set(ctx, "d2", lecture.CachedTranscript{Text: "x"}); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if got, _ := c.Get(ctx, "d2"); got != nil {
		t.Errorf("expected expired entry, got %+v", got)
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t, 0)
	if err := mr.Set(TranscriptKey("bad"), "{not json"); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(context.Background(), "bad")
	if err != nil || got != nil {
		t.Errorf("expected miss, got %+v, %v", got, err)
	}
}

func TestRedisDown(t *testing.T) {
	c, mr := newTestCache(t, 0)
	mr.Close()
	if _, err := c.Get(context.Background(), "d"); err == nil {
		t.Error("expected error with redis down")
	}
	if err := c.Set(context.Background(), "d", lecture.CachedTranscript{Text: "x"}); err == nil {
		t.Error("expected error with redis down")
	}
}
