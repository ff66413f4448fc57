package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheManager(client), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	cm, _ := newTestManager(t)
	ctx := context.Background()

	type payload struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	in := payload{ID: "c1", Title: "Intro to Go"}
	if err := cm.Course.Set(ctx, "id:c1", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out payload
	if err := cm.Course.Get(ctx, "id:c1", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	cm, _ := newTestManager(t)

	var out map[string]string
	err := cm.Course.Get(context.Background(), "id:missing", &out)
	if err != ErrCacheNotFound {
		t.Errorf("got %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	if err := cm.Course.Set(ctx, "id:c1", "x", time.Minute); err != nil {
		t.Errorf("Set on nil client should be a no-op, got %v", err)
	}

	var out string
	if err := cm.Course.Get(ctx, "id:c1", &out); err != ErrCacheNotAvailable {
		t.Errorf("got %v, want ErrCacheNotAvailable", err)
	}
}

func TestCacheManager_InvalidateCourse(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	if err := cm.Course.Set(ctx, "id:c1", "x", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cm.Course.Set(ctx, "list:published:0:20", "y", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cm.InvalidateCourse(ctx, "c1")

	if mr.Exists("course:id:c1") {
		t.Error("course id key should be invalidated")
	}
	if mr.Exists("course:list:published:0:20") {
		t.Error("course list keys should be invalidated")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	for _, key := range []string{"user:u1:a", "user:u1:b", "user:u2:a"} {
		if err := cm.Stats.Set(ctx, key, 1, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := cm.Stats.InvalidatePattern(ctx, "user:u1:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if mr.Exists("stats:user:u1:a") || mr.Exists("stats:user:u1:b") {
		t.Error("matching keys should be removed")
	}
	if !mr.Exists("stats:user:u2:a") {
		t.Error("non-matching keys should survive")
	}
}
