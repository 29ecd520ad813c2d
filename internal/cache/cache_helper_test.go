package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "test:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := helper.Set(ctx, "key", payload{Name: "value", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "key", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "value" || got.Count != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestCacheHelper_Miss(t *testing.T) {
	helper, _ := newTestCache(t)

	var got string
	err := helper.Get(context.Background(), "missing", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("err = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_Expiry(t *testing.T) {
	helper, mr := newTestCache(t)
	ctx := context.Background()

	if err := helper.SetString(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := helper.GetString(ctx, "key"); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("err = %v, want ErrCacheNotFound after expiry", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"tutor:a:1", "tutor:a:2", "tutor:b:1"} {
		if err := helper.SetString(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "tutor:a:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if _, err := helper.GetString(ctx, "tutor:a:1"); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("tutor:a:1 survived invalidation")
	}
	if _, err := helper.GetString(ctx, "tutor:b:1"); err != nil {
		t.Errorf("tutor:b:1 was invalidated: %v", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Set with nil client = %v, want nil", err)
	}
	var got string
	if err := helper.Get(ctx, "key", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get with nil client = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete with nil client = %v, want nil", err)
	}
	if err := helper.InvalidatePattern(ctx, "*"); err != nil {
		t.Errorf("InvalidatePattern with nil client = %v, want nil", err)
	}
}
