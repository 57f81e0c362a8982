package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"groupware-approval/internal/usecase/notification"
)

func newCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *BadgeCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewBadgeCache(rdb, ttl)
}

func TestBadgeCache_GetSet(t *testing.T) {
	ctx := context.Background()
	mr, c := newCache(t, time.Minute)

	if v, ok, err := c.Get(ctx, notification.KindApproval, 7); err != nil || ok || v {
		t.Fatalf("miss: v=%v ok=%v err=%v", v, ok, err)
	}

	if err := c.Set(ctx, notification.KindApproval, 7, true); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, notification.KindAuthor, 7, false); err != nil {
		t.Fatal(err)
	}

	if v, ok, err := c.Get(ctx, notification.KindApproval, 7); err != nil || !ok || !v {
		t.Fatalf("approval: v=%v ok=%v err=%v", v, ok, err)
	}
	if v, ok, err := c.Get(ctx, notification.KindAuthor, 7); err != nil || !ok || v {
		t.Fatalf("author: v=%v ok=%v err=%v", v, ok, err)
	}

	if got := mr.TTL("badge:approval:7"); got != time.Minute {
		t.Fatalf("ttl = %v", got)
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, notification.KindApproval, 7); ok {
		t.Fatal("entry should expire")
	}
}

func TestBadgeCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	mr, c := newCache(t, time.Minute)

	for _, id := range []uint64{1, 2, 3} {
		_ = c.Set(ctx, notification.KindApproval, id, true)
		_ = c.Set(ctx, notification.KindAuthor, id, true)
	}
	if err := c.Invalidate(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"badge:approval:1", "badge:author:1", "badge:approval:3", "badge:author:3"} {
		if mr.Exists(key) {
			t.Fatalf("%s still cached", key)
		}
	}
	if !mr.Exists("badge:approval:2") || !mr.Exists("badge:author:2") {
		t.Fatal("actor 2 must be untouched")
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("empty invalidate: %v", err)
	}
}

func TestBadgeCache_StoreDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	c := NewBadgeCache(rdb, time.Minute)
	if _, _, err := c.Get(context.Background(), notification.KindApproval, 1); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
}
