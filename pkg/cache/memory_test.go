package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.SetBytes(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := mc.GetBytes(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(got) != "v" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	if _, ok, _ := mc.GetBytes(context.Background(), "absent"); ok {
		t.Fatalf("expected miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.SetBytes(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := mc.GetBytes(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.SetBytes(ctx, "a", []byte("1"), time.Minute)
	_ = mc.SetBytes(ctx, "b", []byte("2"), time.Minute)
	if err := mc.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := mc.GetBytes(ctx, "a"); ok {
		t.Fatalf("expected a deleted")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.SetBytes(ctx, "a", []byte("1"), time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.SetBytes(ctx, "b", []byte("2"), time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.SetBytes(ctx, "c", []byte("3"), time.Minute) // evicts a

	if _, ok, _ := mc.GetBytes(ctx, "a"); ok {
		t.Fatalf("expected oldest entry evicted")
	}
	if _, ok, _ := mc.GetBytes(ctx, "c"); !ok {
		t.Fatalf("expected newest entry present")
	}
}

func TestKey(t *testing.T) {
	if got := Key("analysis", "XPTO", "1d"); got != "analysis:XPTO:1d" {
		t.Fatalf("unexpected key %q", got)
	}
}
