package repository

import (
	"context"
	"os"
	"testing"
	"time"
)

// Runs only against a live server: REDIS_ADDR=localhost:6379 go test ./repository
func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cache := NewRedisCache(addr, "", 0, time.Minute)
	defer cache.Close()

	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := cache.Set(ctx, "test:key", "value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok := cache.Get(ctx, "test:key")
	if !ok || val != "value" {
		t.Errorf("expected hit with %q, got %q (ok=%v)", "value", val, ok)
	}
}
