package redis

import (
	"context"
	"testing"
	"time"

	"github.com/wonny/openresearch/backend/pkg/config"
)

func TestDisabledClientIsNoOp(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer client.Close()

	if client.Enabled() {
		t.Error("Expected disabled client")
	}

	cache := NewCache(client, "openresearch")
	ctx := context.Background()

	if err := cache.Set(ctx, ReportKey("AAPL"), map[string]string{"x": "y"}, time.Minute); err != nil {
		t.Errorf("Set on disabled cache should be a no-op, got %v", err)
	}

	var dest map[string]string
	hit, err := cache.Get(ctx, ReportKey("AAPL"), &dest)
	if err != nil {
		t.Errorf("Get on disabled cache should not error, got %v", err)
	}
	if hit {
		t.Error("Disabled cache must always miss")
	}

	if err := cache.Delete(ctx, ReportKey("AAPL")); err != nil {
		t.Errorf("Delete on disabled cache should be a no-op, got %v", err)
	}
}

func TestReportKey(t *testing.T) {
	if got := ReportKey("AAPL"); got != "report:AAPL" {
		t.Errorf("ReportKey(AAPL) = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	// Integration: requires a local Redis.
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := &config.Config{Redis: config.RedisConfig{
		Host:    "localhost",
		Port:    "6379",
		Enabled: true,
	}}

	client, err := New(cfg)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer client.Close()

	cache := NewCache(client, "openresearch_test")
	ctx := context.Background()
	key := ReportKey("TEST")

	type payload struct {
		Ticker string  `json:"ticker"`
		Score  float64 `json:"score"`
	}

	if err := cache.Set(ctx, key, payload{Ticker: "TEST", Score: 70}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	defer cache.Delete(ctx, key)

	var got payload
	hit, err := cache.Get(ctx, key, &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatal("Expected cache hit")
	}
	if got.Ticker != "TEST" || got.Score != 70 {
		t.Errorf("Unexpected payload: %+v", got)
	}
}
