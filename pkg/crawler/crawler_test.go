package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/droidmind/droidmind/pkg/memory"
)

func TestCrawl_UnknownPlatform(t *testing.T) {
	c := New(0)
	if _, err := c.Crawl(context.Background(), "foodpanda"); err == nil {
		t.Fatalf("expected error for unknown platform")
	}
}

func TestCrawl_BatchShape(t *testing.T) {
	c := New(0)
	batch, err := c.Crawl(context.Background(), memory.PlatformEleme)
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}

	if batch.Platform != memory.PlatformEleme {
		t.Fatalf("expected platform propagated, got %s", batch.Platform)
	}
	if len(batch.Addresses) != 2 || len(batch.Orders) != 3 {
		t.Fatalf("unexpected batch size: %d addresses, %d orders", len(batch.Addresses), len(batch.Orders))
	}
	for _, order := range batch.Orders {
		if order.ID == "" {
			t.Fatalf("expected generated order id")
		}
		if order.Platform != memory.PlatformEleme {
			t.Fatalf("expected order platform stamped, got %s", order.Platform)
		}
	}
	if batch.Addresses[0].Name != "望京SOHO办公区" {
		t.Fatalf("unexpected first address %q", batch.Addresses[0].Name)
	}
}

func TestCrawl_DistinctIDsPerRun(t *testing.T) {
	c := New(0)
	first, err := c.Crawl(context.Background(), memory.PlatformMeituan)
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	second, err := c.Crawl(context.Background(), memory.PlatformMeituan)
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if first.Orders[0].ID == second.Orders[0].ID {
		t.Fatalf("expected fresh ids per crawl")
	}
}

func TestCrawl_HonorsCancellation(t *testing.T) {
	c := New(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Crawl(ctx, memory.PlatformMeituan)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
