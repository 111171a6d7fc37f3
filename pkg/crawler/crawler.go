// Package crawler simulates the accessibility-service order crawl of the
// mobile shell. There is no real network I/O: each sync returns a fixed
// synthetic batch after an artificial latency, which is enough to exercise
// ingestion and aggregation end to end.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/droidmind/droidmind/pkg/logger"
	"github.com/droidmind/droidmind/pkg/memory"
	"github.com/google/uuid"
)

const component = "crawler"

// Crawler produces synthetic crawl batches for a delivery platform.
type Crawler struct {
	delay time.Duration
}

// New returns a Crawler with the given simulated latency. The delay stands in
// for the accessibility-service round trip; it is not a retry or backoff
// mechanism.
func New(delay time.Duration) *Crawler {
	return &Crawler{delay: delay}
}

// Batch is one simulated crawl result.
type Batch struct {
	Platform  memory.Platform
	Addresses []memory.LocationInfo
	Orders    []memory.OrderRecord
}

// Crawl returns the synthetic address and order set for platform. It blocks
// for the configured latency and honors context cancellation.
func (c *Crawler) Crawl(ctx context.Context, platform memory.Platform) (*Batch, error) {
	if platform != memory.PlatformMeituan && platform != memory.PlatformEleme {
		return nil, fmt.Errorf("unknown platform %q", platform)
	}

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	now := time.Now()
	batch := &Batch{
		Platform: platform,
		Addresses: []memory.LocationInfo{
			{Name: "望京SOHO办公区", Lat: 39.99, Lng: 116.48, Address: "北京市朝阳区望京街", Source: platform},
			{Name: "龙湖长楹天街住宅区", Lat: 39.92, Lng: 116.59, Address: "北京市朝阳区常营", Source: platform},
		},
		Orders: []memory.OrderRecord{
			{
				ID:           uuid.NewString(),
				Platform:     platform,
				Restaurant:   "麦当劳(望京店)",
				Amount:       38,
				Timestamp:    now.Add(-24 * time.Hour).UnixMilli(),
				Cuisine:      "简餐",
				LocationName: "望京SOHO办公区",
			},
			{
				ID:           uuid.NewString(),
				Platform:     platform,
				Restaurant:   "瑞幸咖啡",
				Amount:       19,
				Timestamp:    now.Add(-48 * time.Hour).UnixMilli(),
				Cuisine:      "咖啡",
				LocationName: "望京SOHO办公区",
			},
			{
				ID:           uuid.NewString(),
				Platform:     platform,
				Restaurant:   "海底捞火锅",
				Amount:       280,
				Timestamp:    now.Add(-72 * time.Hour).UnixMilli(),
				Cuisine:      "火锅",
				LocationName: "龙湖长楹天街住宅区",
			},
		},
	}

	logger.InfoCF(component, "Simulated crawl finished", map[string]interface{}{
		"platform":  string(platform),
		"addresses": len(batch.Addresses),
		"orders":    len(batch.Orders),
	})
	return batch, nil
}
