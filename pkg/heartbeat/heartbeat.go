// Package heartbeat schedules periodic profile maintenance. The schedule is
// a standard cron expression so operators can reuse crontab habits.
package heartbeat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/droidmind/droidmind/pkg/config"
	"github.com/droidmind/droidmind/pkg/logger"
)

const component = "heartbeat"

// TickFunc runs one maintenance pass. withCrawl asks for a full crawl sync
// instead of a bare re-aggregation.
type TickFunc func(ctx context.Context, withCrawl bool) error

type Service struct {
	expr      string
	enabled   bool
	withCrawl bool
	tick      TickFunc
	gron      *gronx.Gronx

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewService(cfg config.HeartbeatConfig, tick TickFunc) (*Service, error) {
	expr := strings.TrimSpace(cfg.Cron)
	if expr == "" {
		expr = "*/30 * * * *"
	}

	gron := gronx.New()
	if !gron.IsValid(expr) {
		return nil, fmt.Errorf("invalid heartbeat cron expression %q", expr)
	}

	return &Service{
		expr:      expr,
		enabled:   cfg.Enabled,
		withCrawl: cfg.CrawlSync,
		tick:      tick,
		gron:      gron,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start launches the scheduler goroutine. Disabled services start as no-ops
// so callers need not special-case configuration.
func (s *Service) Start() error {
	if !s.enabled {
		logger.InfoC(component, "Heartbeat disabled")
		return nil
	}

	s.wg.Add(1)
	go s.run()
	logger.InfoCF(component, "Heartbeat started", map[string]interface{}{
		"cron":       s.expr,
		"crawl_sync": s.withCrawl,
	})
	return nil
}

func (s *Service) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			due, err := s.gron.IsDue(s.expr, now)
			if err != nil {
				logger.WarnCF(component, "Cron evaluation failed", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if !due {
				continue
			}
			if err := s.tick(context.Background(), s.withCrawl); err != nil {
				logger.ErrorCF(component, "Maintenance pass failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}
