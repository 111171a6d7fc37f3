package heartbeat

import (
	"context"
	"testing"

	"github.com/droidmind/droidmind/pkg/config"
)

func noopTick(ctx context.Context, withCrawl bool) error { return nil }

func TestNewService_InvalidCron(t *testing.T) {
	cfg := config.HeartbeatConfig{Enabled: true, Cron: "not a cron"}
	if _, err := NewService(cfg, noopTick); err == nil {
		t.Fatalf("expected error for invalid cron expression")
	}
}

func TestNewService_EmptyCronDefaults(t *testing.T) {
	svc, err := NewService(config.HeartbeatConfig{}, noopTick)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.expr != "*/30 * * * *" {
		t.Fatalf("expr = %q, want default", svc.expr)
	}
}

func TestService_DisabledStartStop(t *testing.T) {
	svc, err := NewService(config.HeartbeatConfig{Enabled: false, Cron: "* * * * *"}, noopTick)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.Stop()
}

func TestService_EnabledStartStop(t *testing.T) {
	svc, err := NewService(config.HeartbeatConfig{Enabled: true, Cron: "* * * * *"}, noopTick)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Stop must terminate the scheduler goroutine without waiting a full tick.
	svc.Stop()
	// Double stop is safe.
	svc.Stop()
}
