package assistant

import (
	"strconv"
	"strings"

	"github.com/droidmind/droidmind/pkg/memory"
)

// Command is the closed set of renderer callbacks the core recognizes.
// Anything else is a no-op. This replaces the open (type, payload any)
// callback of the mobile shell with explicit message passing.
type Command interface {
	isCommand()
}

// CrawlSyncCommand triggers the simulated platform crawl and ingestion.
type CrawlSyncCommand struct {
	Platform memory.Platform
}

// PlaceOrderCommand confirms one recommendation from a QUICK_ORDER result.
type PlaceOrderCommand struct {
	Name     string
	Platform string
	Cuisine  string
}

// CleanupCommand confirms a system cleanup of the reported size.
type CleanupCommand struct {
	Size string
}

// RefreshCommand re-runs the device stats skill.
type RefreshCommand struct{}

func (CrawlSyncCommand) isCommand()  {}
func (PlaceOrderCommand) isCommand() {}
func (CleanupCommand) isCommand()    {}
func (RefreshCommand) isCommand()    {}

// parseDirective maps slash directives from text channels onto commands.
// These stand in for the panel buttons of the mobile shell. The second
// return is false when the input is not a directive at all.
func (l *Loop) parseDirective(input string) (Command, bool) {
	if !strings.HasPrefix(input, "/") {
		return nil, false
	}
	fields := strings.Fields(input)
	switch fields[0] {
	case "/sync":
		platform := memory.PlatformMeituan
		if len(fields) > 1 && strings.EqualFold(fields[1], string(memory.PlatformEleme)) {
			platform = memory.PlatformEleme
		}
		return CrawlSyncCommand{Platform: platform}, true
	case "/order":
		index := 1
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				index = n
			}
		}
		rec, ok := l.recommendationAt(index)
		if !ok {
			return nil, false
		}
		return PlaceOrderCommand{Name: rec.Name, Platform: rec.Platform, Cuisine: rec.Cuisine}, true
	case "/cleanup":
		size := "1.8GB"
		if len(fields) > 1 {
			size = fields[1]
		}
		return CleanupCommand{Size: size}, true
	case "/refresh":
		return RefreshCommand{}, true
	default:
		return nil, false
	}
}
