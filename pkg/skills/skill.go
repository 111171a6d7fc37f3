package skills

import (
	"context"

	"github.com/droidmind/droidmind/pkg/memory"
)

// Manifest describes a skill to the registry and the renderer.
type Manifest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
	Category     string   `json:"category"`
}

// ExecContext is everything a skill may rely on from the caller.
type ExecContext struct {
	Profile *memory.UserProfile
}

// Result step tags. The router never interprets Step; the external renderer
// dispatches on it. StepSuccess is the reserved generic confirmation.
const (
	StepGuideCrawl = "GUIDE_CRAWL"
	StepQuickOrder = "QUICK_ORDER"
	StepScanning   = "SCANNING"
	StepBattery    = "BATTERY"
	StepDashboard  = "DASHBOARD"
	StepSuccess    = "SUCCESS"
)

// Recommendation is one QUICK_ORDER candidate.
type Recommendation struct {
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Price    string  `json:"price"`
	Reason   string  `json:"reason"`
	IsBest   bool    `json:"is_best"`
	Cuisine  string  `json:"cuisine"`
	Time     string  `json:"time"`
	Platform string  `json:"platform"`
}

// ProcessStat is one SCANNING resource entry.
type ProcessStat struct {
	Name  string `json:"name"`
	Usage string `json:"usage"`
	Load  string `json:"load"`
}

// DeviceStats is the DASHBOARD payload.
type DeviceStats struct {
	CPUUsage     int     `json:"cpu_usage"`
	RAMFree      string  `json:"ram_free"`
	Temp         float64 `json:"temp"`
	BatteryLevel int     `json:"battery_level"`
	IsCharging   bool    `json:"is_charging"`
	Storage      string  `json:"storage"`
	Health       string  `json:"health"`
}

// Result is a tagged skill outcome. Step selects which payload fields are
// meaningful; Message is the spoken/displayed summary.
type Result struct {
	Step            string               `json:"step"`
	Message         string               `json:"message,omitempty"`
	Address         *memory.LocationInfo `json:"address,omitempty"`
	Recommendations []Recommendation     `json:"recommendations,omitempty"`
	Processes       []ProcessStat        `json:"processes,omitempty"`
	TotalUsage      string               `json:"total_usage,omitempty"`
	Stats           *DeviceStats         `json:"stats,omitempty"`
}

// Skill is a self-contained handler for one class of user intent.
type Skill interface {
	Manifest() Manifest
	// Matches is a keyword predicate over raw input text. No NLU, no scoring.
	Matches(input string) bool
	Execute(ctx context.Context, input string, ec ExecContext) (*Result, error)
}
