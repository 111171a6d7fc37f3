package skills

import (
	"context"
	"fmt"
	"regexp"
)

var deviceIntentRe = regexp.MustCompile(`(?i)(设备|手机|硬件|温度|电量|内存|CPU|存储)`)

// DeviceInfoSkill reports synthetic hardware telemetry, standing in for the
// native bridge of the mobile shell.
type DeviceInfoSkill struct{}

func NewDeviceInfoSkill() *DeviceInfoSkill {
	return &DeviceInfoSkill{}
}

func (s *DeviceInfoSkill) Manifest() Manifest {
	return Manifest{
		ID:           "device_info",
		Name:         "硬件监控",
		Description:  "实时监测 Android 底层硬件状态与系统资源水位。",
		Version:      "1.2.0",
		Capabilities: []string{"thermal_monitor", "battery_health", "storage_analyzer"},
		Category:     "system",
	}
}

func (s *DeviceInfoSkill) Matches(input string) bool {
	return deviceIntentRe.MatchString(input)
}

func (s *DeviceInfoSkill) Execute(ctx context.Context, input string, ec ExecContext) (*Result, error) {
	stats := &DeviceStats{
		CPUUsage:     34,
		RAMFree:      "2.4 GB",
		Temp:         38.5,
		BatteryLevel: 82,
		IsCharging:   false,
		Storage:      "128GB / 256GB",
		Health:       "良好",
	}

	return &Result{
		Step:    StepDashboard,
		Stats:   stats,
		Message: fmt.Sprintf("内核报告：当前 SoC 温度 %.1f℃，系统负载正常。", stats.Temp),
	}, nil
}
