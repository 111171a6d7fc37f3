package skills

import (
	"context"
	"regexp"
	"strings"
)

var systemIntentRe = regexp.MustCompile(`(加速|清理|优化|卡顿|电池|系统|释放|快点)`)

// SystemControlSkill simulates resource scans and battery policy switches.
type SystemControlSkill struct{}

func NewSystemControlSkill() *SystemControlSkill {
	return &SystemControlSkill{}
}

func (s *SystemControlSkill) Manifest() Manifest {
	return Manifest{
		ID:           "system_control",
		Name:         "内核加速",
		Description:  "Android 底层资源动态重分配与进程管控。",
		Version:      "2.6.0",
		Capabilities: []string{"ram_boost", "process_kill", "battery_save"},
		Category:     "system",
	}
}

func (s *SystemControlSkill) Matches(input string) bool {
	return systemIntentRe.MatchString(input)
}

func (s *SystemControlSkill) Execute(ctx context.Context, input string, ec ExecContext) (*Result, error) {
	if strings.Contains(input, "电池") || strings.Contains(input, "省电") {
		return &Result{
			Step:    StepBattery,
			Message: "功耗画像策略已切换：深夜静默。",
		}, nil
	}

	return &Result{
		Step: StepScanning,
		Processes: []ProcessStat{
			{Name: "系统后台残留", Usage: "512MB", Load: "高"},
			{Name: "地理定位服务", Usage: "180MB", Load: "中"},
			{Name: "第三方缓存节点", Usage: "1.1GB", Load: "高"},
		},
		TotalUsage: "82%",
		Message:    "系统分析：主线程资源占用异常。",
	}, nil
}
