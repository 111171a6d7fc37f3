package skills

import (
	"context"
	"testing"

	"github.com/droidmind/droidmind/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillIntentMatching(t *testing.T) {
	food := NewFoodDeliverySkill()
	system := NewSystemControlSkill()
	device := NewDeviceInfoSkill()

	cases := []struct {
		input  string
		skill  Skill
		expect bool
	}{
		{"我想点外卖", food, true},
		{"饿了", food, true},
		{"想吃火锅", food, true},
		{"清理内存", system, true},
		{"手机太卡顿了", system, true},
		{"省电", system, false},
		{"电池还剩多少", system, true},
		{"看下设备温度", device, true},
		{"cpu占用", device, true},
		{"你好", food, false},
		{"你好", system, false},
		{"你好", device, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expect, tc.skill.Matches(tc.input),
			"input %q against %s", tc.input, tc.skill.Manifest().ID)
	}
}

func TestFoodDelivery_EmptyHistoryGuidesCrawl(t *testing.T) {
	skill := NewFoodDeliverySkill()
	result, err := skill.Execute(context.Background(), "点外卖", ExecContext{Profile: memory.DefaultProfile()})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, StepGuideCrawl, result.Step)
	assert.Equal(t, "缺失本地画像数据。请同步外卖平台节点。", result.Message)
	assert.Empty(t, result.Recommendations)
}

func TestFoodDelivery_NilProfileGuidesCrawl(t *testing.T) {
	skill := NewFoodDeliverySkill()
	result, err := skill.Execute(context.Background(), "点外卖", ExecContext{})
	require.NoError(t, err)
	assert.Equal(t, StepGuideCrawl, result.Step)
}

func officeProfile() *memory.UserProfile {
	profile := memory.DefaultProfile()
	memory.IngestOrders(profile,
		[]memory.LocationInfo{
			{Name: "望京SOHO办公区", Lat: 39.99, Lng: 116.48},
			{Name: "龙湖长楹天街住宅区", Lat: 39.92, Lng: 116.59},
		},
		[]memory.OrderRecord{
			{ID: "a", Amount: 38, Cuisine: "简餐", LocationName: "望京SOHO办公区"},
			{ID: "b", Amount: 19, Cuisine: "咖啡", LocationName: "望京SOHO办公区"},
			{ID: "c", Amount: 280, Cuisine: "火锅", LocationName: "龙湖长楹天街住宅区"},
		}, 50)
	return profile
}

func TestFoodDelivery_OfficeRecommendations(t *testing.T) {
	skill := NewFoodDeliverySkill()
	profile := officeProfile()

	result, err := skill.Execute(context.Background(), "点外卖", ExecContext{Profile: profile})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, StepQuickOrder, result.Step)
	require.NotNil(t, result.Address)
	assert.Equal(t, "望京SOHO办公区", result.Address.Name)
	assert.Contains(t, result.Message, "办公模式")

	require.Len(t, result.Recommendations, 2)
	best, near := result.Recommendations[0], result.Recommendations[1]

	assert.True(t, best.IsBest)
	assert.Equal(t, "中式简餐", best.Cuisine)
	assert.Equal(t, "¥112", best.Price)
	assert.Equal(t, "18min", best.Time)
	assert.Equal(t, "美团外卖", best.Platform)

	assert.False(t, near.IsBest)
	assert.Equal(t, "¥102", near.Price)
	assert.Equal(t, "饿了么", near.Platform)
}

func TestFoodDelivery_SOHOAddressUsesOfficeMode(t *testing.T) {
	// A work marker without "办公" in the name still selects office mode;
	// mode selection and profile tagging share one predicate.
	skill := NewFoodDeliverySkill()
	profile := memory.DefaultProfile()
	memory.IngestOrders(profile,
		[]memory.LocationInfo{{Name: "望京SOHO", Lat: 39.99, Lng: 116.48}},
		[]memory.OrderRecord{
			{ID: "a", Amount: 38, Cuisine: "简餐", LocationName: "望京SOHO"},
		}, 50)

	result, err := skill.Execute(context.Background(), "点外卖", ExecContext{Profile: profile})
	require.NoError(t, err)

	assert.Contains(t, result.Message, "办公模式")
	best := result.Recommendations[0]
	assert.Equal(t, "18min", best.Time)
	assert.Equal(t, "中式简餐", best.Cuisine)
}

func TestFoodDelivery_ResidentialMode(t *testing.T) {
	skill := NewFoodDeliverySkill()
	skill.Lat, skill.Lng = 39.92, 116.59

	result, err := skill.Execute(context.Background(), "点外卖", ExecContext{Profile: officeProfile()})
	require.NoError(t, err)

	require.NotNil(t, result.Address)
	assert.Equal(t, "龙湖长楹天街住宅区", result.Address.Name)
	assert.Contains(t, result.Message, "住宅模式")

	best := result.Recommendations[0]
	assert.Equal(t, "火锅/正餐", best.Cuisine)
	// avg 112 + 35 for the premium home pick
	assert.Equal(t, "¥147", best.Price)
	assert.Equal(t, "45min", best.Time)
}

func TestFoodDelivery_ExplicitCuisineOverride(t *testing.T) {
	skill := NewFoodDeliverySkill()
	result, err := skill.Execute(context.Background(), "想吃烧烤", ExecContext{Profile: officeProfile()})
	require.NoError(t, err)
	assert.Equal(t, "烧烤", result.Recommendations[0].Cuisine)
}

func TestFoodDelivery_NearPriceFloor(t *testing.T) {
	skill := NewFoodDeliverySkill()
	profile := memory.DefaultProfile()
	memory.IngestOrders(profile,
		[]memory.LocationInfo{{Name: "望京SOHO办公区", Lat: 39.99, Lng: 116.48}},
		[]memory.OrderRecord{{ID: "a", Amount: 12, Cuisine: "简餐", LocationName: "望京SOHO办公区"}}, 50)

	result, err := skill.Execute(context.Background(), "点外卖", ExecContext{Profile: profile})
	require.NoError(t, err)
	assert.Equal(t, "¥15", result.Recommendations[1].Price)
}

func TestSystemControl_BatteryBranch(t *testing.T) {
	skill := NewSystemControlSkill()
	result, err := skill.Execute(context.Background(), "电池优化", ExecContext{})
	require.NoError(t, err)

	assert.Equal(t, StepBattery, result.Step)
	assert.Equal(t, "功耗画像策略已切换：深夜静默。", result.Message)
	assert.Empty(t, result.Processes)
}

func TestSystemControl_ScanBranch(t *testing.T) {
	skill := NewSystemControlSkill()
	result, err := skill.Execute(context.Background(), "手机卡顿", ExecContext{})
	require.NoError(t, err)

	assert.Equal(t, StepScanning, result.Step)
	assert.Equal(t, "82%", result.TotalUsage)
	require.Len(t, result.Processes, 3)
	assert.Equal(t, "系统后台残留", result.Processes[0].Name)
}

func TestDeviceInfo_Dashboard(t *testing.T) {
	skill := NewDeviceInfoSkill()
	result, err := skill.Execute(context.Background(), "设备状态", ExecContext{})
	require.NoError(t, err)

	assert.Equal(t, StepDashboard, result.Step)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 82, result.Stats.BatteryLevel)
	assert.Contains(t, result.Message, "38.5℃")
}
