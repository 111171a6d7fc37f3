package skills

import (
	"context"
	"fmt"
	"regexp"

	"github.com/droidmind/droidmind/pkg/memory"
)

var (
	foodIntentRe    = regexp.MustCompile(`(外卖|点餐|饿了|想吃|点个|饭)`)
	targetCuisineRe = regexp.MustCompile(`(想吃|点个|要个)(.+)`)
)

// FoodDeliverySkill suggests orders from the geo profile: it matches the
// current coordinate against the known address set and prices candidates off
// the aggregated average spend.
type FoodDeliverySkill struct {
	// Current device coordinate. The mobile shell fed a fixed fix; kept
	// injectable for tests.
	Lat, Lng float64
}

func NewFoodDeliverySkill() *FoodDeliverySkill {
	return &FoodDeliverySkill{Lat: 39.991, Lng: 116.482}
}

func (s *FoodDeliverySkill) Manifest() Manifest {
	return Manifest{
		ID:           "food_delivery",
		Name:         "极速订餐",
		Description:  "核心功能：基于地理位置与历史画像的自动化订餐建议。",
		Version:      "9.6.0",
		Capabilities: []string{"geo_profile_sync", "one_tap_order", "accessibility_crawler"},
		Category:     "service",
	}
}

func (s *FoodDeliverySkill) Matches(input string) bool {
	return foodIntentRe.MatchString(input)
}

func (s *FoodDeliverySkill) Execute(ctx context.Context, input string, ec ExecContext) (*Result, error) {
	profile := ec.Profile
	if profile == nil {
		profile = memory.DefaultProfile()
	}

	if len(profile.OrderHistory) == 0 {
		return &Result{
			Step:    StepGuideCrawl,
			Message: "缺失本地画像数据。请同步外卖平台节点。",
		}, nil
	}

	matched := memory.MatchNearest(profile.Addresses, s.Lat, s.Lng)
	isOffice := matched != nil && memory.IsWorkLocation(matched.Name)

	targetCuisine := "火锅/正餐"
	if isOffice {
		targetCuisine = "中式简餐"
	}
	if m := targetCuisineRe.FindStringSubmatch(input); m != nil {
		targetCuisine = m[2]
	}

	avg := profile.Preferences.AvgPrice
	locationName := "未定义坐标"
	if matched != nil {
		locationName = matched.Name
	}

	mode := "居家高品质"
	bestPrice := avg + 35
	bestTime := "45min"
	modeWord := "住宅"
	if isOffice {
		mode = "职场高效率"
		bestPrice = avg
		bestTime = "18min"
		modeWord = "办公"
	}
	nearPrice := avg - 10
	if nearPrice < 15 {
		nearPrice = 15
	}

	recommendations := []Recommendation{
		{
			Name:     fmt.Sprintf("%s · %s", targetCuisine, mode),
			Rating:   4.9,
			Price:    fmt.Sprintf("¥%d", bestPrice),
			Reason:   fmt.Sprintf("关联地点：%s；匹配历史权值：¥%d。", locationName, avg),
			IsBest:   true,
			Cuisine:  targetCuisine,
			Time:     bestTime,
			Platform: "美团外卖",
		},
		{
			Name:     fmt.Sprintf("%s · 空间近点", targetCuisine),
			Rating:   4.6,
			Price:    fmt.Sprintf("¥%d", nearPrice),
			Reason:   "物理距离：最近节点；符合快速就餐权值。",
			Cuisine:  targetCuisine,
			Time:     "12min",
			Platform: "饿了么",
		},
	}

	return &Result{
		Step:            StepQuickOrder,
		Address:         matched,
		Recommendations: recommendations,
		Message:         fmt.Sprintf("坐标：%s。%s模式画像已加载。", locationName, modeWord),
	}, nil
}
