package memory

import (
	"fmt"
	"testing"
)

func TestRecordCuisinePreference_PromotesAndDedupes(t *testing.T) {
	profile := DefaultProfile()

	RecordCuisinePreference(profile, "简餐", 5)
	RecordCuisinePreference(profile, "火锅", 5)
	RecordCuisinePreference(profile, "简餐", 5)

	got := profile.Preferences.FavoriteCuisines
	if len(got) != 2 {
		t.Fatalf("expected 2 cuisines, got %v", got)
	}
	if got[0] != "简餐" || got[1] != "火锅" {
		t.Fatalf("expected [简餐 火锅], got %v", got)
	}
}

func TestRecordCuisinePreference_CapsList(t *testing.T) {
	profile := DefaultProfile()

	for i := 0; i < 8; i++ {
		RecordCuisinePreference(profile, fmt.Sprintf("cuisine-%d", i), 5)
	}

	got := profile.Preferences.FavoriteCuisines
	if len(got) != 5 {
		t.Fatalf("expected cap of 5, got %d", len(got))
	}
	if got[0] != "cuisine-7" {
		t.Fatalf("expected most recent cuisine first, got %q", got[0])
	}
}

func TestIngestOrders_AddressMergeFirstWriteWins(t *testing.T) {
	profile := DefaultProfile()

	original := LocationInfo{Name: "望京SOHO办公区", Lat: 39.99, Lng: 116.48, Address: "老地址"}
	IngestOrders(profile, []LocationInfo{original}, nil, 50)

	conflicting := LocationInfo{Name: "望京SOHO办公区", Lat: 1.0, Lng: 2.0, Address: "新地址"}
	IngestOrders(profile, []LocationInfo{conflicting}, nil, 50)

	if len(profile.Addresses) != 1 {
		t.Fatalf("expected 1 address, got %d", len(profile.Addresses))
	}
	if profile.Addresses[0].Address != "老地址" {
		t.Fatalf("expected original address retained, got %q", profile.Addresses[0].Address)
	}
}

func TestIngestOrders_HistoryDropsOldest(t *testing.T) {
	profile := DefaultProfile()

	orders := make([]OrderRecord, 0, 60)
	for i := 0; i < 60; i++ {
		orders = append(orders, OrderRecord{
			ID:           fmt.Sprintf("order-%d", i),
			Amount:       10,
			LocationName: "望京SOHO办公区",
		})
	}
	IngestOrders(profile, nil, orders, 50)

	if len(profile.OrderHistory) != 50 {
		t.Fatalf("expected history capped at 50, got %d", len(profile.OrderHistory))
	}
	if profile.OrderHistory[0].ID != "order-10" {
		t.Fatalf("expected oldest dropped, first kept is %q", profile.OrderHistory[0].ID)
	}
	if profile.OrderHistory[49].ID != "order-59" {
		t.Fatalf("expected newest retained, last is %q", profile.OrderHistory[49].ID)
	}
}

func TestReaggregate_EmptyHistoryIsNoOp(t *testing.T) {
	profile := DefaultProfile()
	profile.Tags = []Tag{{Name: "stale", Weight: 85, Trend: TrendUp}}
	profile.Preferences.AvgPrice = 42

	Reaggregate(profile)

	if len(profile.Tags) != 1 || profile.Tags[0].Name != "stale" {
		t.Fatalf("expected tags untouched on empty history, got %v", profile.Tags)
	}
	if profile.Preferences.AvgPrice != 42 {
		t.Fatalf("expected avg price untouched, got %d", profile.Preferences.AvgPrice)
	}
}

func TestReaggregate_TagsAndAveragePrice(t *testing.T) {
	profile := DefaultProfile()
	orders := []OrderRecord{
		{ID: "a", Restaurant: "麦当劳(望京店)", Amount: 38, Cuisine: "简餐", LocationName: "望京SOHO办公区"},
		{ID: "b", Restaurant: "瑞幸咖啡", Amount: 19, Cuisine: "咖啡", LocationName: "望京SOHO办公区"},
		{ID: "c", Restaurant: "海底捞火锅", Amount: 280, Cuisine: "火锅", LocationName: "龙湖长楹天街住宅区"},
	}

	IngestOrders(profile, nil, orders, 50)

	// (38+19+280)/3 = 112.33 rounds to 112.
	if profile.Preferences.AvgPrice != 112 {
		t.Fatalf("expected avg price 112, got %d", profile.Preferences.AvgPrice)
	}

	if len(profile.Tags) != 2 {
		t.Fatalf("expected one tag per distinct location, got %v", profile.Tags)
	}
	if profile.Tags[0].Name != TagWorkDining {
		t.Fatalf("expected first tag %q, got %q", TagWorkDining, profile.Tags[0].Name)
	}
	if profile.Tags[1].Name != TagHomePremium {
		t.Fatalf("expected second tag %q, got %q", TagHomePremium, profile.Tags[1].Name)
	}
	for _, tag := range profile.Tags {
		if tag.Weight != 85 || tag.Trend != TrendUp {
			t.Fatalf("expected flat weight 85 / trend up, got %+v", tag)
		}
	}
}

func TestIngestOrders_OfficeScenario(t *testing.T) {
	profile := DefaultProfile()
	office := LocationInfo{Name: "望京SOHO办公区", Lat: 39.99, Lng: 116.48}
	orders := []OrderRecord{
		{ID: "a", Amount: 38, Cuisine: "简餐", LocationName: "望京SOHO办公区"},
		{ID: "b", Amount: 280, Cuisine: "火锅", LocationName: "望京SOHO办公区"},
	}

	IngestOrders(profile, []LocationInfo{office}, orders, 50)

	if profile.Preferences.AvgPrice != 159 {
		t.Fatalf("expected avg price 159, got %d", profile.Preferences.AvgPrice)
	}
	if len(profile.Tags) != 1 || profile.Tags[0].Name != TagWorkDining {
		t.Fatalf("expected single work tag, got %v", profile.Tags)
	}
	if len(profile.OrderHistory) != 2 {
		t.Fatalf("expected history of 2, got %d", len(profile.OrderHistory))
	}
}

func TestReaggregate_DuplicateLocationsCollapse(t *testing.T) {
	profile := DefaultProfile()
	orders := []OrderRecord{
		{ID: "a", Amount: 30, Cuisine: "简餐", LocationName: "望京SOHO办公区"},
		{ID: "b", Amount: 20, Cuisine: "咖啡", LocationName: "望京SOHO办公区"},
		{ID: "c", Amount: 10, Cuisine: "简餐", LocationName: "望京SOHO办公区"},
	}

	IngestOrders(profile, nil, orders, 50)

	if len(profile.Tags) != 1 {
		t.Fatalf("expected single tag for repeated location, got %v", profile.Tags)
	}
	if profile.Tags[0].Name != TagWorkDining {
		t.Fatalf("expected work tag, got %q", profile.Tags[0].Name)
	}
}

func TestIsWorkLocation(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"望京SOHO办公区", true},
		{"朝阳办公楼", true},
		{"银河SOHO", true},
		{"龙湖长楹天街住宅区", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsWorkLocation(tc.name); got != tc.want {
			t.Errorf("IsWorkLocation(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
