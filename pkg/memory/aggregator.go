package memory

import (
	"math"
	"strings"
)

// Tag policy constants. Weight and trend are deliberately flat: the current
// policy tags a location class, it does not score it. Per-location totals and
// cuisine frequencies are still accumulated for future scoring.
const (
	TagWorkDining  = "职场高效餐饮"
	TagHomePremium = "居家高品质消费"

	tagDefaultWeight = 85
)

var workLocationMarkers = []string{"办公", "SOHO"}

// IsWorkLocation reports whether a location name carries a work marker.
func IsWorkLocation(name string) bool {
	for _, marker := range workLocationMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// RecordCuisinePreference promotes cuisine to the front of the favorite list,
// removing any prior occurrence, then truncates to maxCuisines. Pure function
// over the profile; the caller persists the result.
func RecordCuisinePreference(profile *UserProfile, cuisine string, maxCuisines int) {
	if profile == nil || cuisine == "" {
		return
	}
	if maxCuisines <= 0 {
		maxCuisines = 5
	}

	updated := make([]string, 0, len(profile.Preferences.FavoriteCuisines)+1)
	updated = append(updated, cuisine)
	for _, existing := range profile.Preferences.FavoriteCuisines {
		if existing != cuisine {
			updated = append(updated, existing)
		}
	}
	if len(updated) > maxCuisines {
		updated = updated[:maxCuisines]
	}
	profile.Preferences.FavoriteCuisines = updated
}

// IngestOrders merges newly crawled addresses and orders into the profile and
// runs an aggregation pass. Addresses merge first-write-wins by name: an
// existing address is never overwritten even if the incoming record differs.
// Order history keeps the most recent maxOrders entries, oldest dropped.
func IngestOrders(profile *UserProfile, addresses []LocationInfo, orders []OrderRecord, maxOrders int) {
	if profile == nil {
		return
	}
	if maxOrders <= 0 {
		maxOrders = 50
	}

	known := make(map[string]struct{}, len(profile.Addresses))
	for _, addr := range profile.Addresses {
		known[addr.Name] = struct{}{}
	}
	for _, addr := range addresses {
		if _, exists := known[addr.Name]; exists {
			continue
		}
		profile.Addresses = append(profile.Addresses, addr)
		known[addr.Name] = struct{}{}
	}

	profile.OrderHistory = append(profile.OrderHistory, orders...)
	if excess := len(profile.OrderHistory) - maxOrders; excess > 0 {
		profile.OrderHistory = profile.OrderHistory[excess:]
	}

	Reaggregate(profile)
}

type locationTrait struct {
	total  float64
	counts map[string]int
}

// Reaggregate recomputes the derived profile fields (tags, average price)
// from the raw order history. An empty history is a valid state: the pass is
// a no-op and the profile is left unchanged.
func Reaggregate(profile *UserProfile) {
	if profile == nil || len(profile.OrderHistory) == 0 {
		return
	}

	traits := make(map[string]*locationTrait)
	seen := make([]string, 0, 4)
	total := 0.0
	for _, order := range profile.OrderHistory {
		trait, ok := traits[order.LocationName]
		if !ok {
			trait = &locationTrait{counts: make(map[string]int)}
			traits[order.LocationName] = trait
			seen = append(seen, order.LocationName)
		}
		trait.total += order.Amount
		trait.counts[order.Cuisine]++
		total += order.Amount
	}

	// One tag per distinct location, in first-seen order. Duplicate location
	// names in the history collapse into a single tag.
	tags := make([]Tag, 0, len(seen))
	for _, location := range seen {
		name := TagHomePremium
		if IsWorkLocation(location) {
			name = TagWorkDining
		}
		tags = append(tags, Tag{Name: name, Weight: tagDefaultWeight, Trend: TrendUp})
	}

	profile.Tags = tags
	profile.Preferences.AvgPrice = int(math.Round(total / float64(len(profile.OrderHistory))))
}
