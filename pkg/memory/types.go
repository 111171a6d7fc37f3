package memory

// ActionKind classifies action log entries.
type ActionKind string

const (
	ActionSystem ActionKind = "system"
	ActionPlugin ActionKind = "plugin"
	ActionUser   ActionKind = "user"
)

// ActionMetadata is the closed set of payload shapes an action can carry.
// Only a handful of shapes occur in practice, so this replaces an open map.
type ActionMetadata struct {
	SkillID     string `json:"skill_id,omitempty"`
	Cuisine     string `json:"cuisine,omitempty"`
	Platform    string `json:"platform,omitempty"`
	CleanupSize string `json:"cleanup_size,omitempty"`
}

// ActionRecord is one logged user/system/skill interaction. Records are
// immutable once created; the log as a whole is truncated on each write.
type ActionRecord struct {
	ID        string          `json:"id"`
	Kind      ActionKind      `json:"kind"`
	Content   string          `json:"content"`
	Timestamp int64           `json:"timestamp"`
	Metadata  *ActionMetadata `json:"metadata,omitempty"`
}

// Platform identifies a delivery platform an order or address came from.
type Platform string

const (
	PlatformMeituan Platform = "meituan"
	PlatformEleme   Platform = "eleme"
	SourceManual    Platform = "manual"
)

// LocationInfo is one known delivery address. Name is the unique key within
// the address set; records are never mutated after creation.
type LocationInfo struct {
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Address string   `json:"address"`
	Source  Platform `json:"source,omitempty"`
}

// OrderRecord is one historical food order. LocationName is an advisory weak
// reference to a LocationInfo name; it is not validated at write time.
type OrderRecord struct {
	ID           string   `json:"id"`
	Platform     Platform `json:"platform"`
	Restaurant   string   `json:"restaurant"`
	Amount       float64  `json:"amount"`
	Timestamp    int64    `json:"timestamp"`
	Cuisine      string   `json:"cuisine"`
	LocationName string   `json:"location_name"`
}

// Trend marks the direction a profile tag is moving.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Tag is a derived profile trait. The tag set is always fully replaced by an
// aggregation pass, never incrementally patched.
type Tag struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Trend  Trend  `json:"trend"`
}

// Habit is a category-usage record. Present in the schema for forward
// compatibility; current aggregation does not populate it.
type Habit struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	LastActive string  `json:"last_active"`
	Intensity  float64 `json:"intensity"`
}

// Preferences holds the scalar derived preference fields.
type Preferences struct {
	AvgPrice         int      `json:"avg_price"`
	FavoriteCuisines []string `json:"favorite_cuisines"`
	ActiveTimeRange  string   `json:"active_time_range"`
}

// UserProfile is the single root aggregate of derived user state. One
// instance per installation, read and overwritten wholesale.
type UserProfile struct {
	Tags         []Tag          `json:"tags"`
	Habits       []Habit        `json:"habits"`
	Addresses    []LocationInfo `json:"addresses"`
	Preferences  Preferences    `json:"preferences"`
	OrderHistory []OrderRecord  `json:"order_history"`
}

// DefaultProfile synthesizes the canonical zero-valued profile used when no
// persisted record exists.
func DefaultProfile() *UserProfile {
	return &UserProfile{
		Tags:      []Tag{},
		Habits:    []Habit{},
		Addresses: []LocationInfo{},
		Preferences: Preferences{
			AvgPrice:         0,
			FavoriteCuisines: []string{},
			ActiveTimeRange:  "Any",
		},
		OrderHistory: []OrderRecord{},
	}
}

// LLMSettings is the persisted language-model configuration.
type LLMSettings struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key,omitempty"`
}
