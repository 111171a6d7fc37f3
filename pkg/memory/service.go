package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/droidmind/droidmind/pkg/logger"
	"github.com/google/uuid"
)

// Config bounds the persisted collections.
type Config struct {
	MaxActionHistory    int
	MaxOrderHistory     int
	MaxFavoriteCuisines int
}

// Service owns the action log and the user profile on top of an injected
// Store. Reads are permissive: missing or corrupt state degrades to defaults
// and is never an error. Writes overwrite the full aggregate and surface
// failures wrapped in ErrStorage.
type Service struct {
	store Store
	cfg   Config
}

func NewService(store Store, cfg Config) *Service {
	if cfg.MaxActionHistory <= 0 {
		cfg.MaxActionHistory = 100
	}
	if cfg.MaxOrderHistory <= 0 {
		cfg.MaxOrderHistory = 50
	}
	if cfg.MaxFavoriteCuisines <= 0 {
		cfg.MaxFavoriteCuisines = 5
	}
	return &Service{store: store, cfg: cfg}
}

func (s *Service) Close() error {
	return s.store.Close()
}

// Actions returns up to limit most-recent action records, newest first.
// limit <= 0 returns the full retained log.
func (s *Service) Actions(ctx context.Context, limit int) []ActionRecord {
	actions := s.loadActions(ctx)
	if limit > 0 && len(actions) > limit {
		actions = actions[:limit]
	}
	return actions
}

// LogAction appends a record to the action log, truncates the log to the
// retention cap and persists it. When the metadata carries a cuisine the
// profile's favorite-cuisine list is promoted as a side effect.
func (s *Service) LogAction(ctx context.Context, kind ActionKind, content string, meta *ActionMetadata) (ActionRecord, error) {
	record := ActionRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		Metadata:  meta,
	}

	actions := s.loadActions(ctx)
	updated := make([]ActionRecord, 0, len(actions)+1)
	updated = append(updated, record)
	updated = append(updated, actions...)
	if len(updated) > s.cfg.MaxActionHistory {
		updated = updated[:s.cfg.MaxActionHistory]
	}

	if err := s.putJSON(ctx, KeyActions, updated); err != nil {
		return ActionRecord{}, err
	}

	if meta != nil && meta.Cuisine != "" {
		profile := s.Profile(ctx)
		RecordCuisinePreference(profile, meta.Cuisine, s.cfg.MaxFavoriteCuisines)
		if err := s.SaveProfile(ctx, profile); err != nil {
			// The action itself is durable; losing the preference bump is the
			// lesser failure, so log and move on.
			logger.WarnCF("memory", "Cuisine preference update not persisted",
				map[string]interface{}{"error": err.Error()})
		}
	}

	return record, nil
}

// Profile returns the persisted profile, or the canonical zero-valued
// default when nothing usable is stored.
func (s *Service) Profile(ctx context.Context) *UserProfile {
	profile := DefaultProfile()
	if !s.getJSON(ctx, KeyProfile, profile) {
		return DefaultProfile()
	}
	// Old records may predate some collections; keep them non-nil.
	if profile.Tags == nil {
		profile.Tags = []Tag{}
	}
	if profile.Habits == nil {
		profile.Habits = []Habit{}
	}
	if profile.Addresses == nil {
		profile.Addresses = []LocationInfo{}
	}
	if profile.Preferences.FavoriteCuisines == nil {
		profile.Preferences.FavoriteCuisines = []string{}
	}
	if profile.OrderHistory == nil {
		profile.OrderHistory = []OrderRecord{}
	}
	return profile
}

func (s *Service) SaveProfile(ctx context.Context, profile *UserProfile) error {
	return s.putJSON(ctx, KeyProfile, profile)
}

// IngestOrders merges crawled addresses and orders into the profile, runs an
// aggregation pass and persists the result.
func (s *Service) IngestOrders(ctx context.Context, addresses []LocationInfo, orders []OrderRecord) (*UserProfile, error) {
	profile := s.Profile(ctx)
	IngestOrders(profile, addresses, orders, s.cfg.MaxOrderHistory)
	if err := s.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	logger.InfoCF("memory", "Order ingestion completed", map[string]interface{}{
		"addresses": len(profile.Addresses),
		"orders":    len(profile.OrderHistory),
		"avg_price": profile.Preferences.AvgPrice,
		"tags":      len(profile.Tags),
	})
	return profile, nil
}

// MatchAddress finds the profile address nearest to the coordinate, nil when
// no addresses are known.
func (s *Service) MatchAddress(ctx context.Context, lat, lng float64) *LocationInfo {
	return MatchNearest(s.Profile(ctx).Addresses, lat, lng)
}

// ResetProfile drops the persisted profile; the next read synthesizes the
// default again.
func (s *Service) ResetProfile(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyProfile); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// LLMSettings returns the persisted language-model settings, falling back to
// def when nothing usable is stored.
func (s *Service) LLMSettings(ctx context.Context, def LLMSettings) LLMSettings {
	settings := def
	if !s.getJSON(ctx, KeyLLMSettings, &settings) {
		return def
	}
	return settings
}

func (s *Service) SaveLLMSettings(ctx context.Context, settings LLMSettings) error {
	return s.putJSON(ctx, KeyLLMSettings, settings)
}

func (s *Service) loadActions(ctx context.Context) []ActionRecord {
	actions := []ActionRecord{}
	if !s.getJSON(ctx, KeyActions, &actions) {
		return []ActionRecord{}
	}
	return actions
}

// getJSON reads and decodes one aggregate. Any failure degrades to "absent":
// lossy but non-fatal, matching the best-effort model used for all persisted
// state here.
func (s *Service) getJSON(ctx context.Context, key string, out interface{}) bool {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		logger.WarnCF("memory", "State read failed, using defaults",
			map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.WarnCF("memory", "State record corrupt, using defaults",
			map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return true
}

func (s *Service) putJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state %q: %w", key, err)
	}
	if err := s.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
