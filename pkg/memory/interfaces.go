package memory

import "context"

// Persisted state keys. Each value is a full JSON-serialized aggregate;
// there are no partial-field updates at the storage layer.
const (
	KeyActions     = "droidmind_memory"
	KeyProfile     = "droidmind_profile"
	KeyLLMSettings = "droidmind_llm_config"
)

// Store is a small key-value backend for persisted assistant state.
// Implementations overwrite whole records atomically.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
