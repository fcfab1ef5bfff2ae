package storage

// KV is the durable key/value store under every local table. Values are
// opaque bytes; the table layer owns their encoding.
type KV interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns ok=false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
