package resultstore

import (
	"fmt"
	"time"

	"debtplan/internal/log"
)

// BackendType identifies a result store implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	RedisBackend  BackendType = "redis"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, RedisBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for result store creation.
type Config struct {
	Type BackendType

	// Memory backend
	MaxSize int

	// Redis backend
	RedisAddr string

	// TTL applies to both backends.
	TTL time.Duration
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// New creates a result store for the configured backend and returns it with
// its cleanup function.
func New(cfg Config, logger *log.Logger) (Store, CleanupFunc, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentResultStore)
	}
	if !cfg.Type.IsValid() {
		return nil, nil, fmt.Errorf("invalid result store backend: %s", cfg.Type)
	}

	switch cfg.Type {
	case RedisBackend:
		store := NewRedisStore(cfg.RedisAddr, cfg.TTL)
		logger.Info("Initialized redis result store",
			log.FieldBackend, cfg.Type.String(),
			"addr", cfg.RedisAddr)
		return store, store.Close, nil
	default:
		store := NewMemoryStore(cfg.MaxSize, cfg.TTL)
		logger.Info("Initialized memory result store",
			log.FieldBackend, cfg.Type.String(),
			"max_size", cfg.MaxSize)
		return store, func() error { return nil }, nil
	}
}
