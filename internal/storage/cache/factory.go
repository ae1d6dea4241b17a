package cache

import (
	"fmt"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
)

// Backend type constants.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// New creates a cache based on the configuration.
// Supported backends: "memory" (default), "file", "redis".
func New(logger *common.Logger, config *common.CacheConfig) (interfaces.Cache, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendMemory
	}

	switch backend {
	case BackendMemory:
		return NewMemoryCache(logger), nil

	case BackendFile:
		return NewFileCache(logger, config.Path)

	case BackendRedis:
		return NewRedisCache(logger, config.Redis)

	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, file, redis)", backend)
	}
}
