package kvstore

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"kothaboli/internal/config"
)

// New creates a record store from configuration.
// An empty type falls back to the file backend.
func New(cfg *config.StoreConfig) (Store, error) {
	storeType := cfg.Type
	if storeType == "" {
		storeType = string(TypeFile)
	}

	switch Type(storeType) {
	case TypeFile:
		fileCfg := cfg.File
		if fileCfg == nil || fileCfg.Dir == "" {
			fileCfg = &config.FileStoreConfig{Dir: "./data"}
		}
		store, err := NewFileStore(fileCfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file store: %w", err)
		}
		log.Info().Str("dir", fileCfg.Dir).Msg("using file record store")
		return store, nil

	case TypeRedis:
		if cfg.Redis == nil || cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("redis store requires store.redis.addr")
		}
		store, err := NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis record store")
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
