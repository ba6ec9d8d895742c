package store

import (
	"fmt"
	"path/filepath"

	"vidbrief/config"
)

// StateFileName is the JSON file used by the file backend inside the state dir
const StateFileName = "state.json"

// Open builds the KV selected by cfg.Store.Kind
func Open(cfg *config.Config) (KV, error) {
	switch cfg.Store.Kind {
	case "", "file":
		return NewFileKV(filepath.Join(cfg.StateDir, StateFileName))
	case "redis":
		return NewRedisKV(RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Prefix:   cfg.Store.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
