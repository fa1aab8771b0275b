package config

import (
	"fmt"
	"sync"
)

var (
	current   *Config
	currentMu sync.RWMutex
	initOnce  sync.Once
)

// Initialize loads the process-wide configuration from path once. A missing
// file yields the defaults. Later calls are no-ops and return nil.
func Initialize(path string) error {
	var initErr error
	initOnce.Do(func() {
		cfg, err := LoadOrDefault(path)
		if err != nil {
			initErr = err
			return
		}
		SetConfig(cfg)
	})
	return initErr
}

// GetConfig returns the process-wide configuration, or nil before
// Initialize succeeded. Library code should take a *Config explicitly.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig replaces the process-wide configuration. Used by tests and by
// commands that build a configuration from flags.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// ReloadConfig reloads the configuration from path. On failure the current
// configuration is kept.
func ReloadConfig(path string) error {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}

// MustGetConfig is GetConfig, panicking when no configuration was loaded.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
