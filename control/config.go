// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.

package control

import (
	"maps"
	"sync"
)

// ConfigStore holds the active pool configuration with snapshot reads and
// listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    *Config
	listeners []func(*Config)
}

// NewConfigStore initializes a store; nil selects DefaultConfig.
func NewConfigStore(cfg *Config) *ConfigStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ConfigStore{config: cloneConfig(cfg)}
}

// GetSnapshot returns a copy of the active configuration.
func (cs *ConfigStore) GetSnapshot() *Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cloneConfig(cs.config)
}

// Profile looks up a named profile.
func (cs *ConfigStore) Profile(name string) (Profile, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	p, ok := cs.config.Profiles[name]
	return p, ok
}

// SetConfig validates and swaps in cfg, then dispatches reload listeners.
func (cs *ConfigStore) SetConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.config = cloneConfig(cfg)
	cs.dispatchReload()
	return nil
}

// SetProfile merges a single profile into the active configuration.
func (cs *ConfigStore) SetProfile(name string, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	next := cloneConfig(cs.config)
	next.Profiles[name] = p
	cs.config = next
	cs.dispatchReload()
	return nil
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func(*Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// ReloadSync invokes all listeners synchronously (for test determinism).
func (cs *ConfigStore) ReloadSync() {
	cs.mu.RLock()
	snap := cloneConfig(cs.config)
	listeners := append([]func(*Config){}, cs.listeners...)
	cs.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// dispatchReload invokes all listeners; callers hold cs.mu.
func (cs *ConfigStore) dispatchReload() {
	for _, fn := range cs.listeners {
		go fn(cloneConfig(cs.config))
	}
}

func cloneConfig(c *Config) *Config {
	out := *c
	out.Profiles = maps.Clone(c.Profiles)
	if out.Profiles == nil {
		out.Profiles = map[string]Profile{}
	}
	return &out
}
