// hot-reload.go: dynamic capacity management with Argus integration
//
// Capacity is immutable for a storage generation, but rehash can move the
// container to a new extent at runtime. HotCapacity watches a
// configuration file and schedules a rehash whenever the file asks for
// more slots than the current generation holds.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// Rehasher is the slice of the container API hot reload needs. Set, Map
// and MultiMap all satisfy it.
type Rehasher interface {
	// RehashAsync relocates live entries into storage of at least capacity
	// slots on the given stream.
	RehashAsync(capacity int, st *Stream)

	// Capacity returns the current number of slots.
	Capacity() int

	// Wait blocks on the given stream (nil for the default stream).
	Wait(st *Stream) error
}

// SizingConfig is the file-backed sizing state HotCapacity tracks.
type SizingConfig struct {
	// Capacity is the requested lower bound on slots. Growth beyond the
	// current extent triggers a rehash; shrinking is ignored (a rehash to
	// a smaller extent risks overflowing live entries).
	Capacity int

	// LoadFactor is accepted from the file for observability but only
	// applied at the next explicit reconstruction.
	LoadFactor float64
}

// HotCapacity provides dynamic capacity reload using Argus. It watches a
// configuration file and rehashes the container when the requested
// capacity grows past the current extent.
type HotCapacity struct {
	target  Rehasher
	watcher *argus.Watcher
	logger  Logger

	mu     sync.RWMutex
	sizing SizingConfig

	// OnReload is called after a configuration change was applied. This
	// callback is optional and must be fast and non-blocking.
	OnReload func(old, new SizingConfig)
}

// HotCapacityOptions configures hot reload behavior.
type HotCapacityOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after a configuration change was applied.
	OnReload func(old, new SizingConfig)

	// Logger for hot reload operations. Default: NoOpLogger.
	Logger Logger
}

// NewHotCapacity creates a hot-reloadable capacity watcher for a
// container.
//
// Example configuration file (YAML):
//
//	container:
//	  capacity: 1048576
//	  load_factor: 0.5
//
// Supported configuration keys:
//   - container.capacity (int): requested lower bound on slots
//   - container.load_factor (float): accepted, applied at reconstruction
func NewHotCapacity(target Rehasher, opts HotCapacityOptions) (*HotCapacity, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotCapacity{
		target:   target,
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		sizing:   SizingConfig{Capacity: target.Capacity(), LoadFactor: DefaultLoadFactor},
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotCapacity) Start() error {
	if hc.watcher.IsRunning() {
		return nil // Already started
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotCapacity) Stop() error {
	return hc.watcher.Stop()
}

// Sizing returns the current sizing state (thread-safe).
func (hc *HotCapacity) Sizing() SizingConfig {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.sizing
}

// handleConfigChange is called by Argus when the file changes.
func (hc *HotCapacity) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	old := hc.sizing
	next := hc.parseSizing(configData, old)
	hc.sizing = next
	hc.mu.Unlock()

	hc.applyChanges(old, next)

	if hc.OnReload != nil {
		hc.OnReload(old, next)
	}
}

// parsePositiveInt extracts a positive integer from an interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseFloatInRange extracts a float64 within (min, max].
func parseFloatInRange(value interface{}, min, max float64) (float64, bool) {
	if v, ok := value.(float64); ok {
		if v > min && v <= max {
			return v, true
		}
	}
	return 0, false
}

// parseSizing extracts the sizing section from Argus config data.
func (hc *HotCapacity) parseSizing(data map[string]interface{}, current SizingConfig) SizingConfig {
	section, ok := data["container"].(map[string]interface{})
	if !ok {
		// Accept a flat file that IS the sizing section.
		if _, hasCapacity := data["capacity"]; hasCapacity {
			section = data
		} else {
			return current
		}
	}

	next := current
	if capacity, ok := parsePositiveInt(section["capacity"]); ok {
		next.Capacity = capacity
	}
	if lf, ok := parseFloatInRange(section["load_factor"], 0, 1); ok {
		next.LoadFactor = lf
	}
	return next
}

// applyChanges schedules a rehash when the requested capacity outgrows the
// current extent. Shrink requests are logged and skipped.
func (hc *HotCapacity) applyChanges(old, next SizingConfig) {
	current := hc.target.Capacity()
	switch {
	case next.Capacity > current:
		hc.logger.Info("hot capacity growth, scheduling rehash",
			"current", current, "requested", next.Capacity)
		hc.target.RehashAsync(next.Capacity, nil)
	case next.Capacity < old.Capacity:
		hc.logger.Warn("hot capacity shrink ignored",
			"current", current, "requested", next.Capacity)
	}
}
