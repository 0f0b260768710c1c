// config.go: configuration for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"runtime"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for a container.
type Config struct {
	// Capacity is the lower bound on the number of entries the container
	// must hold. Storage is sized to Capacity / LoadFactor rounded up to a
	// power-of-two number of windows and is immutable afterwards (use Rehash
	// to change it). Must be > 0.
	Capacity int

	// LoadFactor is the target live-entries / slots ratio used to size the
	// storage from Capacity. Must be in (0, 1]. Default: DefaultLoadFactor.
	LoadFactor float64

	// WindowSize is the number of contiguous slots examined by one probing
	// attempt. Must be 1, 2, 4 or 8. Default: DefaultWindowSize.
	WindowSize int

	// CGSize is the cooperative-group cardinality: the number of lanes that
	// team up on one logical query. It sets the launch-grid granularity and
	// the minimum number of windows; the window scan itself examines all W
	// slots of a window in slot order. Must be 1, 2, 4 or 8.
	// Default: DefaultCGSize. When ProbingScheme is non-nil the scheme's CG
	// size replaces it; an explicit value is still validated first.
	CGSize int

	// EmptyKeySentinel is the reserved key word denoting a never-used slot.
	// Inserting a key equal to it is undefined. When both EmptyKeySentinel
	// and ErasedKeySentinel are zero the defaults are applied.
	EmptyKeySentinel uint64

	// ErasedKeySentinel is the reserved key word denoting a tombstoned
	// slot. Required distinct from EmptyKeySentinel when EnableErase is
	// set.
	ErasedKeySentinel uint64

	// EmptyValueSentinel is the reserved payload word for unwritten payload
	// slots (map and multimap mode only). Inserting a payload equal to it
	// is undefined. Default: DefaultEmptyValueSentinel.
	EmptyValueSentinel uint64

	// EnableErase reserves the erased-key sentinel so EraseAsync becomes
	// available. Without it erase calls fail with XANTHOS_ERASE_DISABLED.
	EnableErase bool

	// ProbingScheme generates the window sequence for each key.
	// If nil, double hashing with CGSize is used. Default: nil.
	ProbingScheme ProbingScheme

	// KeyEqual is the equality relation on stored keys.
	// If nil, bitwise equality is used. Default: nil.
	KeyEqual KeyEqual

	// Workers caps the number of goroutines a bulk kernel may fan out to.
	// Default: runtime.GOMAXPROCS(0).
	Workers int

	// BlockSize is the number of lanes per launch block; together with the
	// CG size it determines how many cooperative groups one worker runs.
	// Default: DefaultBlockSize.
	BlockSize int

	// Logger is used for slow events: construction and completed rehashes
	// are logged; clears and stream failures are not. Never invoked on the
	// probe hot path.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metric latencies.
	// If nil, a go-timecache backed implementation is used.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting bulk-operation metrics.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector

	// Allocator provides the storage word arrays.
	// If nil, the Go heap is used.
	Allocator Allocator
}

// Validate checks configuration parameters and applies sensible defaults.
// Invalid explicit values are rejected with coded configuration errors;
// zero values are normalized.
//
// This method is automatically called by the container constructors, so
// you typically don't need to call it manually. It is provided as a public
// API if you want to inspect the normalized configuration first.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return NewErrInvalidCapacity(c.Capacity)
	}

	if c.LoadFactor == 0 {
		c.LoadFactor = DefaultLoadFactor
	}
	if c.LoadFactor <= 0 || c.LoadFactor > 1 {
		return NewErrInvalidLoadFactor(c.LoadFactor)
	}

	if c.WindowSize == 0 {
		c.WindowSize = DefaultWindowSize
	}
	if !isPowerOfTwo(c.WindowSize) || c.WindowSize > 8 {
		return NewErrInvalidWindowSize(c.WindowSize)
	}

	if c.CGSize == 0 {
		c.CGSize = DefaultCGSize
	}
	if !isPowerOfTwo(c.CGSize) || c.CGSize > 8 {
		return NewErrInvalidCGSize(c.CGSize)
	}

	if c.EmptyKeySentinel == 0 && c.ErasedKeySentinel == 0 {
		c.EmptyKeySentinel = DefaultEmptyKeySentinel
		if c.EnableErase {
			c.ErasedKeySentinel = DefaultErasedKeySentinel
		}
	}
	if c.EnableErase && c.ErasedKeySentinel == c.EmptyKeySentinel {
		return NewErrSentinelCollision(c.EmptyKeySentinel)
	}

	if c.EmptyValueSentinel == 0 {
		c.EmptyValueSentinel = DefaultEmptyValueSentinel
	}

	if c.ProbingScheme == nil {
		c.ProbingScheme = NewDoubleHashing(c.CGSize)
	} else if cg := c.ProbingScheme.CGSize(); !isPowerOfTwo(cg) || cg > 8 {
		return NewErrInvalidProbing("cg size out of range")
	} else {
		c.CGSize = cg
	}

	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	if c.BlockSize <= 0 {
		c.BlockSize = DefaultBlockSize
	}

	if c.KeyEqual == nil {
		c.KeyEqual = func(a, b uint64) bool { return a == b }
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	if c.Allocator == nil {
		c.Allocator = heapAllocator{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults for the
// given lower-bound capacity.
func DefaultConfig(capacity int) Config {
	return Config{
		Capacity:         capacity,
		LoadFactor:       DefaultLoadFactor,
		WindowSize:       DefaultWindowSize,
		CGSize:           DefaultCGSize,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access compared to time.Now() with zero
// allocations, which matters because the dispatcher stamps every bulk call.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
