// config_test.go: configuration validation and default tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "testing"

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := Config{Capacity: 100}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.LoadFactor != DefaultLoadFactor {
		t.Errorf("expected default load factor, got %v", cfg.LoadFactor)
	}
	if cfg.WindowSize != DefaultWindowSize {
		t.Errorf("expected default window size, got %d", cfg.WindowSize)
	}
	if cfg.EmptyKeySentinel != DefaultEmptyKeySentinel {
		t.Errorf("expected default empty sentinel, got %d", cfg.EmptyKeySentinel)
	}
	if cfg.EmptyValueSentinel != DefaultEmptyValueSentinel {
		t.Errorf("expected default empty value sentinel, got %d", cfg.EmptyValueSentinel)
	}
	if cfg.ProbingScheme == nil {
		t.Error("expected a default probing scheme")
	}
	if cfg.CGSize != DefaultCGSize {
		t.Errorf("expected default cg size, got %d", cfg.CGSize)
	}
	if cfg.Workers <= 0 || cfg.BlockSize != DefaultBlockSize {
		t.Errorf("expected worker and block defaults, got %d/%d", cfg.Workers, cfg.BlockSize)
	}
	if cfg.KeyEqual == nil || cfg.Logger == nil || cfg.TimeProvider == nil ||
		cfg.MetricsCollector == nil || cfg.Allocator == nil {
		t.Error("expected all collaborator defaults to be filled")
	}
}

func TestConfig_EraseSentinelDefault(t *testing.T) {
	cfg := Config{Capacity: 8, EnableErase: true}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.ErasedKeySentinel != DefaultErasedKeySentinel {
		t.Errorf("expected default erased sentinel, got %d", cfg.ErasedKeySentinel)
	}
	if cfg.ErasedKeySentinel == cfg.EmptyKeySentinel {
		t.Error("sentinels must differ when erase is enabled")
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	bad := []Config{
		{Capacity: 0},
		{Capacity: -1},
		{Capacity: 8, LoadFactor: -0.5},
		{Capacity: 8, LoadFactor: 1.01},
		{Capacity: 8, WindowSize: 16},
		{Capacity: 8, WindowSize: 3},
		{Capacity: 8, CGSize: 16},
		{Capacity: 8, EnableErase: true, EmptyKeySentinel: 5, ErasedKeySentinel: 5},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); !IsConfigError(err) {
			t.Errorf("case %d: expected config error, got %v", i, err)
		}
	}
}

func TestConfig_ProbingSchemeWinsCGSize(t *testing.T) {
	cfg := Config{Capacity: 8, CGSize: 2, ProbingScheme: NewDoubleHashing(8)}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.CGSize != 8 {
		t.Errorf("expected the scheme's cg size to win, got %d", cfg.CGSize)
	}
}

func TestConfig_CustomKeyEqual(t *testing.T) {
	// Match on the low 32 bits only.
	s, err := NewSet[uint64](Config{
		Capacity: 64,
		KeyEqual: func(a, b uint64) bool { return uint32(a) == uint32(b) },
		// One window sequence per low word so equal-class keys collide.
		ProbingScheme: lowWordProbing{},
	})
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	defer s.Close()

	inserted, err := s.Insert([]uint64{1, 1 | (7 << 32)}, nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if inserted != 1 {
		t.Errorf("expected keys equal under the relation to dedupe, got %d inserted", inserted)
	}
}

// lowWordProbing probes by the low 32 bits so keys the custom relation
// considers equal share a window sequence.
type lowWordProbing struct{}

func (lowWordProbing) CGSize() int { return DefaultCGSize }

func (lowWordProbing) WindowStart(key uint64, numWindows uint64) uint64 {
	return hashWord(uint64(uint32(key)), seedA) & (numWindows - 1)
}

func (lowWordProbing) WindowStride(key uint64, numWindows uint64) uint64 {
	return 1
}

func TestDefaultConfigHelper(t *testing.T) {
	cfg := DefaultConfig(256)
	if cfg.Capacity != 256 || cfg.LoadFactor != DefaultLoadFactor {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
