// multimap.go: the key/payload container that permits duplicate keys
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// MultiMap is a fixed-capacity container of key/payload pairs where the
// same key may be stored any number of times. Insert never reports a
// present outcome: every pair lands in its own slot and the insert count
// equals the input length (short of capacity exhaustion). Count returns
// the multiplicity of each input key; CountOuter additionally counts a
// matchless key as 1, which makes it additive over outer-join probes.
// Erase tombstones one occurrence per input element.
type MultiMap[K Word, V Word] struct {
	mapCore[K, V]
}

// NewMultiMap creates a multimap sized for cfg.Capacity entries at
// cfg.LoadFactor. Configuration errors are returned synchronously; storage
// initialization runs on the container's default stream and completes
// before NewMultiMap returns.
func NewMultiMap[K Word, V Word](cfg Config) (*MultiMap[K, V], error) {
	t, err := newTable(cfg, true, true)
	if err != nil {
		return nil, err
	}
	return &MultiMap[K, V]{mapCore[K, V]{t: t}}, nil
}
