// map.go: the key/payload containers
//
// Map and MultiMap share mapCore, the typed host surface over two-word
// slots. Map keeps keys unique; MultiMap relaxes that and is declared in
// multimap.go.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// mapCore is the common bulk surface of the payload-carrying containers.
type mapCore[K Word, V Word] struct {
	t *table
}

// Insert stores every absent pair of (keys, vals). Returns the number of
// pairs that produced an inserted outcome; a present key keeps its stored
// payload.
func (m *mapCore[K, V]) Insert(keys []K, vals []V, st *Stream) (int64, error) {
	if len(vals) != len(keys) {
		return 0, NewErrLengthMismatch("insert", len(keys), len(vals))
	}
	return m.t.insertSync(stageWords(keys), stageWords(vals), nil, st)
}

// InsertAsync is Insert without the stream wait and without a count.
func (m *mapCore[K, V]) InsertAsync(keys []K, vals []V, st *Stream) error {
	if len(vals) != len(keys) {
		return NewErrLengthMismatch("insert", len(keys), len(vals))
	}
	m.t.insertAsync(stageWords(keys), stageWords(vals), nil, nil, st)
	return nil
}

// InsertIf inserts pair i only where stencil(i) is true.
func (m *mapCore[K, V]) InsertIf(keys []K, vals []V, stencil Stencil, st *Stream) (int64, error) {
	if len(vals) != len(keys) {
		return 0, NewErrLengthMismatch("insert_if", len(keys), len(vals))
	}
	return m.t.insertSync(stageWords(keys), stageWords(vals), stencil, st)
}

// InsertIfAsync is InsertIf without the stream wait and without a count.
func (m *mapCore[K, V]) InsertIfAsync(keys []K, vals []V, stencil Stencil, st *Stream) error {
	if len(vals) != len(keys) {
		return NewErrLengthMismatch("insert_if", len(keys), len(vals))
	}
	m.t.insertAsync(stageWords(keys), stageWords(vals), stencil, nil, st)
	return nil
}

// InsertAndFindAsync inserts each pair and reports, per input, the payload
// now stored under the key and whether this call inserted it.
func (m *mapCore[K, V]) InsertAndFindAsync(keys []K, vals []V, outVals []V, outInserted []bool, st *Stream) error {
	if len(vals) != len(keys) || len(outVals) != len(keys) || len(outInserted) != len(keys) {
		return NewErrLengthMismatch("insert_and_find", len(keys), len(outVals))
	}
	staged := make([]uint64, len(keys))
	m.t.insertAndFindAsync(stageWords(keys), stageWords(vals), staged, outInserted, func() {
		unstageWords(outVals, staged)
	}, st)
	return nil
}

// Contains reports, per input key, whether it is present.
func (m *mapCore[K, V]) Contains(keys []K, out []bool, st *Stream) error {
	if err := m.ContainsAsync(keys, out, st); err != nil {
		return err
	}
	return m.t.waitStream(st)
}

// ContainsAsync is Contains without the stream wait; out is written when
// the command executes and must stay alive until the next wait.
func (m *mapCore[K, V]) ContainsAsync(keys []K, out []bool, st *Stream) error {
	if len(out) != len(keys) {
		return NewErrLengthMismatch("contains", len(keys), len(out))
	}
	m.t.containsAsync(stageWords(keys), out, nil, st)
	return nil
}

// ContainsIfAsync masks the membership test with stencil; masked-out
// elements report false.
func (m *mapCore[K, V]) ContainsIfAsync(keys []K, stencil Stencil, out []bool, st *Stream) error {
	if len(out) != len(keys) {
		return NewErrLengthMismatch("contains_if", len(keys), len(out))
	}
	m.t.containsAsync(stageWords(keys), out, stencil, st)
	return nil
}

// FindAsync writes, per input key, the stored payload or the empty-value
// sentinel when absent.
func (m *mapCore[K, V]) FindAsync(keys []K, out []V, st *Stream) error {
	if len(out) != len(keys) {
		return NewErrLengthMismatch("find", len(keys), len(out))
	}
	staged := make([]uint64, len(keys))
	m.t.findAsync(stageWords(keys), staged, func() {
		unstageWords(out, staged)
	}, st)
	return nil
}

// Find is FindAsync followed by a stream wait.
func (m *mapCore[K, V]) Find(keys []K, out []V, st *Stream) error {
	if err := m.FindAsync(keys, out, st); err != nil {
		return err
	}
	return m.t.waitStream(st)
}

// Erase tombstones every input key present and returns how many slots were
// erased. Requires EnableErase at construction.
func (m *mapCore[K, V]) Erase(keys []K, st *Stream) (int64, error) {
	counter, err := eraseCounted(m.t, stageWords(keys), st)
	if err != nil {
		return 0, err
	}
	if err := m.t.waitStream(st); err != nil {
		return counter.Load(), err
	}
	return counter.Load(), nil
}

// EraseAsync is Erase without the stream wait and without a count.
func (m *mapCore[K, V]) EraseAsync(keys []K, st *Stream) error {
	return m.t.eraseAsync(stageWords(keys), nil, st)
}

// Count returns the total multiplicity of the input keys.
func (m *mapCore[K, V]) Count(keys []K, st *Stream) (int64, error) {
	return m.t.countSync(stageWords(keys), false, st)
}

// CountOuter counts like Count but every key without a match contributes
// 1, the outer-join convention.
func (m *mapCore[K, V]) CountOuter(keys []K, st *Stream) (int64, error) {
	return m.t.countSync(stageWords(keys), true, st)
}

// Size returns the number of filled slots.
func (m *mapCore[K, V]) Size(st *Stream) (int, error) {
	return m.t.sizeSync(st)
}

// Clear resets every slot to the empty sentinels.
func (m *mapCore[K, V]) Clear(st *Stream) error {
	return m.t.clearSync(st)
}

// ClearAsync is Clear without the stream wait.
func (m *mapCore[K, V]) ClearAsync(st *Stream) {
	m.t.clearAsync(st)
}

// RetrieveAll writes every stored pair into dstKeys/dstVals in unspecified
// order and returns how many were written. Destinations shorter than
// Size() are an error.
func (m *mapCore[K, V]) RetrieveAll(dstKeys []K, dstVals []V, st *Stream) (int, error) {
	if len(dstVals) != len(dstKeys) {
		return 0, NewErrLengthMismatch("retrieve_all", len(dstKeys), len(dstVals))
	}
	stagedK := make([]uint64, len(dstKeys))
	stagedV := make([]uint64, len(dstVals))
	n, err := m.t.retrieveSync(stagedK, stagedV, func() {
		unstageWords(dstKeys, stagedK)
		unstageWords(dstVals, stagedV)
	}, st)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Rehash relocates all live entries into fresh storage holding at least
// capacity slots; capacity 0 keeps the current extent. Tombstones do not
// survive.
func (m *mapCore[K, V]) Rehash(capacity int, st *Stream) error {
	return m.t.rehashSync(capacity, st)
}

// RehashAsync is Rehash without the stream wait.
func (m *mapCore[K, V]) RehashAsync(capacity int, st *Stream) {
	m.t.rehashAsync(capacity, st)
}

// Wait blocks until every command issued to st (or to the default stream
// when st is nil) has executed and returns the first recorded error.
func (m *mapCore[K, V]) Wait(st *Stream) error {
	return m.t.waitStream(st)
}

/*
   -------- Observers --------
*/

// Capacity returns the total number of slots.
func (m *mapCore[K, V]) Capacity() int { return m.t.store.Load().capacity() }

// EmptyKeySentinel returns the reserved empty key.
func (m *mapCore[K, V]) EmptyKeySentinel() K { return K(m.t.emptyKey) }

// ErasedKeySentinel returns the reserved erased key; meaningful only with
// EnableErase.
func (m *mapCore[K, V]) ErasedKeySentinel() K { return K(m.t.erasedKey) }

// EmptyValueSentinel returns the reserved empty payload.
func (m *mapCore[K, V]) EmptyValueSentinel() V { return V(m.t.emptyValue) }

// KeyEq returns the key equality relation.
func (m *mapCore[K, V]) KeyEq() KeyEqual { return m.t.keyEq }

// ProbingScheme returns the probing scheme.
func (m *mapCore[K, V]) ProbingScheme() ProbingScheme { return m.t.probing }

// Allocator returns the storage allocator.
func (m *mapCore[K, V]) Allocator() Allocator { return m.t.alloc }

// StorageRef returns a non-owning view of the current storage generation.
// The view is invalidated by Rehash.
func (m *mapCore[K, V]) StorageRef() StorageRef { return m.t.store.Load().ref() }

// Stats scans the live size on the default stream and returns activity
// counters.
func (m *mapCore[K, V]) Stats() TableStats { return m.t.statsSnapshot(nil) }

// Close drains the default stream and releases the container.
func (m *mapCore[K, V]) Close() error { return m.t.close() }

// Map is a fixed-capacity container of unique keys with 64-bit payloads.
// A present key keeps its payload; erase-then-insert replaces it.
type Map[K Word, V Word] struct {
	mapCore[K, V]
}

// NewMap creates a map sized for cfg.Capacity entries at cfg.LoadFactor.
// Configuration errors are returned synchronously; storage initialization
// runs on the container's default stream and completes before NewMap
// returns.
func NewMap[K Word, V Word](cfg Config) (*Map[K, V], error) {
	t, err := newTable(cfg, true, false)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{mapCore[K, V]{t: t}}, nil
}
