// ref.go: the cooperative probe loop and the single-slot CAS protocol
//
// A tableRef is the device-side view of a container: a non-owning storage
// ref plus the immutable sentinels, probing scheme and key relation. Refs
// are plain values handed to every kernel worker.
//
// One logical query is a cooperative group walking the key's window
// sequence. Per attempt the group examines all W slots of one window and
// combines the per-lane observations into a ballot (first match, first
// empty, first reusable). The lowest candidate wins any CAS; a failed CAS
// retries the same window; a window with neither match nor free slot
// advances the sequence. The walk terminates on a decisive outcome or
// after visiting every window.
//
// Slot words and their transitions:
//
//	empty  -> filled   insert CAS
//	filled -> erased   erase CAS
//	erased -> filled   insert CAS (reuse)
//
// Two-word slots order their writes so the key word is always written
// last on insert and cleared first on erase: insert claims the payload
// word with a CAS from the empty payload sentinel, then publishes the key
// word; erase retires the key word, then resets the payload word. A reader
// that observes a filled key therefore observes its payload.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// insertOutcome is the decisive result of one insert query.
type insertOutcome int8

const (
	outcomeInserted insertOutcome = iota // the key was written to a slot
	outcomePresent                       // an equal key already occupied a slot
	outcomeFull                          // every window visited, no free slot
)

// tableRef bundles everything a kernel worker needs to run queries against
// one storage generation. It is immutable and copied by value.
type tableRef struct {
	store   StorageRef
	probing ProbingScheme
	keyEq   KeyEqual

	emptyKey   uint64
	erasedKey  uint64
	emptyValue uint64

	eraseOK  bool
	allowDup bool // multimap mode: equal keys do not stop insertion
}

/*
   -------- Slot state predicates --------
*/

func (r tableRef) isEmpty(word uint64) bool { return word == r.emptyKey }

func (r tableRef) isErased(word uint64) bool { return r.eraseOK && word == r.erasedKey }

func (r tableRef) isFilled(word uint64) bool { return !r.isEmpty(word) && !r.isErased(word) }

func (r tableRef) loadKey(slot int) uint64 {
	return atomic.LoadUint64(&r.store.keys[slot])
}

func (r tableRef) loadValue(slot int) uint64 {
	return atomic.LoadUint64(&r.store.vals[slot])
}

/*
   -------- Window ballot --------
*/

// ballot is the combined observation of one window scan: the slot index of
// the first lane that saw an equal key, the first that saw empty, and the
// first that saw a reusable (empty or erased) slot; -1 when no lane did.
type ballot struct {
	match    int
	empty    int
	reusable int

	// key words observed at the match and reusable slots, the expected
	// values of a subsequent CAS
	matchWord    uint64
	reusableWord uint64
}

// scanWindow performs one probing attempt: the cooperative group examines
// the W slots of window w in lockstep and ballots the observations. Lane
// order equals slot order, so "first" implements the lowest-lane tie-break.
func (r tableRef) scanWindow(w uint64, key uint64) ballot {
	base := int(w) * r.store.windowSize
	b := ballot{match: -1, empty: -1, reusable: -1}
	for j := 0; j < r.store.windowSize; j++ {
		word := atomic.LoadUint64(&r.store.keys[base+j])
		switch {
		case r.isEmpty(word):
			if b.empty < 0 {
				b.empty = base + j
			}
			if b.reusable < 0 {
				b.reusable = base + j
				b.reusableWord = word
			}
		case r.isErased(word):
			if b.reusable < 0 {
				b.reusable = base + j
				b.reusableWord = word
			}
		default:
			if b.match < 0 && r.keyEq(word, key) {
				b.match = base + j
				b.matchWord = word
			}
		}
	}
	return b
}

/*
   -------- Single-slot protocol --------
*/

// claimSlot publishes (key, value) into a slot observed empty or erased.
// Set mode is a single CAS on the key word. Map mode claims the payload
// word first: only the winner of that CAS may touch the key word, so the
// key write cannot race another writer. Returns false when another lane
// won the slot; the group then re-scans the same window.
func (r tableRef) claimSlot(slot int, observedKey, key, value uint64) bool {
	if r.store.vals == nil {
		return atomic.CompareAndSwapUint64(&r.store.keys[slot], observedKey, key)
	}
	if !atomic.CompareAndSwapUint64(&r.store.vals[slot], r.emptyValue, value) {
		return false
	}
	if !atomic.CompareAndSwapUint64(&r.store.keys[slot], observedKey, key) {
		// The ballot word went stale between scan and claim (empty became
		// erased). The payload CAS already made this lane the sole owner,
		// so publish unconditionally.
		atomic.StoreUint64(&r.store.keys[slot], key)
	}
	return true
}

// retireSlot tombstones a filled slot holding key. The key word is cleared
// first; the payload word is reset afterwards so the slot becomes claimable
// again. Returns false when the slot changed under us.
func (r tableRef) retireSlot(slot int, key uint64) bool {
	if !atomic.CompareAndSwapUint64(&r.store.keys[slot], key, r.erasedKey) {
		return false
	}
	if r.store.vals != nil {
		atomic.StoreUint64(&r.store.vals[slot], r.emptyValue)
	}
	return true
}

/*
   -------- Cooperative probe loop, one method per query kind --------
*/

// insert walks the window sequence until the key is stored or found.
// Returns the decisive outcome and the slot that holds the key.
func (r tableRef) insert(key, value uint64) (insertOutcome, int) {
	n := uint64(r.store.numWindows)
	w := r.probing.WindowStart(key, n)
	stride := r.probing.WindowStride(key, n)

	for attempt := uint64(0); attempt < n; attempt++ {
		for {
			b := r.scanWindow(w, key)
			if !r.allowDup && b.match >= 0 {
				return outcomePresent, b.match
			}
			if b.reusable < 0 {
				break // window exhausted, advance
			}
			if r.claimSlot(b.reusable, b.reusableWord, key, value) {
				return outcomeInserted, b.reusable
			}
			// CAS lost: another group changed this window, retry it
		}
		w = (w + stride) & (n - 1)
	}
	return outcomeFull, -1
}

// missWord is what find reports for an absent key: the empty payload
// sentinel in map mode, the empty key sentinel in set mode.
func (r tableRef) missWord() uint64 {
	if r.store.vals != nil {
		return r.emptyValue
	}
	return r.emptyKey
}

// find walks the window sequence until the key or an empty slot is seen.
// Erased slots are probing-transparent. Returns the payload word (the key
// word itself in set mode) and whether the key was found.
func (r tableRef) find(key uint64) (uint64, bool) {
	n := uint64(r.store.numWindows)
	w := r.probing.WindowStart(key, n)
	stride := r.probing.WindowStride(key, n)

	for attempt := uint64(0); attempt < n; attempt++ {
		b := r.scanWindow(w, key)
		if b.match >= 0 {
			if r.store.vals != nil {
				return r.loadValue(b.match), true
			}
			return r.loadKey(b.match), true
		}
		if b.empty >= 0 {
			return r.missWord(), false
		}
		w = (w + stride) & (n - 1)
	}
	return r.missWord(), false
}

// contains is find without the payload read.
func (r tableRef) contains(key uint64) bool {
	_, found := r.find(key)
	return found
}

// erase walks the window sequence and tombstones the first slot holding an
// equal key. A lost CAS re-scans the same window; an empty slot ends the
// walk with not-found.
func (r tableRef) erase(key uint64) bool {
	n := uint64(r.store.numWindows)
	w := r.probing.WindowStart(key, n)
	stride := r.probing.WindowStride(key, n)

	for attempt := uint64(0); attempt < n; attempt++ {
		for {
			b := r.scanWindow(w, key)
			if b.match >= 0 {
				if r.retireSlot(b.match, b.matchWord) {
					return true
				}
				continue // slot changed underneath, retry this window
			}
			if b.empty >= 0 {
				return false
			}
			break
		}
		w = (w + stride) & (n - 1)
	}
	return false
}

// count returns the number of slots on the key's probing sequence holding
// an equal key. Unique containers yield 0 or 1; multimaps yield the
// multiplicity. The walk stops at the first window containing an empty
// slot, after counting that window's matches.
func (r tableRef) count(key uint64) int64 {
	n := uint64(r.store.numWindows)
	w := r.probing.WindowStart(key, n)
	stride := r.probing.WindowStride(key, n)

	var total int64
	for attempt := uint64(0); attempt < n; attempt++ {
		base := int(w) * r.store.windowSize
		sawEmpty := false
		for j := 0; j < r.store.windowSize; j++ {
			word := atomic.LoadUint64(&r.store.keys[base+j])
			switch {
			case r.isEmpty(word):
				sawEmpty = true
			case r.isErased(word):
				// transparent
			default:
				if r.keyEq(word, key) {
					total++
				}
			}
		}
		if sawEmpty || (!r.allowDup && total > 0) {
			return total
		}
		w = (w + stride) & (n - 1)
	}
	return total
}
