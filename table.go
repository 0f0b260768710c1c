// table.go: the open-addressing engine behind Set, Map and MultiMap
//
// The table owns exactly one storage generation at a time and dispatches
// bulk operations against it. A bulk call computes a launch grid from the
// input length, the block size and the cooperative-group size, fans the
// input out over a bounded worker pool, and runs the probe loop of ref.go
// on each lane. Asynchronous variants enqueue the whole launch as a single
// command on a stream; synchronous variants additionally wait on the
// stream and read back the call's counter.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// table is the engine shared by the public containers. All fields except
// store are immutable after construction; store is swapped by rehash and
// read through an atomic pointer so refs always see a coherent generation.
type table struct {
	store atomic.Pointer[storage]

	probing ProbingScheme
	keyEq   KeyEqual

	emptyKey   uint64
	erasedKey  uint64
	emptyValue uint64

	eraseOK    bool
	hasPayload bool
	allowDup   bool

	windowSize int
	workers    int
	blockSize  int

	alloc   Allocator
	logger  Logger
	metrics MetricsCollector
	clock   TimeProvider

	defStream *Stream

	// Activity counters, aggregated once per worker chunk.
	nInserts  atomic.Uint64
	nPresent  atomic.Uint64
	nErases   atomic.Uint64
	nHits     atomic.Uint64
	nMisses   atomic.Uint64
	nRehashes atomic.Uint64
}

// newTable validates cfg, allocates storage and schedules its
// initialization on the container's default stream.
func newTable(cfg Config, hasPayload, allowDup bool) (*table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &table{
		probing:    cfg.ProbingScheme,
		keyEq:      cfg.KeyEqual,
		emptyKey:   cfg.EmptyKeySentinel,
		erasedKey:  cfg.ErasedKeySentinel,
		emptyValue: cfg.EmptyValueSentinel,
		eraseOK:    cfg.EnableErase,
		hasPayload: hasPayload,
		allowDup:   allowDup,
		windowSize: cfg.WindowSize,
		workers:    cfg.Workers,
		blockSize:  cfg.BlockSize,
		alloc:      cfg.Allocator,
		logger:     cfg.Logger,
		metrics:    cfg.MetricsCollector,
		clock:      cfg.TimeProvider,
		defStream:  NewStream(),
	}

	extent := makeWindowExtent(cfg.Capacity, cfg.LoadFactor, cfg.WindowSize, t.probing.CGSize())
	t.store.Store(newStorage(extent, cfg.WindowSize, hasPayload, cfg.Allocator))

	// The first probe must never observe uninitialized slots, so the
	// initial clear is bracketed before the constructor returns.
	t.clearAsync(nil)
	if err := t.defStream.Wait(); err != nil {
		t.defStream.Close()
		return nil, err
	}

	t.logger.Info("container constructed",
		"capacity", extent*cfg.WindowSize,
		"windows", extent,
		"window_size", cfg.WindowSize,
		"cg_size", t.probing.CGSize(),
	)
	return t, nil
}

// ref builds a device-side view of the current storage generation.
func (t *table) ref() tableRef {
	return tableRef{
		store:      t.store.Load().ref(),
		probing:    t.probing,
		keyEq:      t.keyEq,
		emptyKey:   t.emptyKey,
		erasedKey:  t.erasedKey,
		emptyValue: t.emptyValue,
		eraseOK:    t.eraseOK,
		allowDup:   t.allowDup,
	}
}

// resolve maps a nil stream onto the container's default stream.
func (t *table) resolve(st *Stream) *Stream {
	if st == nil {
		return t.defStream
	}
	return st
}

/*
   -------- Launch grid --------
*/

// launch fans body out over the worker pool. The grid holds one
// cooperative group per input element, blockSize/cgSize groups per block,
// and one worker per block up to the configured cap. body receives a
// disjoint [lo, hi) chunk; the first chunk error wins.
func (t *table) launch(n int, body func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	groupsPerBlock := t.blockSize / t.probing.CGSize()
	if groupsPerBlock < 1 {
		groupsPerBlock = 1
	}
	blocks := (n + groupsPerBlock - 1) / groupsPerBlock
	workers := t.workers
	if blocks < workers {
		workers = blocks
	}
	if workers <= 1 {
		return body(0, n)
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error { return body(lo, hi) })
	}
	return g.Wait()
}

/*
   -------- Kernels --------

   Kernels run inside stream commands, never on the host goroutine.
*/

// valueAt selects the staged payload for input i; set mode carries none.
func valueAt(vals []uint64, i int, fallback uint64) uint64 {
	if vals == nil {
		return fallback
	}
	return vals[i]
}

// kernInsert services insert, insert_if and insert_and_find. outVals and
// outInserted may be nil; stencil may be nil. counter, when non-nil,
// accumulates the number of inserted outcomes.
func (t *table) kernInsert(keys, vals, outVals []uint64, outInserted []bool, stencil Stencil, counter *atomic.Int64) error {
	ref := t.ref()
	err := t.launch(len(keys), func(lo, hi int) error {
		var ins, pres int64
		for i := lo; i < hi; i++ {
			if stencil != nil && !stencil(i) {
				if outInserted != nil {
					outInserted[i] = false
				}
				if outVals != nil {
					outVals[i] = t.emptyValue
				}
				continue
			}
			outcome, slot := ref.insert(keys[i], valueAt(vals, i, t.emptyValue))
			if outcome == outcomeFull {
				t.nInserts.Add(uint64(ins))
				t.nPresent.Add(uint64(pres))
				if counter != nil {
					counter.Add(ins)
				}
				return NewErrCapacityExhausted(ref.store.Capacity())
			}
			if outcome == outcomeInserted {
				ins++
			} else {
				pres++
			}
			if outInserted != nil {
				outInserted[i] = outcome == outcomeInserted
			}
			if outVals != nil {
				if ref.store.vals != nil {
					outVals[i] = ref.loadValue(slot)
				} else {
					outVals[i] = ref.loadKey(slot)
				}
			}
		}
		t.nInserts.Add(uint64(ins))
		t.nPresent.Add(uint64(pres))
		if counter != nil {
			counter.Add(ins)
		}
		return nil
	})
	return err
}

// kernContains services contains and contains_if. Masked-out elements get
// the neutral outcome false.
func (t *table) kernContains(keys []uint64, out []bool, stencil Stencil) error {
	ref := t.ref()
	return t.launch(len(keys), func(lo, hi int) error {
		var hits, misses uint64
		for i := lo; i < hi; i++ {
			if stencil != nil && !stencil(i) {
				out[i] = false
				continue
			}
			found := ref.contains(keys[i])
			out[i] = found
			if found {
				hits++
			} else {
				misses++
			}
		}
		t.nHits.Add(hits)
		t.nMisses.Add(misses)
		return nil
	})
}

// kernFind writes the payload of each found key (the key itself in set
// mode) and the miss word for the rest: the empty value sentinel in map
// mode, the empty key sentinel in set mode.
func (t *table) kernFind(keys, outVals []uint64) error {
	ref := t.ref()
	return t.launch(len(keys), func(lo, hi int) error {
		var hits, misses uint64
		for i := lo; i < hi; i++ {
			v, found := ref.find(keys[i])
			outVals[i] = v
			if found {
				hits++
			} else {
				misses++
			}
		}
		t.nHits.Add(hits)
		t.nMisses.Add(misses)
		return nil
	})
}

// kernErase tombstones each input key present in the table.
func (t *table) kernErase(keys []uint64, counter *atomic.Int64) error {
	ref := t.ref()
	return t.launch(len(keys), func(lo, hi int) error {
		var erased int64
		for i := lo; i < hi; i++ {
			if ref.erase(keys[i]) {
				erased++
			}
		}
		t.nErases.Add(uint64(erased))
		if counter != nil {
			counter.Add(erased)
		}
		return nil
	})
}

// kernCount accumulates per-key match multiplicities; with outer set a key
// without matches contributes 1, the outer-join convention.
func (t *table) kernCount(keys []uint64, outer bool, counter *atomic.Int64) error {
	ref := t.ref()
	return t.launch(len(keys), func(lo, hi int) error {
		var total int64
		for i := lo; i < hi; i++ {
			c := ref.count(keys[i])
			if outer && c == 0 {
				c = 1
			}
			total += c
		}
		counter.Add(total)
		return nil
	})
}

// kernSize counts filled slots across the whole storage.
func (t *table) kernSize(counter *atomic.Int64) error {
	ref := t.ref()
	return t.launch(ref.store.Capacity(), func(lo, hi int) error {
		var filled int64
		for i := lo; i < hi; i++ {
			if ref.isFilled(ref.loadKey(i)) {
				filled++
			}
		}
		counter.Add(filled)
		return nil
	})
}

// kernClear rewrites every slot with the empty sentinels.
func (t *table) kernClear() error {
	s := t.store.Load()
	return t.launch(s.capacity(), func(lo, hi int) error {
		s.initialize(t.emptyKey, t.emptyValue, lo, hi)
		return nil
	})
}

// kernRetrieve stream-compacts the filled slots into dst. Two passes over
// fixed slot-range chunks: the first counts survivors of the filled-slot
// select predicate per chunk, the second writes each chunk at its
// exclusive-scan offset. Order is unspecified and not stable.
func (t *table) kernRetrieve(dstKeys, dstVals []uint64, written *int) error {
	ref := t.ref()
	capacity := ref.store.Capacity()

	workers := t.workers
	if workers < 1 {
		workers = 1
	}
	chunk := (capacity + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}
	nChunks := (capacity + chunk - 1) / chunk
	counts := make([]int, nChunks)

	var g errgroup.Group
	for c := 0; c < nChunks; c++ {
		lo, hi := c*chunk, (c+1)*chunk
		if hi > capacity {
			hi = capacity
		}
		g.Go(func() error {
			n := 0
			for i := lo; i < hi; i++ {
				if ref.isFilled(ref.loadKey(i)) {
					n++
				}
			}
			counts[c] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	offsets := make([]int, nChunks)
	total := 0
	for c, n := range counts {
		offsets[c] = total
		total += n
	}
	if total > len(dstKeys) {
		return NewErrOutputTruncated(total, len(dstKeys))
	}

	var g2 errgroup.Group
	for c := 0; c < nChunks; c++ {
		lo, hi := c*chunk, (c+1)*chunk
		if hi > capacity {
			hi = capacity
		}
		g2.Go(func() error {
			at := offsets[c]
			for i := lo; i < hi; i++ {
				word := ref.loadKey(i)
				if !ref.isFilled(word) {
					continue
				}
				dstKeys[at] = word
				if dstVals != nil {
					dstVals[at] = ref.loadValue(i)
				}
				at++
			}
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return err
	}
	*written = total
	return nil
}

// kernRehash relocates every live entry into a fresh storage generation
// at the target extent, then swaps the generations. Tombstones do not
// survive a rehash. The old generation is dropped only after a complete
// relocation; a too-small target leaves the container untouched.
func (t *table) kernRehash(targetCapacity int) error {
	old := t.store.Load()

	windows := old.numWindows
	if targetCapacity > 0 {
		windows = nextPowerOf2((targetCapacity + t.windowSize - 1) / t.windowSize)
		if cg := t.probing.CGSize(); windows < cg {
			windows = cg
		}
	}

	fresh := newStorage(windows, t.windowSize, t.hasPayload, t.alloc)
	if err := t.launch(fresh.capacity(), func(lo, hi int) error {
		fresh.initialize(t.emptyKey, t.emptyValue, lo, hi)
		return nil
	}); err != nil {
		return err
	}

	oldRef := t.ref()
	freshRef := oldRef
	freshRef.store = fresh.ref()

	err := t.launch(old.capacity(), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			word := oldRef.loadKey(i)
			if !oldRef.isFilled(word) {
				continue
			}
			value := t.emptyValue
			if oldRef.store.vals != nil {
				value = oldRef.loadValue(i)
			}
			if outcome, _ := freshRef.insert(word, value); outcome == outcomeFull {
				return NewErrRehashOverflow(old.capacity(), fresh.capacity())
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	t.store.Store(fresh)
	t.nRehashes.Add(1)
	t.logger.Info("storage rehashed", "capacity", fresh.capacity(), "windows", windows)
	return nil
}

/*
   -------- Host-facing operations --------

   Async variants enqueue one command and return; synchronous variants
   wait on the stream. finish hooks run in-command after the kernel so
   typed wrappers can copy staged outputs back in stream order.
*/

func (t *table) enqueue(st *Stream, op string, kern func() error) {
	t.resolve(st).submit(op, kern)
}

func (t *table) insertAsync(keys, vals []uint64, stencil Stencil, counter *atomic.Int64, st *Stream) {
	t.enqueue(st, "insert", func() error {
		c := counter
		if c == nil {
			c = new(atomic.Int64)
		}
		start := t.clock.Now()
		err := t.kernInsert(keys, vals, nil, nil, stencil, c)
		t.metrics.RecordInsert(t.clock.Now()-start, c.Load())
		return err
	})
}

func (t *table) insertSync(keys, vals []uint64, stencil Stencil, st *Stream) (int64, error) {
	counter := new(atomic.Int64)
	t.insertAsync(keys, vals, stencil, counter, st)
	if err := t.resolve(st).Wait(); err != nil {
		return counter.Load(), err
	}
	return counter.Load(), nil
}

func (t *table) insertAndFindAsync(keys, vals, outVals []uint64, outInserted []bool, finish func(), st *Stream) {
	t.enqueue(st, "insert_and_find", func() error {
		start := t.clock.Now()
		counter := new(atomic.Int64)
		err := t.kernInsert(keys, vals, outVals, outInserted, nil, counter)
		if finish != nil {
			finish()
		}
		t.metrics.RecordInsert(t.clock.Now()-start, counter.Load())
		return err
	})
}

func (t *table) containsAsync(keys []uint64, out []bool, stencil Stencil, st *Stream) {
	t.enqueue(st, "contains", func() error {
		start := t.clock.Now()
		hitsBefore := t.nHits.Load()
		err := t.kernContains(keys, out, stencil)
		t.metrics.RecordLookup(t.clock.Now()-start, int64(t.nHits.Load()-hitsBefore))
		return err
	})
}

func (t *table) findAsync(keys, outVals []uint64, finish func(), st *Stream) {
	t.enqueue(st, "find", func() error {
		start := t.clock.Now()
		hitsBefore := t.nHits.Load()
		err := t.kernFind(keys, outVals)
		if finish != nil {
			finish()
		}
		t.metrics.RecordLookup(t.clock.Now()-start, int64(t.nHits.Load()-hitsBefore))
		return err
	})
}

func (t *table) eraseAsync(keys []uint64, counter *atomic.Int64, st *Stream) error {
	if !t.eraseOK {
		return NewErrEraseDisabled()
	}
	t.enqueue(st, "erase", func() error {
		start := t.clock.Now()
		erasedBefore := t.nErases.Load()
		err := t.kernErase(keys, counter)
		t.metrics.RecordErase(t.clock.Now()-start, int64(t.nErases.Load()-erasedBefore))
		return err
	})
	return nil
}

// eraseCounted schedules an erase with a per-call counter the caller reads
// after the stream wait.
func eraseCounted(t *table, keys []uint64, st *Stream) (*atomic.Int64, error) {
	counter := new(atomic.Int64)
	if err := t.eraseAsync(keys, counter, st); err != nil {
		return nil, err
	}
	return counter, nil
}

func (t *table) countSync(keys []uint64, outer bool, st *Stream) (int64, error) {
	counter := new(atomic.Int64)
	t.enqueue(st, "count", func() error {
		start := t.clock.Now()
		err := t.kernCount(keys, outer, counter)
		t.metrics.RecordLookup(t.clock.Now()-start, counter.Load())
		return err
	})
	if err := t.resolve(st).Wait(); err != nil {
		return 0, err
	}
	return counter.Load(), nil
}

func (t *table) sizeSync(st *Stream) (int, error) {
	counter := new(atomic.Int64)
	t.enqueue(st, "size", func() error { return t.kernSize(counter) })
	if err := t.resolve(st).Wait(); err != nil {
		return 0, err
	}
	return int(counter.Load()), nil
}

func (t *table) clearAsync(st *Stream) {
	t.enqueue(st, "clear", func() error {
		start := t.clock.Now()
		err := t.kernClear()
		t.metrics.RecordClear(t.clock.Now() - start)
		return err
	})
}

func (t *table) clearSync(st *Stream) error {
	t.clearAsync(st)
	return t.resolve(st).Wait()
}

func (t *table) retrieveSync(dstKeys, dstVals []uint64, finish func(), st *Stream) (int, error) {
	written := new(int)
	t.enqueue(st, "retrieve_all", func() error {
		err := t.kernRetrieve(dstKeys, dstVals, written)
		if finish != nil {
			finish()
		}
		return err
	})
	if err := t.resolve(st).Wait(); err != nil {
		return 0, err
	}
	return *written, nil
}

func (t *table) rehashAsync(targetCapacity int, st *Stream) {
	t.enqueue(st, "rehash", func() error {
		start := t.clock.Now()
		err := t.kernRehash(targetCapacity)
		if err == nil {
			t.metrics.RecordRehash(t.clock.Now()-start, t.store.Load().capacity())
		}
		return err
	})
}

func (t *table) rehashSync(targetCapacity int, st *Stream) error {
	t.rehashAsync(targetCapacity, st)
	return t.resolve(st).Wait()
}

func (t *table) waitStream(st *Stream) error {
	return t.resolve(st).Wait()
}

// statsSnapshot scans for the live size on the given stream and bundles it
// with the activity counters.
func (t *table) statsSnapshot(st *Stream) TableStats {
	size, _ := t.sizeSync(st)
	return TableStats{
		Inserts:  t.nInserts.Load(),
		Present:  t.nPresent.Load(),
		Erases:   t.nErases.Load(),
		Hits:     t.nHits.Load(),
		Misses:   t.nMisses.Load(),
		Rehashes: t.nRehashes.Load(),
		Size:     size,
		Capacity: t.store.Load().capacity(),
	}
}

// close drains and stops the default stream.
func (t *table) close() error {
	return t.defStream.Close()
}
