// stream_test.go: command-stream ordering and error-surfacing tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"testing"
)

// TestStream_OrdersCommands checks happens-before across bulk calls on one
// stream: a reader issued after a writer sees the writer's effects.
func TestStream_OrdersCommands(t *testing.T) {
	s, err := NewSet[uint64](Config{Capacity: 1024})
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	defer s.Close()

	st := NewStream()
	defer st.Close()

	keys := make([]uint64, 512)
	for i := range keys {
		keys[i] = uint64(i + 1)
	}
	out := make([]bool, len(keys))

	// Enqueue writer then reader without an intervening wait.
	s.InsertAsync(keys, st)
	if err := s.ContainsAsync(keys, out, st); err != nil {
		t.Fatalf("ContainsAsync failed: %v", err)
	}
	if err := st.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	for i, ok := range out {
		if !ok {
			t.Fatalf("reader ran before writer: key %d missing", keys[i])
		}
	}
}

// TestStream_ErrorSurfacesAtWait checks that a backend error raised inside
// a command is delivered by the next Wait and then cleared.
func TestStream_ErrorSurfacesAtWait(t *testing.T) {
	s, err := NewSet[uint64](Config{
		Capacity:   2,
		LoadFactor: 1.0,
		WindowSize: 1,
		CGSize:     1,
	})
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	defer s.Close()

	st := NewStream()
	defer st.Close()

	s.InsertAsync([]uint64{1, 2, 3, 4, 5}, st)

	if err := st.Wait(); !IsCapacityExhausted(err) {
		t.Fatalf("expected capacity exhaustion at wait, got %v", err)
	}
	// Delivered exactly once.
	if err := st.Wait(); err != nil {
		t.Errorf("expected clean stream after error delivery, got %v", err)
	}
}

// TestStream_SubmitAfterClose checks the stream-closed error path.
func TestStream_SubmitAfterClose(t *testing.T) {
	s, err := NewSet[uint64](Config{Capacity: 64})
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	defer s.Close()

	st := NewStream()
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s.InsertAsync([]uint64{1}, st)
	if err := st.Wait(); !IsStreamClosed(err) {
		t.Errorf("expected XANTHOS_STREAM_CLOSED, got %v", err)
	}
}

// TestStream_IndependentStreams checks that two streams make independent
// progress and both observe the container through their own barriers.
func TestStream_IndependentStreams(t *testing.T) {
	s, err := NewSet[uint64](Config{Capacity: 1024})
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	defer s.Close()

	stA := NewStream()
	defer stA.Close()
	stB := NewStream()
	defer stB.Close()

	s.InsertAsync([]uint64{1, 2, 3}, stA)
	if err := stA.Wait(); err != nil {
		t.Fatalf("Wait A failed: %v", err)
	}

	// After A's barrier, a reader on B sees the writes.
	out := make([]bool, 3)
	if err := s.ContainsAsync([]uint64{1, 2, 3}, out, stB); err != nil {
		t.Fatalf("ContainsAsync failed: %v", err)
	}
	if err := stB.Wait(); err != nil {
		t.Fatalf("Wait B failed: %v", err)
	}
	for i, ok := range out {
		if !ok {
			t.Errorf("key %d not visible across synchronized streams", i+1)
		}
	}
}

// TestStream_WaitIdempotent checks that waiting on an idle stream returns
// immediately with no error.
func TestStream_WaitIdempotent(t *testing.T) {
	st := NewStream()
	defer st.Close()
	for i := 0; i < 3; i++ {
		if err := st.Wait(); err != nil {
			t.Fatalf("idle wait %d failed: %v", i, err)
		}
	}
}
