// example_test.go: runnable documentation examples
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos_test

import (
	"fmt"
	"log"

	"github.com/agilira/xanthos"
)

func ExampleNewSet() {
	set, err := xanthos.NewSet[uint64](xanthos.Config{Capacity: 1024})
	if err != nil {
		log.Fatal(err)
	}
	defer set.Close()

	inserted, err := set.Insert([]uint64{10, 20, 30, 20}, nil)
	if err != nil {
		log.Fatal(err)
	}

	out := make([]bool, 2)
	if err := set.Contains([]uint64{20, 99}, out, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Println(inserted, out[0], out[1])
	// Output: 3 true false
}

func ExampleNewMap() {
	m, err := xanthos.NewMap[uint64, uint64](xanthos.Config{
		Capacity:    1024,
		EnableErase: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if _, err := m.Insert([]uint64{1, 2}, []uint64{100, 200}, nil); err != nil {
		log.Fatal(err)
	}
	if _, err := m.Erase([]uint64{2}, nil); err != nil {
		log.Fatal(err)
	}

	vals := make([]uint64, 2)
	if err := m.Find([]uint64{1, 2}, vals, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Println(vals[0], vals[1] == m.EmptyValueSentinel())
	// Output: 100 true
}

func ExampleStream() {
	set, err := xanthos.NewSet[uint64](xanthos.Config{Capacity: 1024})
	if err != nil {
		log.Fatal(err)
	}
	defer set.Close()

	st := xanthos.NewStream()
	defer st.Close()

	// Writer then reader on one stream: ordered, no intermediate wait.
	set.InsertAsync([]uint64{7, 8, 9}, st)
	out := make([]bool, 3)
	if err := set.ContainsAsync([]uint64{7, 8, 9}, out, st); err != nil {
		log.Fatal(err)
	}
	if err := st.Wait(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(out[0], out[1], out[2])
	// Output: true true true
}
