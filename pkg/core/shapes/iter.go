// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"iter"

	"github.com/gomlx/exceptions"
)

// Iter iterates sequentially over all indices of the shape, in column-major order (the first axis
// varies fastest).
//
// It yields the linear index (counter) and the Cartesian index, with the absolute index of each axis.
//
// To avoid allocating the slice of indices, the yielded indices is owned by the Iter() method:
// don't change it inside the loop.
func (s Shape) Iter() iter.Seq2[int, []int] {
	indices := make([]int, s.Rank())
	return s.IterOn(indices)
}

// IterOn iterates over all indices of the shape, like Iter, updating the given indices slice.
// During the iteration the caller shouldn't modify the slice of indices, otherwise it will lead to undefined behavior.
//
// It expects len(indices) == s.Rank(). It will panic otherwise.
func (s Shape) IterOn(indices []int) iter.Seq2[int, []int] {
	if len(indices) != s.Rank() {
		exceptions.Panicf("Shape.IterOn given len(indices) == %d, want it to be equal to the rank %d", len(indices), s.Rank())
	}
	return func(yield func(int, []int) bool) {
		if s.IsEmpty() {
			return
		}
		rank := s.Rank()
		for axis, entry := range s.axes {
			indices[axis] = entry.first
		}
		if rank == 0 {
			// Scalar: yield one empty index slice.
			_ = yield(0, indices)
			return
		}

		for linear := 0; ; linear++ {
			if !yield(linear, indices) {
				return
			}

			// Increment indices like an odometer, with the first axis moving fastest.
			axis := 0
			for ; axis < rank; axis++ {
				entry := s.axes[axis]
				indices[axis]++
				if indices[axis] <= entry.Last() {
					break
				}
				// Carry over to the next axis.
				indices[axis] = entry.first
			}
			if axis == rank {
				// All axes overflowed: iteration is complete.
				return
			}
		}
	}
}
