// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"github.com/pkg/errors"
)

// Strides returns the strides for each axis of the shape, in column-major layout: the first axis
// has stride 1, and each following axis the stride of the previous one times its length.
//
// Notice the strides are **not in bytes**, but in indices.
func (s Shape) Strides() (strides []int) {
	rank := s.Rank()
	if rank == 0 {
		return
	}
	strides = make([]int, rank)
	currentStride := 1
	for axis := range rank {
		strides[axis] = currentStride
		currentStride *= s.axes[axis].length
	}
	return
}

// Contains returns whether indices is a valid Cartesian index of the shape. See CheckIndex.
func (s Shape) Contains(indices ...int) bool {
	return s.CheckIndex(indices) == nil
}

// CheckIndex checks that indices is a valid Cartesian index of the shape, with dimension padding:
//
//   - Indices beyond the rank are accepted if they are 0, the only index of an implicit axis of length 1.
//   - Missing trailing indices are accepted if the axes they refer to have length 1.
//
// It returns an error wrapping ErrOutOfBounds otherwise.
func (s Shape) CheckIndex(indices []int) error {
	rank := s.Rank()
	for axis, index := range indices {
		if axis >= rank {
			if index != 0 {
				return errors.Wrapf(ErrOutOfBounds, "index %v out of bounds for shape %s: padding index #%d must be 0",
					indices, s, axis)
			}
			continue
		}
		if !s.axes[axis].Contains(index) {
			return errors.Wrapf(ErrOutOfBounds, "index %v out of bounds for shape %s: axis %d takes indices %s",
				indices, s, axis, s.axes[axis].Range())
		}
	}
	for axis := len(indices); axis < rank; axis++ {
		if s.axes[axis].length != 1 {
			return errors.Wrapf(ErrOutOfBounds, "index %v has %d indices for shape %s: missing axis %d has length %d",
				indices, len(indices), s, axis, s.axes[axis].length)
		}
	}
	return nil
}

// CheckLinear checks that linear is a valid linear index, that is 0 <= linear < s.Size().
// It returns an error wrapping ErrOutOfBounds otherwise.
func (s Shape) CheckLinear(linear int) error {
	if size := s.Size(); uint(linear) >= uint(size) {
		return errors.Wrapf(ErrOutOfBounds, "linear index %d out of bounds for shape %s with %d elements", linear, s, size)
	}
	return nil
}

// LinearIndex converts a Cartesian index into a linear index, in column-major order, relative to the first
// index of each axis.
//
// Indices beyond the rank are ignored and missing indices are taken as the first index of their axis,
// so any index accepted by CheckIndex is converted. It doesn't check bounds.
func (s Shape) LinearIndex(indices []int) (linear int) {
	stride := 1
	for axis, entry := range s.axes {
		if axis < len(indices) {
			linear += (indices[axis] - entry.first) * stride
		}
		stride *= entry.length
	}
	return
}

// CartesianIndex converts a linear index into a Cartesian index, with the absolute index of each axis (so
// respecting each axis' first index).
//
// If dst has capacity for Rank() elements it is used to store the result, otherwise a new slice is allocated.
// It doesn't check bounds.
func (s Shape) CartesianIndex(linear int, dst []int) []int {
	rank := s.Rank()
	if cap(dst) < rank {
		dst = make([]int, rank)
	}
	dst = dst[:rank]
	for axis, entry := range s.axes {
		if entry.length == 0 {
			dst[axis] = entry.first
			continue
		}
		dst[axis] = entry.first + linear%entry.length
		linear /= entry.length
	}
	return dst
}

// PadIndex returns indices with exactly Rank() elements: extra trailing indices are dropped, and missing ones
// are filled with the first index of their axis.
//
// It returns indices itself (no allocation) if it already has Rank() elements or more.
func (s Shape) PadIndex(indices []int) []int {
	rank := s.Rank()
	if len(indices) >= rank {
		return indices[:rank]
	}
	padded := make([]int, rank)
	copy(padded, indices)
	for axis := len(indices); axis < rank; axis++ {
		padded[axis] = s.axes[axis].first
	}
	return padded
}

// UnitIndex returns the first index of every axis.
func (s Shape) UnitIndex() []int {
	indices := make([]int, s.Rank())
	for axis, entry := range s.axes {
		indices[axis] = entry.first
	}
	return indices
}
