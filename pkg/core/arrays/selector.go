// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arrays

import (
	"fmt"

	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Selector selects the elements of an array to write to, in Assign.
//
// Create one with All, Index, Slab or LinearSpan.
type Selector interface {
	fmt.Stringer

	// coversAll returns whether the selector denotes every index of the shape.
	// It returns an error wrapping ErrOutOfBounds if the selector refers to indices outside the shape.
	coversAll(shape shapes.Shape) (bool, error)
}

// All selects every element of the array.
func All() Selector { return allSelector{} }

type allSelector struct{}

func (allSelector) coversAll(shapes.Shape) (bool, error) { return true, nil }
func (allSelector) String() string                      { return "All()" }

// Index selects the single element at the given Cartesian index.
func Index(indices ...int) Selector { return indexSelector(indices) }

type indexSelector []int

func (sel indexSelector) coversAll(shape shapes.Shape) (bool, error) {
	if err := shape.CheckIndex(sel); err != nil {
		return false, err
	}
	return shape.Size() == 1, nil
}

func (sel indexSelector) String() string { return fmt.Sprintf("Index%v", []int(sel)) }

// Slab selects the elements in the given range of each axis.
// There must be one range per axis.
func Slab(ranges ...shapes.Range) Selector { return slabSelector(ranges) }

type slabSelector []shapes.Range

func (sel slabSelector) coversAll(shape shapes.Shape) (bool, error) {
	if len(sel) != shape.Rank() {
		return false, errors.Wrapf(ErrOutOfBounds, "%s has %d ranges for shape %s of rank %d",
			sel, len(sel), shape, shape.Rank())
	}
	covers := true
	for axis, r := range sel {
		axisCovered, err := rangeCoversAxis(r, shape.Axis(axis))
		if err != nil {
			return false, errors.WithMessagef(err, "%s, axis %d", sel, axis)
		}
		covers = covers && axisCovered
	}
	return covers, nil
}

func (sel slabSelector) String() string { return fmt.Sprintf("Slab%v", []shapes.Range(sel)) }

// LinearSpan selects the elements in the given range of linear indices.
func LinearSpan(r shapes.Range) Selector { return linearSelector(r) }

type linearSelector shapes.Range

func (sel linearSelector) coversAll(shape shapes.Shape) (bool, error) {
	covered, err := rangeCoversAxis(shapes.Range(sel), shapes.Make(shape.Size()).Axis(0))
	if err != nil {
		return false, errors.WithMessagef(err, "%s, linear indices of shape %s", sel, shape)
	}
	return covered, nil
}

func (sel linearSelector) String() string { return fmt.Sprintf("LinearSpan(%s)", shapes.Range(sel)) }

// rangeCoversAxis checks the range is within the axis and returns whether it covers every index of it.
func rangeCoversAxis(r shapes.Range, axis shapes.Axis) (bool, error) {
	n := r.Len()
	if n == 0 {
		return axis.Len() == 0, nil
	}
	lo, hi := r.First, r.First+(n-1)*r.Step
	if lo > hi {
		lo, hi = hi, lo
	}
	if !axis.Contains(lo) || !axis.Contains(hi) {
		return false, errors.Wrapf(ErrOutOfBounds, "range %s outside of valid indices %s", r, axis.Range())
	}
	if n == 1 {
		// The step of a single-element range is irrelevant.
		return axis.Len() == 1, nil
	}
	return n == axis.Len() && (r.Step == 1 || r.Step == -1), nil
}
