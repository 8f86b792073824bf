// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the normalized description of the extent of a lazy array, and the
// tools to build it from heterogeneous axis specifications and to index into it.
//
// A Shape is an ordered list of Axis entries. Each entry is either a plain length (indices 0..n-1),
// or an explicit unit range with an arbitrary, possibly negative, first index.
// The plain form is the common case and carries no range object.
//
// ## Glossary
//
//   - Rank: number of axes of a shape.
//   - Axis: one dimension of a shape, described by its first index and its length.
//   - Dimension: the length of an axis.
//   - Axis spec: what a caller passes to describe an axis: an integer length, an Iota (zero-based
//     range, collapsed to a plain length) or a Range (kept as an explicit offset axis).
//   - Linear index: the position of an element when all axes are flattened in column-major order
//     (the first axis varies fastest), from 0 to Size()-1.
//
// Example: `shapes.Normalize(3, shapes.UnitRange(-1, 2))` returns a rank-2 shape, where axis 0 takes
// indices 0..2 and axis 1 takes indices -1..2, for a total of 12 elements.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidShape is returned (wrapped) when an axis spec has a negative length, a non-unit step
	// or is of an unsupported type, or when the number of elements overflows int.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrOutOfBounds is returned (wrapped) when an index or an axis number falls outside the valid range.
	ErrOutOfBounds = errors.New("out of bounds")
)

// Shape is the normalized extent of an array: one Axis per dimension.
//
// Shapes are values: they are never modified after they are created. Use Normalize or Make to create one.
type Shape struct {
	axes []Axis
}

// Make returns a Shape of plain axes with the given dimensions.
//
// It panics if any dimension is negative, or if the number of elements overflows int: use Normalize to get an
// error instead.
// Zero dimensions are valid, and make for an empty shape.
func Make(dimensions ...int) Shape {
	s := Shape{axes: make([]Axis, len(dimensions))}
	for ii, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("shapes.Make(%v): cannot create a shape with an axis with negative dimension", dimensions)
		}
		s.axes[ii] = Axis{length: dim}
	}
	if _, ok := checkedSize(dimensions); !ok {
		exceptions.Panicf("shapes.Make(%v): number of elements overflows int", dimensions)
	}
	return s
}

// Scalar returns the shape of rank 0, that holds exactly one element.
func Scalar() Shape { return Shape{} }

// Rank of the shape, that is, the number of axes.
func (s Shape) Rank() int { return len(s.axes) }

// IsScalar returns whether the shape has rank 0.
func (s Shape) IsScalar() bool { return len(s.axes) == 0 }

// Size returns the number of elements of the shape: the product of the length of all axes.
// It is 0 if any axis has length 0, and 1 for a scalar shape.
func (s Shape) Size() (size int) {
	size = 1
	for _, axis := range s.axes {
		size *= axis.length
	}
	return
}

// IsEmpty returns whether the shape holds no elements, that is, some axis has length 0.
func (s Shape) IsEmpty() bool {
	return slices.ContainsFunc(s.axes, func(axis Axis) bool { return axis.length == 0 })
}

// Axis returns the axis entry of the given dimension. It panics for an out-of-bound axis, like slice indexing.
func (s Shape) Axis(axis int) Axis { return s.axes[axis] }

// Axes returns a copy of the axis entries of the shape.
func (s Shape) Axes() []Axis { return slices.Clone(s.axes) }

// Dimensions returns the length of each axis.
func (s Shape) Dimensions() []int {
	dims := make([]int, len(s.axes))
	for ii, axis := range s.axes {
		dims[ii] = axis.length
	}
	return dims
}

// Dim returns the length of the given axis.
//
// Axes beyond the rank are implicitly of length 1, and a negative axis returns an error wrapping ErrOutOfBounds.
func (s Shape) Dim(axis int) (int, error) {
	entry, err := s.AxisAt(axis)
	if err != nil {
		return 0, err
	}
	return entry.length, nil
}

// AxisAt returns the axis entry of the given dimension.
//
// Axes beyond the rank are implicitly plain axes of length 1, and a negative axis returns an error
// wrapping ErrOutOfBounds.
func (s Shape) AxisAt(axis int) (Axis, error) {
	if axis < 0 {
		return Axis{}, errors.Wrapf(ErrOutOfBounds, "axis %d requested for shape %s: axes must be >= 0", axis, s)
	}
	if axis >= len(s.axes) {
		return Axis{length: 1}, nil
	}
	return s.axes[axis], nil
}

// Ranges returns the range of valid indices of each axis.
func (s Shape) Ranges() []Range {
	ranges := make([]Range, len(s.axes))
	for ii, axis := range s.axes {
		ranges[ii] = axis.Range()
	}
	return ranges
}

// HasOffsets returns whether any of the axes has a first index other than 0.
func (s Shape) HasOffsets() bool {
	return slices.ContainsFunc(s.axes, func(axis Axis) bool { return axis.first != 0 })
}

// Equal compares two shapes for equality: both the indices and the representation of each
// axis must be the same.
func (s Shape) Equal(s2 Shape) bool {
	return slices.Equal(s.axes, s2.axes)
}

// EqualIndices compares whether two shapes take exactly the same indices, regardless of whether
// the axes were declared as plain lengths or as explicit ranges.
func (s Shape) EqualIndices(s2 Shape) bool {
	return slices.EqualFunc(s.axes, s2.axes, func(a, b Axis) bool {
		return a.length == b.length && (a.length == 0 || a.first == b.first)
	})
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	return Shape{axes: slices.Clone(s.axes)}
}

// Shape returns itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// String implements fmt.Stringer, pretty-prints the shape: plain axes are printed as their length,
// ranged axes as "first:last".
func (s Shape) String() string {
	parts := make([]string, len(s.axes))
	for ii, axis := range s.axes {
		parts[ii] = axis.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

// HasShape is an interface for objects that have an associated Shape.
// All arrays and Shape itself implement it.
type HasShape interface {
	Shape() Shape
}

// UncheckedAxis can be used in CheckDims for an axis whose dimension doesn't matter.
const UncheckedAxis = int(-1)

// CheckDims checks that the shape has the given dimensions and rank. A value of UncheckedAxis in
// dimensions means it can take any value and is not checked.
func (s Shape) CheckDims(dimensions ...int) error {
	if s.Rank() != len(dimensions) {
		return errors.Errorf("shape %s has incompatible rank %d (wanted %d)", s, s.Rank(), len(dimensions))
	}
	for ii, wantDim := range dimensions {
		if wantDim != UncheckedAxis && s.axes[ii].length != wantDim {
			return errors.Errorf("shape %s axis %d has dimension %d, wanted %d (dimensions wanted=%v)",
				s, ii, s.axes[ii].length, wantDim, dimensions)
		}
	}
	return nil
}

// AssertDims checks that the shape of the object has the given dimensions, and panics otherwise.
func AssertDims(shaped HasShape, dimensions ...int) {
	if err := shaped.Shape().CheckDims(dimensions...); err != nil {
		exceptions.Panicf("shapes.AssertDims(%v): %+v", dimensions, err)
	}
}
