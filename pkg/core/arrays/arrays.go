// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package arrays implements multidimensional arrays whose storage is O(1) regardless of their size.
//
// Element values are either a single shared value, or computed on demand from the index by a function:
//
//   - Uniform[T]: every element is the same stored value. Read-only.
//   - FastUniform[T, C]: every element is the value of the constant type C -- the value is part of the
//     array's type. Read-only.
//   - MutableUniform[T]: like Uniform, but the whole array can be overwritten with a new value with Assign.
//   - Structured[T, F]: each element is computed by calling the function F with the index of the element.
//     F is either a LinearFunc (called with a linear index) or a CartesianFunc (called with one index per
//     axis). Read-only.
//
// All arrays implement Array[T], and can be read with a Cartesian index (At) or a linear index (AtLinear),
// regardless of the form their function takes. Axes are described by shapes.Shape, and can have arbitrary
// first indices. Dense arrays can be materialized from any array with Materialize.
//
// Example:
//
//	lower := must.M1(arrays.NewCartesian(func(ij ...int) bool { return ij[0] >= ij[1] }, 3, 3))
//	v, err := lower.At(1, 0) // true, nil
package arrays

import (
	"reflect"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidShape is returned (wrapped) when an array is created with invalid axis specs.
	ErrInvalidShape = shapes.ErrInvalidShape

	// ErrOutOfBounds is returned (wrapped) when reading or writing outside the array, or querying a negative axis.
	ErrOutOfBounds = shapes.ErrOutOfBounds

	// ErrReadOnly is returned (wrapped) on any attempt to write to a read-only array.
	ErrReadOnly = errors.New("array is read-only")

	// ErrUnsupportedWrite is returned (wrapped) when writing to a MutableUniform array with a selector that
	// doesn't cover every element of the array: there is no per-element storage to write to.
	ErrUnsupportedWrite = errors.New("unsupported write: only the whole array can be assigned")
)

// IndexStyle indicates the form of index an array's function takes.
type IndexStyle int

const (
	// IndexCartesian functions take one index per axis.
	IndexCartesian IndexStyle = iota

	// IndexLinear functions take one linear index, from 0 to Size()-1, in column-major order.
	IndexLinear
)

// String implements fmt.Stringer.
func (s IndexStyle) String() string {
	switch s {
	case IndexCartesian:
		return "IndexCartesian"
	case IndexLinear:
		return "IndexLinear"
	}
	return "IndexStyle(invalid)"
}

// Array is the read interface implemented by all arrays of this package.
type Array[T any] interface {
	shapes.HasShape

	// IndexStyle is the preferred form of indexing of the array.
	IndexStyle() IndexStyle

	// At returns the element at the Cartesian index given, with one index per axis.
	// Trailing indices beyond the rank must be 0, and trailing indices of axes of length 1 can be omitted.
	//
	// It returns an error wrapping ErrOutOfBounds if the index is not valid.
	At(indices ...int) (T, error)

	// AtLinear returns the element at the given linear index, from 0 to Size()-1, in column-major order.
	//
	// It returns an error wrapping ErrOutOfBounds if the index is not valid.
	AtLinear(index int) (T, error)
}

// Assignable is an Array that accepts writes.
//
// Read-only arrays also implement it, but their Assign always fails with ErrReadOnly.
type Assignable[T any] interface {
	Array[T]

	// Assign value to the elements selected by sel.
	Assign(value T, sel Selector) error
}

// Size returns the length of each axis of the array.
func Size[T any](a Array[T]) []int { return a.Shape().Dimensions() }

// SizeAt returns the length of the given axis of the array. It is 1 for axes beyond the rank, and it returns an
// error wrapping ErrOutOfBounds for negative axes.
func SizeAt[T any](a Array[T], axis int) (int, error) { return a.Shape().Dim(axis) }

// Axes returns the range of valid indices of each axis of the array.
func Axes[T any](a Array[T]) []shapes.Range { return a.Shape().Ranges() }

// AxisAt returns the range of valid indices of the given axis. Axes beyond the rank take only the index 0, and it
// returns an error wrapping ErrOutOfBounds for negative axes.
func AxisAt[T any](a Array[T], axis int) (shapes.Range, error) {
	entry, err := a.Shape().AxisAt(axis)
	if err != nil {
		return shapes.Range{}, err
	}
	return entry.Range(), nil
}

// Len returns the number of elements of the array.
func Len[T any](a Array[T]) int { return a.Shape().Size() }

// ElementTyper is implemented by arrays that know the dynamic type of their elements, when T is an interface.
type ElementTyper interface {
	ElementType() reflect.Type
}

// ElementType returns the type of the elements of the array.
//
// For arrays whose T is an interface type, it returns the dynamic type recorded when the array was created, if
// the array knows about it.
func ElementType[T any](a Array[T]) reflect.Type {
	if typer, ok := a.(ElementTyper); ok {
		return typer.ElementType()
	}
	return reflect.TypeFor[T]()
}

// DType returns the dtypes.DType of the elements of the array, or dtypes.InvalidDType if the elements are not of
// a numeric (or bool) type.
func DType[T any](a Array[T]) dtypes.DType {
	t := ElementType(a)
	if t == nil {
		return dtypes.InvalidDType
	}
	return dtypes.FromGoType(t)
}

// readOnlyError returns ErrReadOnly wrapped with the context of the array.
func readOnlyError(a shapes.HasShape, sel Selector) error {
	return errors.Wrapf(ErrReadOnly, "cannot assign to %s of %T with shape %s", sel, a, a.Shape())
}
