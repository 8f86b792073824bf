// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arrays

import (
	"fmt"
	"reflect"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/pkg/errors"
)

// LinearFunc computes the element of a Structured array from its linear index, from 0 to Size()-1,
// in column-major order.
type LinearFunc[T any] func(index int) T

// CartesianFunc computes the element of a Structured array from its Cartesian index: it is called with
// exactly one index per axis, each within the valid indices of its axis (so offset axes get offset indices).
//
// The indices slice is only valid during the call: don't hold on to it.
type CartesianFunc[T any] func(indices ...int) T

// Func is the constraint on the functions of a Structured array: either a LinearFunc or a CartesianFunc.
// The form of the function defines the IndexStyle of the array.
type Func[T any] interface {
	LinearFunc[T] | CartesianFunc[T]

	// IndexStyle of the function.
	IndexStyle() IndexStyle

	callCartesian(shape shapes.Shape, indices []int) T
	callLinear(shape shapes.Shape, linear int) T
}

// IndexStyle implements Func: it returns IndexLinear.
func (f LinearFunc[T]) IndexStyle() IndexStyle { return IndexLinear }

func (f LinearFunc[T]) callCartesian(shape shapes.Shape, indices []int) T {
	return f(shape.LinearIndex(indices))
}

func (f LinearFunc[T]) callLinear(_ shapes.Shape, linear int) T { return f(linear) }

// IndexStyle implements Func: it returns IndexCartesian.
func (f CartesianFunc[T]) IndexStyle() IndexStyle { return IndexCartesian }

func (f CartesianFunc[T]) callCartesian(shape shapes.Shape, indices []int) T {
	return f(shape.PadIndex(indices)...)
}

// maxStackRank is the rank up to which linear indices are converted without allocating a new slice of indices.
const maxStackRank = 8

func (f CartesianFunc[T]) callLinear(shape shapes.Shape, linear int) T {
	var buf [maxStackRank]int
	return f(shape.CartesianIndex(linear, buf[:0])...)
}

// Structured is a read-only array whose elements are computed by calling a function with their index.
//
// Nothing is cached: every read calls the function again. The function is allowed to be impure (e.g. to count
// its calls), but the type of its results should be stable -- this is not checked.
//
// The form of the function, LinearFunc or CartesianFunc, is part of the type of the array, and defines its
// IndexStyle. Both At and AtLinear work with either form, converting the index as needed.
type Structured[T any, F Func[T]] struct {
	fn       F
	shape    shapes.Shape
	elemType reflect.Type
}

// New creates a Structured array from the function fn with the given axes.
// See shapes.Normalize for the accepted axis specs.
//
// If T is an interface type, fn is called once at the unit index (the first index of every axis) to find out
// the dynamic type of its elements, see ElementType. If that call panics, the array is not created and
// the panic is returned as an error.
//
// Usually it's more convenient to use NewCartesian or NewLinear.
func New[T any, F Func[T]](fn F, axes ...any) (Structured[T, F], error) {
	shape, err := shapes.Normalize(axes...)
	if err != nil {
		return Structured[T, F]{}, errors.WithMessagef(err, "arrays.New[%T]", fn)
	}
	if isNilFunc[T](fn) {
		return Structured[T, F]{}, errors.Errorf("arrays.New[%T]: nil function", fn)
	}
	s := Structured[T, F]{fn: fn, shape: shape, elemType: reflect.TypeFor[T]()}
	if s.elemType.Kind() == reflect.Interface && !shape.IsEmpty() {
		var probe T
		exception := exceptions.Try(func() { probe = fn.callCartesian(shape, shape.UnitIndex()) })
		if exception != nil {
			return Structured[T, F]{}, errors.Errorf("arrays.New[%T]: function panicked at unit index %v: %v",
				fn, shape.UnitIndex(), exception)
		}
		if t := reflect.TypeOf(probe); t != nil {
			s.elemType = t
		}
	}
	return s, nil
}

// NewCartesian creates a Structured array whose elements are computed by fn with their Cartesian index.
// See New.
func NewCartesian[T any](fn func(indices ...int) T, axes ...any) (Structured[T, CartesianFunc[T]], error) {
	return New[T](CartesianFunc[T](fn), axes...)
}

// NewLinear creates a Structured array whose elements are computed by fn with their linear index.
// See New.
func NewLinear[T any](fn func(index int) T, axes ...any) (Structured[T, LinearFunc[T]], error) {
	return New[T](LinearFunc[T](fn), axes...)
}

func isNilFunc[T any, F Func[T]](fn F) bool {
	switch f := any(fn).(type) {
	case LinearFunc[T]:
		return f == nil
	case CartesianFunc[T]:
		return f == nil
	}
	return false
}

// Func returns the function used to compute the elements of the array.
func (s Structured[T, F]) Func() F { return s.fn }

// Shape of the array.
func (s Structured[T, F]) Shape() shapes.Shape { return s.shape }

// IndexStyle implements Array: it is the IndexStyle of the function.
func (s Structured[T, F]) IndexStyle() IndexStyle { return s.fn.IndexStyle() }

// ElementType returns the type of the elements: T, or if T is an interface, the dynamic type of the value returned
// by the function at the unit index, when the array was created.
func (s Structured[T, F]) ElementType() reflect.Type { return s.elemType }

// At implements Array: it checks the index and calls the function with it.
func (s Structured[T, F]) At(indices ...int) (T, error) {
	if err := s.shape.CheckIndex(indices); err != nil {
		var zero T
		return zero, err
	}
	return s.fn.callCartesian(s.shape, indices), nil
}

// AtLinear implements Array: it checks the index and calls the function with it.
func (s Structured[T, F]) AtLinear(index int) (T, error) {
	if err := s.shape.CheckLinear(index); err != nil {
		var zero T
		return zero, err
	}
	return s.fn.callLinear(s.shape, index), nil
}

// Assign always fails with ErrReadOnly.
func (s Structured[T, F]) Assign(_ T, sel Selector) error { return readOnlyError(s, sel) }

// String implements fmt.Stringer.
func (s Structured[T, F]) String() string {
	return fmt.Sprintf("Structured[%s, %s](%s)", s.elemType, s.fn.IndexStyle(), s.shape)
}
