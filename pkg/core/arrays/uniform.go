// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arrays

import (
	"fmt"
	"sync/atomic"

	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// UniformArray is implemented by the arrays whose elements are all the same value:
// Uniform, FastUniform and MutableUniform.
type UniformArray[T any] interface {
	Array[T]

	// Value returns the value of every element of the array.
	Value() T
}

// Uniform is a read-only array where every element is the same value.
//
// It only stores the value and the shape.
type Uniform[T any] struct {
	value T
	shape shapes.Shape
}

// NewUniform creates a read-only array with the given axes (see shapes.Normalize for the accepted axis specs)
// where every element is value.
func NewUniform[T any](value T, axes ...any) (Uniform[T], error) {
	shape, err := shapes.Normalize(axes...)
	if err != nil {
		return Uniform[T]{}, errors.WithMessagef(err, "arrays.NewUniform(%v)", value)
	}
	return Uniform[T]{value: value, shape: shape}, nil
}

// Value returns the value of every element of the array.
func (u Uniform[T]) Value() T { return u.value }

// Shape of the array.
func (u Uniform[T]) Shape() shapes.Shape { return u.shape }

// IndexStyle implements Array. Uniform arrays prefer linear indexing, since their index is irrelevant.
func (u Uniform[T]) IndexStyle() IndexStyle { return IndexLinear }

// At implements Array.
func (u Uniform[T]) At(indices ...int) (T, error) {
	if err := u.shape.CheckIndex(indices); err != nil {
		var zero T
		return zero, err
	}
	return u.value, nil
}

// AtLinear implements Array.
func (u Uniform[T]) AtLinear(index int) (T, error) {
	if err := u.shape.CheckLinear(index); err != nil {
		var zero T
		return zero, err
	}
	return u.value, nil
}

// Assign always fails with ErrReadOnly.
func (u Uniform[T]) Assign(_ T, sel Selector) error { return readOnlyError(u, sel) }

// String implements fmt.Stringer.
func (u Uniform[T]) String() string {
	return fmt.Sprintf("Uniform[%T](%v; %s)", u.value, u.value, u.shape)
}

// Constant is implemented by the (usually zero-sized) types used as the value of a FastUniform array.
type Constant[T any] interface {
	Value() T
}

// Zero is the Constant zero value of T.
type Zero[T any] struct{}

// Value implements Constant.
func (Zero[T]) Value() (zero T) { return }

// Number is the constraint of the types that can hold the constant 1.
type Number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// One is the Constant 1 of T.
type One[T Number] struct{}

// Value implements Constant.
func (One[T]) Value() T { return 1 }

// True is the Constant true.
type True struct{}

// Value implements Constant.
func (True) Value() bool { return true }

// False is the Constant false.
type False struct{}

// Value implements Constant.
func (False) Value() bool { return false }

// FastUniform is a read-only array where every element is the value of the constant type C.
//
// The value is part of the type of the array: FastUniform[float32, Zero[float32]] and
// FastUniform[float32, One[float32]] are different types. It only stores the shape.
//
// Other constants can be defined with any type that implements Constant[T]:
//
//	type Pi struct{}
//	func (Pi) Value() float64 { return math.Pi }
//	pis := must.M1(arrays.NewFastUniform[float64, Pi](3, 3))
type FastUniform[T any, C Constant[T]] struct {
	shape shapes.Shape
}

// NewFastUniform creates a read-only array with the given axes where every element is C's value.
// See shapes.Normalize for the accepted axis specs.
func NewFastUniform[T any, C Constant[T]](axes ...any) (FastUniform[T, C], error) {
	shape, err := shapes.Normalize(axes...)
	if err != nil {
		var c C
		return FastUniform[T, C]{}, errors.WithMessagef(err, "arrays.NewFastUniform[%T]", c)
	}
	return FastUniform[T, C]{shape: shape}, nil
}

// Value returns the value of every element of the array.
func (f FastUniform[T, C]) Value() T {
	var c C
	return c.Value()
}

// Shape of the array.
func (f FastUniform[T, C]) Shape() shapes.Shape { return f.shape }

// IndexStyle implements Array.
func (f FastUniform[T, C]) IndexStyle() IndexStyle { return IndexLinear }

// At implements Array.
func (f FastUniform[T, C]) At(indices ...int) (T, error) {
	if err := f.shape.CheckIndex(indices); err != nil {
		var zero T
		return zero, err
	}
	return f.Value(), nil
}

// AtLinear implements Array.
func (f FastUniform[T, C]) AtLinear(index int) (T, error) {
	if err := f.shape.CheckLinear(index); err != nil {
		var zero T
		return zero, err
	}
	return f.Value(), nil
}

// Assign always fails with ErrReadOnly.
func (f FastUniform[T, C]) Assign(_ T, sel Selector) error { return readOnlyError(f, sel) }

// String implements fmt.Stringer.
func (f FastUniform[T, C]) String() string {
	value := f.Value()
	return fmt.Sprintf("FastUniform[%T](%v; %s)", value, value, f.shape)
}

// MutableUniform is an array where every element is the same value, and that can be overwritten as a whole
// with Assign (or Fill).
//
// The value is replaced atomically: concurrent readers observe either the old or the new value, never a
// partial update. There is no per-element storage, so writes to only part of the array fail.
//
// The zero value is a scalar array holding the zero value of T.
type MutableUniform[T any] struct {
	value atomic.Pointer[T]
	shape shapes.Shape
}

// NewMutableUniform creates an array with the given axes (see shapes.Normalize for the accepted axis specs)
// where every element is value.
func NewMutableUniform[T any](value T, axes ...any) (*MutableUniform[T], error) {
	shape, err := shapes.Normalize(axes...)
	if err != nil {
		return nil, errors.WithMessagef(err, "arrays.NewMutableUniform(%v)", value)
	}
	m := &MutableUniform[T]{shape: shape}
	m.value.Store(&value)
	return m, nil
}

// Value returns the current value of every element of the array.
func (m *MutableUniform[T]) Value() T {
	if p := m.value.Load(); p != nil {
		return *p
	}
	var zero T
	return zero
}

// Shape of the array.
func (m *MutableUniform[T]) Shape() shapes.Shape { return m.shape }

// IndexStyle implements Array.
func (m *MutableUniform[T]) IndexStyle() IndexStyle { return IndexLinear }

// At implements Array.
func (m *MutableUniform[T]) At(indices ...int) (T, error) {
	if err := m.shape.CheckIndex(indices); err != nil {
		var zero T
		return zero, err
	}
	return m.Value(), nil
}

// AtLinear implements Array.
func (m *MutableUniform[T]) AtLinear(index int) (T, error) {
	if err := m.shape.CheckLinear(index); err != nil {
		var zero T
		return zero, err
	}
	return m.Value(), nil
}

// Assign sets the value of every element of the array.
//
// The selector must denote every index of the array: All(), a Slab or LinearSpan covering all the
// indices, or the Index of the only element of an array of size 1. Otherwise, it fails with an error wrapping
// ErrUnsupportedWrite (or ErrOutOfBounds, if the selector is not within the array), and the value is unchanged.
func (m *MutableUniform[T]) Assign(value T, sel Selector) error {
	covers, err := sel.coversAll(m.shape)
	if err != nil {
		return errors.WithMessagef(err, "MutableUniform.Assign(%v, %s)", value, sel)
	}
	if !covers {
		return errors.Wrapf(ErrUnsupportedWrite, "MutableUniform.Assign(%v, %s) for shape %s", value, sel, m.shape)
	}
	m.value.Store(&value)
	if klog.V(2).Enabled() {
		klog.Infof("MutableUniform%s: assigned %v to all %d elements", m.shape, value, m.shape.Size())
	}
	return nil
}

// Fill sets the value of every element of the array. It is equivalent to Assign(value, All()).
func (m *MutableUniform[T]) Fill(value T) {
	_ = m.Assign(value, All())
}

// String implements fmt.Stringer.
func (m *MutableUniform[T]) String() string {
	value := m.Value()
	return fmt.Sprintf("MutableUniform[%T](%v; %s)", value, value, m.shape)
}
