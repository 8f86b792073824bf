// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arrays

import (
	"fmt"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/structarrays/internal/workerspool"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Dense is a materialized array: it stores every element in a flat slice, in column-major order.
//
// It is what Materialize returns, and it's meant to be consumed (e.g. to copy into other storage).
type Dense[T any] struct {
	flat  []T
	shape shapes.Shape
}

// NewDense creates a Dense array backed by flat, with the given axes (see shapes.Normalize).
// The flat slice is used directly (not copied), and must have exactly as many elements as the shape.
func NewDense[T any](flat []T, axes ...any) (*Dense[T], error) {
	shape, err := shapes.Normalize(axes...)
	if err != nil {
		return nil, errors.WithMessage(err, "arrays.NewDense")
	}
	if len(flat) != shape.Size() {
		return nil, errors.Errorf("arrays.NewDense: flat data has %d elements, but shape %s has %d elements",
			len(flat), shape, shape.Size())
	}
	return &Dense[T]{flat: flat, shape: shape}, nil
}

// Flat returns the flat slice with the elements, in column-major order.
// It is not a copy: changes to it are visible in the Dense array.
func (d *Dense[T]) Flat() []T { return d.flat }

// Shape of the array.
func (d *Dense[T]) Shape() shapes.Shape { return d.shape }

// IndexStyle implements Array.
func (d *Dense[T]) IndexStyle() IndexStyle { return IndexLinear }

// At implements Array.
func (d *Dense[T]) At(indices ...int) (T, error) {
	if err := d.shape.CheckIndex(indices); err != nil {
		var zero T
		return zero, err
	}
	return d.flat[d.shape.LinearIndex(indices)], nil
}

// AtLinear implements Array.
func (d *Dense[T]) AtLinear(index int) (T, error) {
	if err := d.shape.CheckLinear(index); err != nil {
		var zero T
		return zero, err
	}
	return d.flat[index], nil
}

// String implements fmt.Stringer.
func (d *Dense[T]) String() string {
	return fmt.Sprintf("Dense[%T](%s)", d.flat, d.shape)
}

// Materialize reads every element of the array once, and returns them in a newly allocated Dense array.
//
// If the array's function panics with an error, it is returned as an error. Other panics are not caught.
func Materialize[T any](a Array[T]) (*Dense[T], error) {
	start := time.Now()
	shape := a.Shape()
	d := &Dense[T]{flat: make([]T, shape.Size()), shape: shape}
	err := exceptions.TryCatch[error](func() {
		if uniform, ok := a.(UniformArray[T]); ok {
			value := uniform.Value()
			for ii := range d.flat {
				d.flat[ii] = value
			}
			return
		}
		if a.IndexStyle() == IndexCartesian {
			for linear, indices := range shape.Iter() {
				d.flat[linear] = must1(a.At(indices...))
			}
			return
		}
		for ii := range d.flat {
			d.flat[ii] = must1(a.AtLinear(ii))
		}
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "arrays.Materialize(%s)", shape)
	}
	if klog.V(1).Enabled() {
		klog.Infof("arrays.Materialize(%s): %d elements in %s", shape, len(d.flat), time.Since(start))
	}
	return d, nil
}

// MaterializeParallel is like Materialize, but reads the elements in parallel chunks using the given pool.
// The array's function must be safe for concurrent use.
//
// If pool is nil, a new pool with the default parallelism is used.
func MaterializeParallel[T any](a Array[T], pool *workerspool.Pool) (*Dense[T], error) {
	start := time.Now()
	if pool == nil {
		pool = workerspool.New()
	}
	shape := a.Shape()
	d := &Dense[T]{flat: make([]T, shape.Size()), shape: shape}
	err := pool.Range(len(d.flat), func(chunkStart, chunkEnd int) error {
		return exceptions.TryCatch[error](func() {
			for ii := chunkStart; ii < chunkEnd; ii++ {
				d.flat[ii] = must1(a.AtLinear(ii))
			}
		})
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "arrays.MaterializeParallel(%s)", shape)
	}
	if klog.V(1).Enabled() {
		klog.Infof("arrays.MaterializeParallel(%s): %d elements in %s (parallelism=%d)",
			shape, len(d.flat), time.Since(start), pool.MaxParallelism())
	}
	return d, nil
}

// must1 panics with err if it is not nil, to be caught by exceptions.TryCatch.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}
