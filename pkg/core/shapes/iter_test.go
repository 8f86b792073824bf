// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"slices"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func TestShape_Strides(t *testing.T) {
	// Test case 1: shape with dimensions [2, 3, 4]
	shape := Make(2, 3, 4)
	require.Equal(t, []int{1, 2, 6}, shape.Strides())

	// Test case 2: shape with single dimension
	shape = Make(5)
	require.Equal(t, []int{1}, shape.Strides())

	// Test case 3: scalar.
	require.Nil(t, Scalar().Strides())
}

func TestShape_Iter(t *testing.T) {
	// Version 1: there is only one value to iterate:
	shape := Make(1, 1, 1)
	collect := make([][]int, 0, shape.Size())
	for linear, indices := range shape.Iter() {
		collect = append(collect, slices.Clone(indices))
		require.Equal(t, 0, linear)
	}
	require.Equal(t, [][]int{{0, 0, 0}}, collect)

	// Version 2: column-major order, with an offset axis.
	shape = must.M1(Normalize(2, UnitRange(-1, 1)))
	collect = collect[:0]
	var counter int
	for linear, indices := range shape.Iter() {
		collect = append(collect, slices.Clone(indices))
		require.Equal(t, counter, linear)
		require.Equal(t, linear, shape.LinearIndex(indices))
		counter++
	}
	want := [][]int{
		{0, -1},
		{1, -1},
		{0, 0},
		{1, 0},
		{0, 1},
		{1, 1},
	}
	require.Equal(t, want, collect)

	// Version 3: scalar yields one empty index.
	counter = 0
	for _, indices := range Scalar().Iter() {
		require.Empty(t, indices)
		counter++
	}
	require.Equal(t, 1, counter)

	// Version 4: empty shapes yield nothing.
	for range Make(3, 0, 2).Iter() {
		t.Fatal("empty shape should not yield indices")
	}

	// Version 5: early break.
	counter = 0
	for range Make(10, 10).Iter() {
		counter++
		if counter == 7 {
			break
		}
	}
	require.Equal(t, 7, counter)

	require.Panics(t, func() { _ = Make(2, 2).IterOn(make([]int, 3)) })
}

func TestIndexConversion(t *testing.T) {
	shape := must.M1(Normalize(3, UnitRange(-2, 1), UnitRange(5, 6)))
	require.Equal(t, 3*4*2, shape.Size())

	// Round trip of all linear indices.
	buf := make([]int, 0, shape.Rank())
	for linear := range shape.Size() {
		indices := shape.CartesianIndex(linear, buf)
		require.NoError(t, shape.CheckIndex(indices))
		require.Equal(t, linear, shape.LinearIndex(indices))
	}

	require.Equal(t, []int{0, -2, 5}, shape.CartesianIndex(0, nil))
	require.Equal(t, []int{1, -2, 5}, shape.CartesianIndex(1, nil))
	require.Equal(t, []int{0, -1, 5}, shape.CartesianIndex(3, nil))
	require.Equal(t, []int{2, 1, 6}, shape.CartesianIndex(23, nil))
	require.Equal(t, []int{0, -2, 5}, shape.UnitIndex())
}

func TestCheckIndex(t *testing.T) {
	shape := must.M1(Normalize(3, UnitRange(-1, 1)))
	require.NoError(t, shape.CheckIndex([]int{0, -1}))
	require.NoError(t, shape.CheckIndex([]int{2, 1}))
	require.ErrorIs(t, shape.CheckIndex([]int{3, 0}), ErrOutOfBounds)
	require.ErrorIs(t, shape.CheckIndex([]int{0, 2}), ErrOutOfBounds)
	require.ErrorIs(t, shape.CheckIndex([]int{-1, 0}), ErrOutOfBounds)

	// Padding with trailing 0s.
	require.NoError(t, shape.CheckIndex([]int{1, 0, 0, 0}))
	require.ErrorIs(t, shape.CheckIndex([]int{1, 0, 1}), ErrOutOfBounds)
	require.Equal(t, []int{1, 0}, shape.PadIndex([]int{1, 0, 0}))

	// Missing trailing indices only for axes of length 1.
	require.ErrorIs(t, shape.CheckIndex([]int{1}), ErrOutOfBounds)
	shape = must.M1(Normalize(3, UnitRange(4, 4)))
	require.NoError(t, shape.CheckIndex([]int{1}))
	require.Equal(t, []int{1, 4}, shape.PadIndex([]int{1}))
	require.Equal(t, 1, shape.LinearIndex([]int{1}))
	require.True(t, shape.Contains(2, 4))
	require.False(t, shape.Contains(2, 5))

	// Scalars take the empty index, or any padding of 0s.
	require.NoError(t, Scalar().CheckIndex(nil))
	require.NoError(t, Scalar().CheckIndex([]int{0, 0}))

	// Linear bounds.
	require.NoError(t, shape.CheckLinear(2))
	require.ErrorIs(t, shape.CheckLinear(3), ErrOutOfBounds)
	require.ErrorIs(t, shape.CheckLinear(-1), ErrOutOfBounds)
	require.ErrorIs(t, Make(0).CheckLinear(0), ErrOutOfBounds)
}
