// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arrays

import (
	"sync/atomic"
	"testing"

	"github.com/gomlx/structarrays/internal/workerspool"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// requireRoundTrip checks that reading from the materialized array is the same as reading from the array.
func requireRoundTrip[T comparable](t *testing.T, a Array[T], d *Dense[T]) {
	t.Helper()
	require.True(t, a.Shape().Equal(d.Shape()))
	for linear, indices := range a.Shape().Iter() {
		want := must.M1(a.At(indices...))
		require.Equal(t, want, must.M1(d.At(indices...)))
		require.Equal(t, want, must.M1(d.AtLinear(linear)))
		require.Equal(t, want, d.Flat()[linear])
	}
}

func TestMaterialize(t *testing.T) {
	u := must.M1(NewUniform(int8(3), 2, shapes.UnitRange(-1, 1)))
	du := must.M1(Materialize[int8](u))
	require.Equal(t, []int8{3, 3, 3, 3, 3, 3}, du.Flat())
	requireRoundTrip[int8](t, u, du)

	cart := must.M1(NewCartesian(func(ij ...int) int { return 10*ij[0] + ij[1] }, shapes.UnitRange(1, 2), 3))
	dc := must.M1(Materialize[int](cart))
	require.Equal(t, []int{10, 20, 11, 21, 12, 22}, dc.Flat())
	requireRoundTrip[int](t, cart, dc)

	lin := must.M1(NewLinear(func(ii int) float64 { return float64(ii) }, 3, 2))
	dl := must.M1(Materialize[float64](lin))
	require.Equal(t, []float64{0, 1, 2, 3, 4, 5}, dl.Flat())
	requireRoundTrip[float64](t, lin, dl)

	m := must.M1(NewMutableUniform(true, 4))
	dm := must.M1(Materialize[bool](m))
	m.Fill(false)
	require.Equal(t, []bool{true, true, true, true}, dm.Flat())

	empty := must.M1(NewUniform(1, 3, 0))
	de := must.M1(Materialize[int](empty))
	require.Empty(t, de.Flat())

	scalar := must.M1(NewLinear(func(int) string { return "s" }))
	ds := must.M1(Materialize[string](scalar))
	require.Equal(t, []string{"s"}, ds.Flat())
	require.Equal(t, "s", must.M1(ds.At()))
}

func TestMaterializeErrors(t *testing.T) {
	errBoom := errors.New("boom")
	failing := must.M1(NewLinear(func(ii int) int {
		if ii == 3 {
			panic(errBoom)
		}
		return ii
	}, 5))
	_, err := Materialize[int](failing)
	require.ErrorIs(t, err, errBoom)

	_, err = MaterializeParallel[int](failing, workerspool.New().SetChunkSize(2))
	require.ErrorIs(t, err, errBoom)

	// Non-error panics are not caught.
	panicking := must.M1(NewLinear(func(ii int) int { panic("not an error") }, 1, shapes.UnitRange(1, 0)))
	_, err = Materialize[int](panicking) // Empty: function never called.
	require.NoError(t, err)
	panicking = must.M1(NewLinear(func(ii int) int { panic("not an error") }, 2))
	require.Panics(t, func() { _, _ = Materialize[int](panicking) })
}

func TestMaterializeParallel(t *testing.T) {
	var calls atomic.Int64
	s := must.M1(NewCartesian(func(ijk ...int) int {
		calls.Add(1)
		return ijk[0] + 100*ijk[1] + 10_000*ijk[2]
	}, 17, shapes.UnitRange(-5, 5), 13))
	for _, parallelism := range []int{0, 1, 4, -1} {
		calls.Store(0)
		pool := workerspool.New().SetMaxParallelism(parallelism).SetChunkSize(64)
		d := must.M1(MaterializeParallel[int](s, pool))
		require.Equal(t, int64(Len[int](s)), calls.Load())
		requireRoundTrip[int](t, s, d)
	}
	d := must.M1(MaterializeParallel[int](s, nil))
	require.Len(t, d.Flat(), 17*11*13)
}

func TestDense(t *testing.T) {
	d := must.M1(NewDense([]string{"a", "b", "c", "d"}, 2, shapes.UnitRange(7, 8)))
	require.Equal(t, "b", must.M1(d.At(1, 7)))
	require.Equal(t, "c", must.M1(d.At(0, 8)))
	require.Equal(t, "d", must.M1(d.AtLinear(3)))
	require.Equal(t, IndexLinear, d.IndexStyle())
	_, err := d.At(0, 6)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = NewDense([]int{1, 2, 3}, 2, 2)
	require.Error(t, err)
	_, err = NewDense([]int{1, 2, 3}, -3)
	require.ErrorIs(t, err, ErrInvalidShape)
}
