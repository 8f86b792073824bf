// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package meshes

import (
	"testing"

	"github.com/gomlx/structarrays/pkg/core/arrays"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestCartesian1D(t *testing.T) {
	mesh := must.M1(Build[float64](1).Step(2).Done())
	require.Equal(t, ScalarStepNoOrigin, mesh.Strategy())
	require.Equal(t, []float64{10}, mesh.At(5))
	require.True(t, mesh.Origin().IsAbsent())
	require.Equal(t, []float64{0}, mesh.OriginTuple())

	mesh = must.M1(Build[float64](1).Step(2).Origin(1).Done())
	require.Equal(t, ScalarStepScalarOrigin, mesh.Strategy())
	require.Equal(t, []float64{8}, mesh.At(5))
	require.Equal(t, []float64{-2}, mesh.At(0))
	require.Equal(t, 1.0, mesh.Origin().Scalar())
	require.Equal(t, "Cartesian[float64](rank=1, step=2, origin=1)", mesh.String())
}

func TestCartesianDefaults(t *testing.T) {
	mesh := must.M1(Build[int](3).Done())
	require.Equal(t, 3, mesh.Rank())
	require.Equal(t, ScalarStepNoOrigin, mesh.Strategy())
	require.Equal(t, 1, mesh.Step().Scalar())
	require.Equal(t, []int{1, 1, 1}, mesh.StepTuple())
	require.Equal(t, []int{4, -2, 0}, mesh.At(4, -2, 0))

	scalar := must.M1(Build[float32](0).Step(3).Origin(1).Done())
	require.Empty(t, scalar.At())

	// Rank 0 with empty per-axis parameters.
	scalar64 := must.M1(Build[float64](0).Steps().Done())
	require.Equal(t, ScalarStepNoOrigin, scalar64.Strategy())
	require.Equal(t, 1.0, scalar64.Step().Scalar())
	require.Empty(t, scalar64.At())
	scalar64 = must.M1(Build[float64](0).Steps().Origins().Done())
	require.True(t, scalar64.Origin().IsAbsent())
	require.Empty(t, scalar64.At())
	require.Empty(t, scalar64.OriginTuple())
}

func TestCartesianStrategies(t *testing.T) {
	testCases := []struct {
		name     string
		builder  *Builder[float64]
		strategy Strategy
		want     []float64 // At(1, 2, 3)
	}{
		{"scalar step, no origin", Build[float64](3).Step(0.5),
			ScalarStepNoOrigin, []float64{0.5, 1, 1.5}},
		{"scalar step, scalar origin", Build[float64](3).Step(0.5).Origin(1),
			ScalarStepScalarOrigin, []float64{0, 0.5, 1}},
		{"scalar step, axes origin", Build[float64](3).Step(0.5).Origins(1, 0, -1),
			ScalarStepAxesOrigin, []float64{0, 1, 2}},
		{"axes step, no origin", Build[float64](3).Steps(1, 2, 3),
			AxesStepNoOrigin, []float64{1, 4, 9}},
		{"axes step, scalar origin", Build[float64](3).Steps(1, 2, 3).Origin(1),
			AxesStepScalarOrigin, []float64{0, 2, 6}},
		{"axes step, axes origin", Build[float64](3).Steps(1, 2, 3).Origins(1, 0, -1),
			AxesStepAxesOrigin, []float64{0, 4, 12}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mesh := must.M1(tc.builder.Done())
			assert.Equal(t, tc.strategy, mesh.Strategy())
			assert.Equal(t, tc.strategy.String(), mesh.Strategy().String())
			assert.Equal(t, tc.want, mesh.At(1, 2, 3))
		})
	}
}

func TestCartesianEquivalences(t *testing.T) {
	// An absent origin is the same as an all-zero origin.
	noOrigin := must.M1(Build[float64](2).Steps(0.5, 2).Done())
	zeroOrigin := must.M1(Build[float64](2).Steps(0.5, 2).Origins(0, 0).Done())
	zeroScalarOrigin := must.M1(Build[float64](2).Steps(0.5, 2).Origin(0).Done())
	require.Equal(t, AxesStepScalarOrigin, zeroOrigin.Strategy())
	require.Equal(t, []float64{0, 0}, zeroOrigin.OriginTuple())

	// A scalar step is the same as a per-axis step with the same value in every axis.
	scalarStep := must.M1(Build[float64](2).Step(0.25).Origins(1, -1).Done())
	tupleStep := must.M1(Build[float64](2).Steps(0.25, 0.25).Origins(1, -1).Done())
	require.True(t, tupleStep.Step().IsScalar())
	require.Equal(t, scalarStep.Strategy(), tupleStep.Strategy())

	for _, indices := range shapes.Make(4, 5).Iter() {
		want := noOrigin.At(indices...)
		require.Equal(t, want, zeroOrigin.At(indices...))
		require.Equal(t, want, zeroScalarOrigin.At(indices...))
		require.Equal(t, scalarStep.At(indices...), tupleStep.At(indices...))
	}

	// NoOrigin resets a previously set origin.
	reset := must.M1(Build[float64](2).Steps(0.5, 2).Origin(3).NoOrigin().Done())
	require.Equal(t, AxesStepNoOrigin, reset.Strategy())
}

func TestCartesianAtInto(t *testing.T) {
	mesh := must.M1(Build[int32](2).Steps(2, 3).Origins(1, 1).Done())
	buf := make([]int32, 0, 2)
	got := mesh.AtInto(buf, 3, 4)
	require.Equal(t, []int32{4, 9}, got)
	require.Same(t, &buf[:1][0], &got[0], "AtInto should reuse the buffer")

	// Small buffers are replaced.
	got = mesh.AtInto(nil, 0, 0)
	require.Equal(t, []int32{-2, -3}, got)
}

func TestCartesianErrors(t *testing.T) {
	_, err := Build[float64](2).Steps(1, 2, 3).Done()
	require.Error(t, err)
	_, err = Build[float64](2).Origins(1).Done()
	require.Error(t, err)
	_, err = Build[float64](-1).Done()
	require.Error(t, err)

	mesh := must.M1(Build[float64](2).Done())
	require.Panics(t, func() { _ = mesh.At(1) })
	require.Panics(t, func() { _ = mesh.At(1, 2, 3) })
	require.Panics(t, func() { _ = Param[float64]{rank: 2}.Scalar() })
}

func TestNewArray(t *testing.T) {
	mesh := must.M1(Build[float64](2).Steps(0.5, 2).Origins(1, 0).Done())
	a := must.M1(NewArray(mesh, 3, shapes.UnitRange(-1, 1)))
	require.Equal(t, arrays.IndexCartesian, a.IndexStyle())
	require.Equal(t, 9, arrays.Len[[]float64](a))
	require.Equal(t, []float64{-0.5, -2}, must.M1(a.At(0, -1)))
	require.Equal(t, []float64{0.5, 2}, must.M1(a.At(2, 1)))
	require.Equal(t, []float64{0, -2}, must.M1(a.AtLinear(1)))

	// Materialization evaluates the mesh at every node.
	d := must.M1(arrays.Materialize[[]float64](a))
	for linear, indices := range a.Shape().Iter() {
		require.Equal(t, mesh.At(indices...), d.Flat()[linear])
	}

	_, err := NewArray(mesh, 3)
	require.ErrorIs(t, err, arrays.ErrInvalidShape)
	_, err = NewArray(mesh, 3, -2)
	require.ErrorIs(t, err, arrays.ErrInvalidShape)
	_, err = NewArray[float64](nil, 3, 3)
	require.Error(t, err)
}
