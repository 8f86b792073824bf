// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/gomlx/structarrays/pkg/core/arrays"
	"github.com/gomlx/structarrays/pkg/core/meshes"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func TestParseAxes(t *testing.T) {
	axes := must.M1(parseAxes("3, -1:2,0"))
	require.Equal(t, []any{3, shapes.UnitRange(-1, 2), 0}, axes)
	shape := must.M1(shapes.Normalize(axes...))
	require.Equal(t, []int{3, 4, 0}, shape.Dimensions())

	require.Empty(t, must.M1(parseAxes("  ")))

	for _, text := range []string{"a", "3,", "1:2:3", "1:2:3:4", "-2"} {
		_, err := parseAxes(text)
		require.Errorf(t, err, "parseAxes(%q) should fail", text)
	}
}

func TestParseValue(t *testing.T) {
	require.Equal(t, int64(7), must.M1(parseValue("7")))
	require.Equal(t, 0.5, must.M1(parseValue("0.5")))
	require.Equal(t, true, must.M1(parseValue("true")))
	require.Equal(t, "x", must.M1(parseValue("x")))

	require.Equal(t, []float64{1, 2.5}, must.M1(parseFloats("1, 2.5")))
	require.Empty(t, must.M1(parseFloats("")))
	_, err := parseFloats("1,b")
	require.Error(t, err)
}

func TestNewMesh(t *testing.T) {
	mesh := must.M1(newMesh(1, "2", "1"))
	require.Equal(t, []float64{8}, mesh.At(5))

	mesh = must.M1(newMesh(2, "0.5,2", ""))
	require.Equal(t, meshes.AxesStepNoOrigin, mesh.Strategy())
	require.Equal(t, []float64{1.5, 4}, mesh.At(3, 2))

	_, err := newMesh(2, "1,2,3", "")
	require.Error(t, err)
}

func TestExprArrays(t *testing.T) {
	lower := must.M1(newCartesianExpr("i >= j", []any{3, 3}))
	require.Equal(t, arrays.IndexCartesian, lower.IndexStyle())
	require.Equal(t, true, must.M1(lower.At(1, 0)))
	require.Equal(t, false, must.M1(lower.At(0, 1)))

	// Named variables by axis position, for any rank.
	sum := must.M1(newCartesianExpr("i0 + i1 + i2 + i3", []any{2, 2, shapes.UnitRange(5, 6), 2}))
	require.Equal(t, 1+1+6+1, must.M1(sum.At(1, 1, 6, 1)))

	squares := must.M1(newLinearExpr("n * n", []any{2, 3}))
	require.Equal(t, arrays.IndexLinear, squares.IndexStyle())
	require.Equal(t, 25, must.M1(squares.AtLinear(5)))
	d := must.M1(arrays.Materialize[any](squares))
	require.Equal(t, []any{0, 1, 4, 9, 16, 25}, d.Flat())

	_, err := newCartesianExpr("", []any{3})
	require.Error(t, err)
	_, err = newCartesianExpr("i +", []any{3})
	require.Error(t, err)
	_, err = newLinearExpr("unknown_var", []any{3})
	require.Error(t, err)
}
