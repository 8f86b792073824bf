// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/gomlx/structarrays/pkg/core/arrays"
	"github.com/gomlx/structarrays/pkg/core/meshes"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/pkg/errors"
)

// parseAxes parses a comma-separated list of axes into axis specs accepted by shapes.Normalize.
// Each axis is either a length "n" or a range "first:last".
func parseAxes(text string) ([]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	axes := make([]any, 0, len(parts))
	for ii, part := range parts {
		part = strings.TrimSpace(part)
		bounds := strings.Split(part, ":")
		values := make([]int, len(bounds))
		for jj, bound := range bounds {
			v, err := strconv.Atoi(strings.TrimSpace(bound))
			if err != nil {
				return nil, errors.Wrapf(err, "axis #%d %q", ii, part)
			}
			values[jj] = v
		}
		switch len(values) {
		case 1:
			axes = append(axes, values[0])
		case 2:
			axes = append(axes, shapes.UnitRange(values[0], values[1]))
		case 3:
			// Only to report it as invalid, with the usual error.
			axes = append(axes, shapes.StepRange(values[0], values[1], values[2]))
		default:
			return nil, errors.Errorf("axis #%d %q: expected \"n\" or \"first:last\"", ii, part)
		}
	}
	if err := shapes.Validate(axes...); err != nil {
		return nil, err
	}
	return axes, nil
}

// parseValue parses the value of a uniform array: an int64, a float64, a bool or, if nothing else
// matches, the string itself.
func parseValue(text string) (any, error) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseBool(text); err == nil {
		return v, nil
	}
	return text, nil
}

// parseFloats parses a comma-separated list of float64 values. An empty text returns no values.
func parseFloats(text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	values := make([]float64, len(parts))
	for ii, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value #%d of %q", ii, text)
		}
		values[ii] = v
	}
	return values, nil
}

// newMesh builds a float64 Cartesian mesh of the given rank from the -step and -origin flags.
func newMesh(rank int, stepText, originText string) (*meshes.Cartesian[float64], error) {
	builder := meshes.Build[float64](rank)
	steps, err := parseFloats(stepText)
	if err != nil {
		return nil, errors.WithMessage(err, "-step")
	}
	switch len(steps) {
	case 0:
	case 1:
		builder.Step(steps[0])
	default:
		builder.Steps(steps...)
	}
	origins, err := parseFloats(originText)
	if err != nil {
		return nil, errors.WithMessage(err, "-origin")
	}
	switch len(origins) {
	case 0:
	case 1:
		builder.Origin(origins[0])
	default:
		builder.Origins(origins...)
	}
	return builder.Done()
}

// axisVarNames are the names of the index variables of expressions of arrays of rank up to 3.
var axisVarNames = []string{"i", "j", "k"}

// cartesianEnv returns the environment of expressions for the given Cartesian index.
func cartesianEnv(indices []int) map[string]any {
	env := make(map[string]any, 2*len(indices))
	for axis, index := range indices {
		env[fmt.Sprintf("i%d", axis)] = index
		if len(indices) <= len(axisVarNames) {
			env[axisVarNames[axis]] = index
		}
	}
	return env
}

// compileExpr compiles the expression, type-checking it against the variables in env.
func compileExpr(source string, env map[string]any) (*vm.Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("missing -expr for structured array")
	}
	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, errors.Wrapf(err, "compiling expression %q", source)
	}
	return program, nil
}

// runExpr runs the program with env, and panics with an error if it fails: materialization converts
// it back to an error.
func runExpr(program *vm.Program, env map[string]any) any {
	result, err := expr.Run(program, env)
	if err != nil {
		panic(errors.Wrapf(err, "evaluating expression with %v", env))
	}
	return result
}

// newCartesianExpr creates a structured array with IndexCartesian style whose elements are computed by the
// expression source.
func newCartesianExpr(source string, axes []any) (arrays.Structured[any, arrays.CartesianFunc[any]], error) {
	shape, err := shapes.Normalize(axes...)
	if err != nil {
		return arrays.Structured[any, arrays.CartesianFunc[any]]{}, err
	}
	program, err := compileExpr(source, cartesianEnv(make([]int, shape.Rank())))
	if err != nil {
		return arrays.Structured[any, arrays.CartesianFunc[any]]{}, err
	}
	return arrays.NewCartesian(func(indices ...int) any {
		return runExpr(program, cartesianEnv(indices))
	}, shape)
}

// newLinearExpr creates a structured array with IndexLinear style whose elements are computed by the
// expression source, with the linear index given by the variable "n".
func newLinearExpr(source string, axes []any) (arrays.Structured[any, arrays.LinearFunc[any]], error) {
	program, err := compileExpr(source, map[string]any{"n": 0})
	if err != nil {
		return arrays.Structured[any, arrays.LinearFunc[any]]{}, err
	}
	return arrays.NewLinear(func(n int) any {
		return runExpr(program, map[string]any{"n": n})
	}, axes...)
}
