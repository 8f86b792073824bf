// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package meshes implements Cartesian meshes: functions that map an index to physical coordinates,
// defined by a step (the spacing between nodes) and an origin (the index at coordinate 0) per axis.
//
// The coordinate along axis k of the index i is `step[k] * (i[k] - origin[k])`.
//
// Step and origin can each be a single value for all axes, or one value per axis. The origin can also be
// absent, meaning 0 for every axis. When the mesh is built, the cheapest formula for the given combination
// is selected -- e.g. with no origin there is no subtraction at all.
//
// Example:
//
//	mesh := must.M1(meshes.Build[float64](1).Step(2).Origin(1).Done())
//	coords := mesh.At(5) // []float64{8}
//
// NewArray creates an array of the coordinates of a mesh over a given set of axes.
package meshes

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Number is the constraint of the types of coordinates, steps and origins.
type Number interface {
	constraints.Integer | constraints.Float
}

// Param is a step or an origin of a mesh: absent (only for origins), one value for every axis (scalar), or one
// value per axis.
type Param[T Number] struct {
	values []T
	rank   int
}

// IsAbsent returns whether the parameter was not given. Only origins can be absent.
func (p Param[T]) IsAbsent() bool { return len(p.values) == 0 }

// IsScalar returns whether the parameter is one value shared by every axis.
func (p Param[T]) IsScalar() bool { return len(p.values) == 1 }

// Scalar returns the value shared by every axis. It panics if the parameter is not a scalar.
func (p Param[T]) Scalar() T {
	if !p.IsScalar() {
		exceptions.Panicf("meshes.Param.Scalar() called for a parameter with %d values", len(p.values))
	}
	return p.values[0]
}

// Tuple returns the value of the parameter for each axis: broadcast for scalars, and zeros if absent.
func (p Param[T]) Tuple() []T {
	tuple := make([]T, p.rank)
	switch {
	case p.IsAbsent():
	case p.IsScalar():
		for axis := range tuple {
			tuple[axis] = p.values[0]
		}
	default:
		copy(tuple, p.values)
	}
	return tuple
}

// String implements fmt.Stringer.
func (p Param[T]) String() string {
	switch {
	case p.IsAbsent():
		return "none"
	case p.IsScalar():
		return fmt.Sprintf("%v", p.values[0])
	}
	return fmt.Sprintf("%v", p.values)
}

// Strategy is the formula selected by a Cartesian mesh to compute coordinates.
type Strategy int

const (
	// ScalarStepNoOrigin computes step*i[k].
	ScalarStepNoOrigin Strategy = iota

	// ScalarStepScalarOrigin computes step*(i[k]-origin).
	ScalarStepScalarOrigin

	// ScalarStepAxesOrigin computes step*(i[k]-origin[k]).
	ScalarStepAxesOrigin

	// AxesStepNoOrigin computes step[k]*i[k].
	AxesStepNoOrigin

	// AxesStepScalarOrigin computes step[k]*(i[k]-origin).
	AxesStepScalarOrigin

	// AxesStepAxesOrigin computes step[k]*(i[k]-origin[k]).
	AxesStepAxesOrigin
)

var strategyNames = []string{
	"ScalarStepNoOrigin", "ScalarStepScalarOrigin", "ScalarStepAxesOrigin",
	"AxesStepNoOrigin", "AxesStepScalarOrigin", "AxesStepAxesOrigin",
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// Cartesian is a mesh that maps an index with one value per axis to coordinates of type T.
//
// It is immutable after built, and safe for concurrent use.
type Cartesian[T Number] struct {
	rank     int
	step     Param[T]
	origin   Param[T]
	strategy Strategy

	// fill writes the coordinates of indices to dst, with the formula selected by the strategy.
	fill func(dst []T, indices []int)
}

// Builder for Cartesian meshes. Create it with Build, and finish with Done.
type Builder[T Number] struct {
	rank          int
	step, origin  []T
	stepAxes      bool
	originAxes    bool
	originDefined bool
}

// Build starts the configuration of a Cartesian mesh of the given rank.
// By default, the step is 1 for every axis and the origin is absent.
func Build[T Number](rank int) *Builder[T] {
	return &Builder[T]{rank: rank, step: []T{1}}
}

// Step sets the same step for every axis.
func (b *Builder[T]) Step(step T) *Builder[T] {
	b.step = []T{step}
	b.stepAxes = false
	return b
}

// Steps sets one step per axis.
func (b *Builder[T]) Steps(steps ...T) *Builder[T] {
	b.step = slices.Clone(steps)
	b.stepAxes = true
	return b
}

// Origin sets the same origin for every axis.
func (b *Builder[T]) Origin(origin T) *Builder[T] {
	b.origin = []T{origin}
	b.originAxes = false
	b.originDefined = true
	return b
}

// Origins sets one origin per axis.
func (b *Builder[T]) Origins(origins ...T) *Builder[T] {
	b.origin = slices.Clone(origins)
	b.originAxes = true
	b.originDefined = true
	return b
}

// NoOrigin removes the origin, the default. Coordinates are then step[k]*i[k].
func (b *Builder[T]) NoOrigin() *Builder[T] {
	b.origin = nil
	b.originAxes = false
	b.originDefined = false
	return b
}

// Done validates the configuration, selects the formula to use and returns the Cartesian mesh.
//
// Per-axis steps or origins must have exactly one value per axis. If all the values are the same, they
// are stored as a single value (scalar).
func (b *Builder[T]) Done() (*Cartesian[T], error) {
	if b.rank < 0 {
		return nil, errors.Errorf("meshes.Build(%d): rank must be >= 0", b.rank)
	}
	step, err := makeParam("step", b.rank, b.step, b.stepAxes)
	if err != nil {
		return nil, err
	}
	if step.IsAbsent() {
		// Steps() with no values, for rank 0: steps are never absent, use the default.
		step = Param[T]{values: []T{1}, rank: b.rank}
	}
	var origin Param[T]
	if b.originDefined {
		origin, err = makeParam("origin", b.rank, b.origin, b.originAxes)
		if err != nil {
			return nil, err
		}
	} else {
		origin = Param[T]{rank: b.rank}
	}
	m := &Cartesian[T]{rank: b.rank, step: step, origin: origin}
	m.selectStrategy()
	if klog.V(1).Enabled() {
		klog.Infof("meshes.Cartesian[%T]: rank=%d, step=%s, origin=%s, strategy=%s",
			T(0), m.rank, m.step, m.origin, m.strategy)
	}
	return m, nil
}

func makeParam[T Number](name string, rank int, values []T, perAxis bool) (Param[T], error) {
	if !perAxis {
		return Param[T]{values: values, rank: rank}, nil
	}
	if len(values) != rank {
		return Param[T]{}, errors.Errorf("meshes.Build(%d): %d values given for per-axis %s %v, wanted one per axis",
			rank, len(values), name, values)
	}
	if rank > 0 && slices.IndexFunc(values, func(v T) bool { return v != values[0] }) == -1 {
		// All the same: store as a scalar.
		return Param[T]{values: values[:1:1], rank: rank}, nil
	}
	return Param[T]{values: values, rank: rank}, nil
}

// selectStrategy picks the cheapest formula for the parameters of the mesh.
func (m *Cartesian[T]) selectStrategy() {
	stepScalar := m.step.IsScalar()
	switch {
	case stepScalar && m.origin.IsAbsent():
		m.strategy, m.fill = ScalarStepNoOrigin, m.fillScalarStepNoOrigin
	case stepScalar && m.origin.IsScalar():
		m.strategy, m.fill = ScalarStepScalarOrigin, m.fillScalarStepScalarOrigin
	case stepScalar:
		m.strategy, m.fill = ScalarStepAxesOrigin, m.fillScalarStepAxesOrigin
	case m.origin.IsAbsent():
		m.strategy, m.fill = AxesStepNoOrigin, m.fillAxesStepNoOrigin
	case m.origin.IsScalar():
		m.strategy, m.fill = AxesStepScalarOrigin, m.fillAxesStepScalarOrigin
	default:
		m.strategy, m.fill = AxesStepAxesOrigin, m.fillAxesStepAxesOrigin
	}
}

func (m *Cartesian[T]) fillScalarStepNoOrigin(dst []T, indices []int) {
	step := m.step.values[0]
	for k, i := range indices {
		dst[k] = step * T(i)
	}
}

func (m *Cartesian[T]) fillScalarStepScalarOrigin(dst []T, indices []int) {
	step, origin := m.step.values[0], m.origin.values[0]
	for k, i := range indices {
		dst[k] = step * (T(i) - origin)
	}
}

func (m *Cartesian[T]) fillScalarStepAxesOrigin(dst []T, indices []int) {
	step, origin := m.step.values[0], m.origin.values
	for k, i := range indices {
		dst[k] = step * (T(i) - origin[k])
	}
}

func (m *Cartesian[T]) fillAxesStepNoOrigin(dst []T, indices []int) {
	step := m.step.values
	for k, i := range indices {
		dst[k] = step[k] * T(i)
	}
}

func (m *Cartesian[T]) fillAxesStepScalarOrigin(dst []T, indices []int) {
	step, origin := m.step.values, m.origin.values[0]
	for k, i := range indices {
		dst[k] = step[k] * (T(i) - origin)
	}
}

func (m *Cartesian[T]) fillAxesStepAxesOrigin(dst []T, indices []int) {
	step, origin := m.step.values, m.origin.values
	for k, i := range indices {
		dst[k] = step[k] * (T(i) - origin[k])
	}
}

// Rank of the mesh: the number of indices it takes, and the number of coordinates it returns.
func (m *Cartesian[T]) Rank() int { return m.rank }

// Step returns the step of the mesh: either a scalar or one value per axis.
func (m *Cartesian[T]) Step() Param[T] { return m.step }

// Origin returns the origin of the mesh: absent, a scalar or one value per axis.
func (m *Cartesian[T]) Origin() Param[T] { return m.origin }

// OriginTuple returns the origin of each axis, even if the origin is absent (zeros) or a scalar.
func (m *Cartesian[T]) OriginTuple() []T { return m.origin.Tuple() }

// StepTuple returns the step of each axis, even if the step is a scalar.
func (m *Cartesian[T]) StepTuple() []T { return m.step.Tuple() }

// Strategy returns the formula selected to compute coordinates.
func (m *Cartesian[T]) Strategy() Strategy { return m.strategy }

// At returns the coordinates of the node at the given index, with one index per axis.
//
// It panics if the number of indices is not the rank of the mesh.
func (m *Cartesian[T]) At(indices ...int) []T {
	return m.AtInto(make([]T, m.rank), indices...)
}

// AtInto writes the coordinates of the node at the given index into dst and returns it.
// If dst doesn't have capacity for Rank() values, a new slice is allocated.
//
// It panics if the number of indices is not the rank of the mesh.
func (m *Cartesian[T]) AtInto(dst []T, indices ...int) []T {
	if len(indices) != m.rank {
		exceptions.Panicf("meshes.Cartesian.At(%v): got %d indices for mesh of rank %d", indices, len(indices), m.rank)
	}
	if cap(dst) < m.rank {
		dst = make([]T, m.rank)
	}
	dst = dst[:m.rank]
	m.fill(dst, indices)
	return dst
}

// String implements fmt.Stringer.
func (m *Cartesian[T]) String() string {
	return fmt.Sprintf("Cartesian[%T](rank=%d, step=%s, origin=%s)", T(0), m.rank, m.step, m.origin)
}
