// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import "fmt"

// Axis is one normalized entry of a Shape: either a plain length, whose indices are 0..length-1,
// or an explicit unit range, whose indices are first..first+length-1.
//
// The zero value is a plain axis of length 0.
type Axis struct {
	first  int
	length int
	ranged bool
}

// Len returns the number of indices of the axis.
func (a Axis) Len() int { return a.length }

// First returns the first valid index of the axis. It is always 0 for plain axes.
func (a Axis) First() int { return a.first }

// Last returns the last valid index of the axis, First()+Len()-1.
// For an empty axis it is First()-1.
func (a Axis) Last() int { return a.first + a.length - 1 }

// IsRanged returns whether the axis was declared with an explicit range, as opposed to a plain length.
func (a Axis) IsRanged() bool { return a.ranged }

// Contains returns whether index is a valid index of the axis.
func (a Axis) Contains(index int) bool {
	return uint(index-a.first) < uint(a.length)
}

// Range returns the valid indices of the axis as a unit range.
func (a Axis) Range() Range {
	return Range{First: a.first, Last: a.Last(), Step: 1}
}

// String returns the length for plain axes, or "first:last" for ranged ones.
func (a Axis) String() string {
	if !a.ranged {
		return fmt.Sprintf("%d", a.length)
	}
	return fmt.Sprintf("%d:%d", a.first, a.Last())
}

// AsDimension returns the length of a normalized axis entry.
func AsDimension(a Axis) int { return a.length }

// AsAxis returns the inclusive bounds of a normalized axis entry.
// For an empty axis last is first-1.
func AsAxis(a Axis) (first, last int) { return a.first, a.Last() }

// Range is a range of indices First..Last (inclusive) with a Step.
//
// As an axis spec only unit ranges (Step == 1) are valid. Use UnitRange to create one.
// A range with Last < First is empty.
type Range struct {
	First, Last, Step int
}

// UnitRange returns the range first..last (inclusive) with step 1.
func UnitRange(first, last int) Range {
	return Range{First: first, Last: last, Step: 1}
}

// StepRange returns the range first, first+step, ... up to last (inclusive).
//
// It is accepted by Normalize only when step is 1: it exists so callers can pass through ranges
// they got elsewhere and have them validated.
func StepRange(first, step, last int) Range {
	return Range{First: first, Last: last, Step: step}
}

// Len returns the number of elements of the range. Ranges with Step == 0 have length 0.
func (r Range) Len() int {
	switch {
	case r.Step > 0 && r.Last >= r.First:
		return (r.Last-r.First)/r.Step + 1
	case r.Step < 0 && r.Last <= r.First:
		return (r.First-r.Last)/(-r.Step) + 1
	}
	return 0
}

// String returns "first:last" for unit ranges, "first:step:last" otherwise.
func (r Range) String() string {
	if r.Step == 1 {
		return fmt.Sprintf("%d:%d", r.First, r.Last)
	}
	return fmt.Sprintf("%d:%d:%d", r.First, r.Step, r.Last)
}

// Iota is the zero-based range of indices 0..n-1.
//
// As an axis spec it is collapsed to a plain length: Normalize(Iota(3)) and Normalize(3) return equal shapes.
type Iota int
