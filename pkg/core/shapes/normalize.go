// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"math"
	"math/bits"
	"slices"

	"github.com/pkg/errors"
)

// Normalize converts axis specs into a Shape.
//
// Each spec can be:
//
//   - An integer of any Go integer type: a plain axis with that length. It must be non-negative.
//   - An Iota: a zero-based range, collapsed to a plain axis.
//   - A Range: kept as an explicit (possibly offset) axis. Its Step must be 1.
//   - An Axis: already normalized, kept as is.
//   - A Shape or a []int: all its axes are appended, in order.
//
// It returns an error wrapping ErrInvalidShape if any of the specs is invalid, or if the number of elements
// doesn't fit in an int, in which case no Shape is created.
//
// Validation (see Validate) is done in a separate pass before the conversion, so the conversion of each
// axis has no error path.
func Normalize(specs ...any) (Shape, error) {
	if err := Validate(specs...); err != nil {
		return Shape{}, err
	}
	axes := make([]Axis, 0, len(specs))
	for _, spec := range specs {
		switch spec := spec.(type) {
		case Shape:
			axes = append(axes, spec.axes...)
		case []int:
			for _, dim := range spec {
				axes = append(axes, normalizeAxis(dim))
			}
		default:
			axes = append(axes, normalizeAxis(spec))
		}
	}
	return Shape{axes: axes}, nil
}

// Validate checks that all axis specs can be normalized, without creating a Shape.
// See Normalize for the accepted specs. The error returned wraps ErrInvalidShape.
//
// Besides each individual spec, it checks that the total number of elements fits in an int.
func Validate(specs ...any) error {
	lengths := make([]int, 0, len(specs))
	for ii, spec := range specs {
		if err := validateAxis(spec); err != nil {
			return errors.WithMessagef(err, "axis spec #%d (%v)", ii, spec)
		}
		switch spec := spec.(type) {
		case Shape:
			lengths = append(lengths, spec.Dimensions()...)
		case []int:
			lengths = append(lengths, spec...)
		default:
			lengths = append(lengths, normalizeAxis(spec).length)
		}
	}
	if _, ok := checkedSize(lengths); !ok {
		return errors.Wrapf(ErrInvalidShape, "number of elements of axes %v overflows int", lengths)
	}
	return nil
}

// checkedSize returns the product of lengths, and false if it doesn't fit in an int.
// Any length 0 makes the size 0, regardless of the other lengths.
func checkedSize(lengths []int) (size int, ok bool) {
	if slices.Contains(lengths, 0) {
		return 0, true
	}
	size = 1
	for _, length := range lengths {
		hi, lo := bits.Mul64(uint64(size), uint64(length))
		if hi != 0 || lo > math.MaxInt {
			return 0, false
		}
		size = int(lo)
	}
	return size, true
}

// validateAxis is the guard pass of normalizeAxis.
func validateAxis(spec any) error {
	var length int64
	switch spec := spec.(type) {
	case int:
		length = int64(spec)
	case int8:
		length = int64(spec)
	case int16:
		length = int64(spec)
	case int32:
		length = int64(spec)
	case int64:
		length = spec
	case uint, uint8, uint16, uint32, uint64, uintptr:
		if toUint64(spec) > math.MaxInt {
			return errors.Wrapf(ErrInvalidShape, "length %v overflows int", spec)
		}
	case Iota:
		length = int64(spec)
	case Range:
		if spec.Step != 1 {
			return errors.Wrapf(ErrInvalidShape, "axis range %s must have step 1, got step %d", spec, spec.Step)
		}
	case Axis:
		length = int64(spec.length)
	case Shape:
		// Shapes are always valid.
	case []int:
		for ii, dim := range spec {
			if dim < 0 {
				return errors.Wrapf(ErrInvalidShape, "dimension #%d in %v is negative", ii, spec)
			}
		}
	default:
		return errors.Wrapf(ErrInvalidShape, "unsupported axis spec type %T", spec)
	}
	if length < 0 {
		return errors.Wrapf(ErrInvalidShape, "negative axis length %d", length)
	}
	return nil
}

// normalizeAxis converts one validated, non-splicing axis spec into an Axis.
func normalizeAxis(spec any) Axis {
	switch spec := spec.(type) {
	case int:
		return Axis{length: spec}
	case int8:
		return Axis{length: int(spec)}
	case int16:
		return Axis{length: int(spec)}
	case int32:
		return Axis{length: int(spec)}
	case int64:
		return Axis{length: int(spec)}
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return Axis{length: int(toUint64(spec))}
	case Iota:
		return Axis{length: int(spec)}
	case Range:
		return Axis{first: spec.First, length: max(spec.Last-spec.First+1, 0), ranged: true}
	case Axis:
		return spec
	}
	return Axis{}
}

func toUint64(spec any) uint64 {
	switch spec := spec.(type) {
	case uint:
		return uint64(spec)
	case uint8:
		return uint64(spec)
	case uint16:
		return uint64(spec)
	case uint32:
		return uint64(spec)
	case uint64:
		return spec
	case uintptr:
		return uint64(spec)
	}
	return 0
}
