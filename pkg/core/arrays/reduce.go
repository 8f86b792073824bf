// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arrays

import (
	"cmp"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Reductions over arrays. Uniform arrays are reduced in O(1), using only their value and number of elements.
// Other arrays are read element by element.

// Real is the constraint for the types that can be summed with Sum.
type Real interface {
	constraints.Integer | constraints.Float
}

// Equal returns whether a and b take the same indices and hold the same elements.
func Equal[T comparable](a, b Array[T]) (bool, error) {
	if !a.Shape().EqualIndices(b.Shape()) {
		return false, nil
	}
	ua, okA := a.(UniformArray[T])
	ub, okB := b.(UniformArray[T])
	if okA && okB {
		return a.Shape().IsEmpty() || ua.Value() == ub.Value(), nil
	}
	for ii := range Len(a) {
		va, err := a.AtLinear(ii)
		if err != nil {
			return false, err
		}
		vb, err := b.AtLinear(ii)
		if err != nil {
			return false, err
		}
		if va != vb {
			return false, nil
		}
	}
	return true, nil
}

// Hash returns a hash of the uniform array u, computed from its value and its number of elements only.
// Equal uniform arrays with the same value and length have the same hash.
func Hash[T any](u UniformArray[T]) uint64 {
	digest := xxhash.New()
	value := u.Value()
	_, _ = fmt.Fprintf(digest, "%T:%v", value, value)
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(Len[T](u)))
	_, _ = digest.Write(length[:])
	return digest.Sum64()
}

// Sum returns the sum of all elements of the array. It is 0 for empty arrays.
func Sum[T Real](a Array[T]) (sum T, err error) {
	if u, ok := a.(UniformArray[T]); ok {
		return u.Value() * T(Len(a)), nil
	}
	for ii := range Len(a) {
		var v T
		v, err = a.AtLinear(ii)
		if err != nil {
			return
		}
		sum += v
	}
	return
}

// Extrema returns the minimum and maximum elements of the array.
// It returns an error for empty arrays.
func Extrema[T cmp.Ordered](a Array[T]) (lowest, highest T, err error) {
	n := Len(a)
	if n == 0 {
		err = errors.Errorf("arrays.Extrema: empty array with shape %s", a.Shape())
		return
	}
	if u, ok := a.(UniformArray[T]); ok {
		value := u.Value()
		return value, value, nil
	}
	lowest, err = a.AtLinear(0)
	if err != nil {
		return
	}
	highest = lowest
	for ii := 1; ii < n; ii++ {
		var v T
		v, err = a.AtLinear(ii)
		if err != nil {
			return
		}
		lowest, highest = min(lowest, v), max(highest, v)
	}
	return
}

// Unique returns the distinct elements of the array, in order of first appearance (in linear order).
func Unique[T comparable](a Array[T]) ([]T, error) {
	n := Len(a)
	if n == 0 {
		return nil, nil
	}
	if u, ok := a.(UniformArray[T]); ok {
		return []T{u.Value()}, nil
	}
	seen := make(map[T]struct{})
	var unique []T
	for ii := range n {
		v, err := a.AtLinear(ii)
		if err != nil {
			return nil, err
		}
		if _, found := seen[v]; !found {
			seen[v] = struct{}{}
			unique = append(unique, v)
		}
	}
	return unique, nil
}
