// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package meshes

import (
	"github.com/gomlx/structarrays/pkg/core/arrays"
	"github.com/gomlx/structarrays/pkg/core/shapes"
	"github.com/pkg/errors"
)

// NewArray returns a Structured array whose elements are the coordinates of the mesh nodes, over the given axes.
// See shapes.Normalize for the accepted axis specs.
//
// The number of axes must be the rank of the mesh. Each read allocates a new slice of coordinates.
func NewArray[T Number](mesh *Cartesian[T], axes ...any) (arrays.Structured[[]T, arrays.CartesianFunc[[]T]], error) {
	var noArray arrays.Structured[[]T, arrays.CartesianFunc[[]T]]
	if mesh == nil {
		return noArray, errors.New("meshes.NewArray: nil mesh")
	}
	shape, err := shapes.Normalize(axes...)
	if err != nil {
		return noArray, errors.WithMessagef(err, "meshes.NewArray(%s)", mesh)
	}
	if shape.Rank() != mesh.Rank() {
		return noArray, errors.Wrapf(arrays.ErrInvalidShape, "meshes.NewArray(%s): shape %s has rank %d, wanted %d",
			mesh, shape, shape.Rank(), mesh.Rank())
	}
	return arrays.NewCartesian(mesh.At, shape)
}
