// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// arrayinfo builds a lazy array from the command line and reports on it: its shape, its
// index style, how much memory it would take once materialized, and optionally its elements.
//
// Examples:
//
//	arrayinfo -kind=uniform -axes=3,4 -value=7
//	arrayinfo -kind=structured -axes=3,3 -expr='i >= j' -print
//	arrayinfo -kind=structured -style=linear -axes=-2:2,3 -expr='n * n' -print -format=yaml
//	arrayinfo -kind=mesh -axes=5,0:3 -step=0.5,2 -origin=1 -print -progress
package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/gomlx/structarrays/pkg/core/arrays"
	"github.com/gomlx/structarrays/pkg/core/meshes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagKind = flag.String("kind", "uniform", "Kind of array to build: \"uniform\", \"fast\" (fast uniform "+
		"of zeros or ones), \"mutable\" (mutable uniform), \"structured\" or \"mesh\".")
	flagAxes = flag.String("axes", "", "Comma-separated list of axes: a length (e.g. \"3\") or a range "+
		"of indices \"first:last\" (e.g. \"-1:2\"). Empty for a scalar.")
	flagValue = flag.String("value", "0", "Value of uniform arrays. Numbers, \"true\"/\"false\" and strings "+
		"are accepted. For -kind=fast it must be 0 or 1.")
	flagExpr = flag.String("expr", "", "Expression computing the elements of structured arrays. "+
		"With -style=cartesian the index is given by i0, i1, ... (and i, j, k for arrays of rank <= 3). "+
		"With -style=linear the linear index is given by n.")
	flagStyle  = flag.String("style", "cartesian", "Index style of structured arrays: \"cartesian\" or \"linear\".")
	flagStep   = flag.String("step", "1", "Step of the mesh: one value, or a comma-separated value per axis.")
	flagOrigin = flag.String("origin", "", "Origin of the mesh: empty for none, one value, or a "+
		"comma-separated value per axis.")

	flagPrint = flag.Bool("print", false, "Materialize the array and print its elements.")
	flagMax   = flag.Int("max", 20, "Maximum number of elements printed with -print. Use -1 for all.")
	flagProgress = flag.Bool("progress", false, "Display a progress bar while materializing. "+
		"It disables -parallelism.")
	flagParallelism = flag.Int("parallelism", runtime.NumCPU(), "Maximum number of goroutines used to "+
		"materialize the array: 0 to disable parallelism, -1 for unlimited.")
	flagFormat = flag.String("format", "table", "Output format: \"table\" or \"yaml\".")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %q. See 'arrayinfo -help'.", flag.Args())
		os.Exit(1)
	}
	if *flagFormat != "table" && *flagFormat != "yaml" {
		klog.Errorf("Invalid -format=%q, it must be \"table\" or \"yaml\".", *flagFormat)
		os.Exit(1)
	}

	axes, err := parseAxes(*flagAxes)
	if err != nil {
		klog.Fatalf("Invalid -axes: %+v", err)
	}
	if err := run(*flagKind, axes); err != nil {
		klog.Fatalf("arrayinfo failed: %+v", err)
	}
}

// run builds the array of the given kind and reports on it.
func run(kind string, axes []any) error {
	switch kind {
	case "uniform", "mutable":
		value, err := parseValue(*flagValue)
		if err != nil {
			return err
		}
		return reportUniform(kind, value, axes)

	case "fast":
		switch *flagValue {
		case "0":
			a, err := arrays.NewFastUniform[float64, arrays.Zero[float64]](axes...)
			if err != nil {
				return err
			}
			return report[float64](kind, a)
		case "1":
			a, err := arrays.NewFastUniform[float64, arrays.One[float64]](axes...)
			if err != nil {
				return err
			}
			return report[float64](kind, a)
		}
		return errors.Errorf("-kind=fast requires -value=0 or -value=1, got %q", *flagValue)

	case "structured":
		switch *flagStyle {
		case "cartesian":
			a, err := newCartesianExpr(*flagExpr, axes)
			if err != nil {
				return err
			}
			return report[any](kind, a)
		case "linear":
			a, err := newLinearExpr(*flagExpr, axes)
			if err != nil {
				return err
			}
			return report[any](kind, a)
		}
		return errors.Errorf("invalid -style=%q, it must be \"cartesian\" or \"linear\"", *flagStyle)

	case "mesh":
		mesh, err := newMesh(len(axes), *flagStep, *flagOrigin)
		if err != nil {
			return err
		}
		a, err := meshes.NewArray(mesh, axes...)
		if err != nil {
			return err
		}
		return report[[]float64](kind, a)
	}
	return errors.Errorf("invalid -kind=%q", kind)
}

// reportUniform instantiates the uniform array with the type of the parsed value.
func reportUniform(kind string, value any, axes []any) error {
	switch v := value.(type) {
	case int64:
		return reportUniformOf(kind, v, axes)
	case float64:
		return reportUniformOf(kind, v, axes)
	case bool:
		return reportUniformOf(kind, v, axes)
	case string:
		return reportUniformOf(kind, v, axes)
	}
	return errors.Errorf("unsupported value type %T", value)
}

func reportUniformOf[T any](kind string, value T, axes []any) error {
	if kind == "mutable" {
		m, err := arrays.NewMutableUniform(value, axes...)
		if err != nil {
			return err
		}
		return report[T](kind, m)
	}
	u, err := arrays.NewUniform(value, axes...)
	if err != nil {
		return err
	}
	return report[T](kind, u)
}
