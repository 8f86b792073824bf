// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/structarrays/internal/workerspool"
	"github.com/gomlx/structarrays/pkg/core/arrays"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 1 {
				s = headerRowStyle
				return
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// Summary of an array, also used for the YAML output.
type Summary struct {
	Kind       string    `yaml:"kind"`
	Type       string    `yaml:"type"`
	IndexStyle string    `yaml:"index_style"`
	Shape      string    `yaml:"shape"`
	Rank       int       `yaml:"rank"`
	Length     int       `yaml:"length"`
	DType      string    `yaml:"dtype"`
	Bytes      uint64    `yaml:"bytes,omitempty"`
	Elements   []Element `yaml:"elements,omitempty"`
}

// Element of a materialized array.
type Element struct {
	Linear int    `yaml:"linear"`
	Index  []int  `yaml:"index,flow"`
	Value  string `yaml:"value"`
}

func summarize[T any](kind string, a arrays.Array[T]) *Summary {
	shape := a.Shape()
	s := &Summary{
		Kind:       kind,
		Type:       fmt.Sprintf("%T", a),
		IndexStyle: a.IndexStyle().String(),
		Shape:      shape.String(),
		Rank:       shape.Rank(),
		Length:     shape.Size(),
	}
	dtype := arrays.DType[T](a)
	if dtype != dtypes.InvalidDType {
		s.DType = dtype.String()
		s.Bytes = uint64(dtype.Memory()) * uint64(shape.Size())
	} else {
		s.DType = arrays.ElementType[T](a).String()
	}
	return s
}

// report prints the summary of the array and, with -print, its elements.
func report[T any](kind string, a arrays.Array[T]) error {
	s := summarize(kind, a)
	if *flagPrint {
		d, err := materialize(a)
		if err != nil {
			return err
		}
		for linear, indices := range d.Shape().Iter() {
			if *flagMax >= 0 && linear >= *flagMax {
				break
			}
			s.Elements = append(s.Elements, Element{
				Linear: linear,
				Index:  append([]int(nil), indices...),
				Value:  fmt.Sprintf("%v", d.Flat()[linear]),
			})
		}
	}

	if *flagFormat == "yaml" {
		out, err := yaml.Marshal(s)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	fmt.Println(titleStyle.Render("Summary"))
	table := newPlainTable(false)
	table.Row("kind", s.Kind)
	table.Row("type", s.Type)
	table.Row("index style", s.IndexStyle)
	table.Row("shape", s.Shape)
	table.Row("rank", fmt.Sprintf("%d", s.Rank))
	table.Row("length", humanize.Comma(int64(s.Length)))
	table.Row("dtype", s.DType)
	if s.Bytes > 0 {
		table.Row("materialized", humanize.Bytes(s.Bytes))
	}
	fmt.Println(table.Render())

	if len(s.Elements) > 0 {
		fmt.Println(titleStyle.Render("Elements"))
		table = newPlainTable(true)
		table.Row("Linear", "Index", "Value")
		for _, e := range s.Elements {
			table.Row(humanize.Comma(int64(e.Linear)), fmt.Sprintf("%v", e.Index), e.Value)
		}
		fmt.Println(table.Render())
		if s.Length > len(s.Elements) {
			fmt.Printf("... %s more elements (see -max)\n", humanize.Comma(int64(s.Length-len(s.Elements))))
		}
	}
	return nil
}

// materialize the array: in parallel, or sequentially displaying a progress bar with -progress.
func materialize[T any](a arrays.Array[T]) (*arrays.Dense[T], error) {
	if !*flagProgress {
		pool := workerspool.New().SetMaxParallelism(*flagParallelism)
		return arrays.MaterializeParallel(a, pool)
	}

	shape := a.Shape()
	bar := progressbar.NewOptions(shape.Size(),
		progressbar.OptionSetDescription("materializing"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("elements"),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionClearOnFinish(),
	)
	flat := make([]T, 0, shape.Size())
	err := exceptions.TryCatch[error](func() {
		for _, indices := range shape.Iter() {
			flat = append(flat, must.M1(a.At(indices...)))
			_ = bar.Add(1)
		}
	})
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}
	return arrays.NewDense(flat, shape)
}
