// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool runs chunks of index ranges in parallel, with a limit on parallelism.
// It is used to materialize large arrays.
package workerspool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of indices processed by each task, if not configured otherwise.
const DefaultChunkSize = 4096

// Pool of workers.
type Pool struct {
	// maxParallelism is the limit on the number of goroutines running tasks at the same time.
	maxParallelism int
	chunkSize      int
}

// New return a new Pool of workers with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	return &Pool{
		maxParallelism: runtime.NumCPU(),
		chunkSize:      DefaultChunkSize,
	}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *Pool) IsEnabled() bool {
	return w.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (w *Pool) IsUnlimited() bool {
	return w.maxParallelism < 0
}

// MaxParallelism is the limit of tasks running in parallel.
// If set to 0 parallelism is disabled, and tasks run inline.
// If set to -1 parallelism is unlimited.
func (w *Pool) MaxParallelism() int {
	return w.maxParallelism
}

// SetMaxParallelism sets the maxParallelism. It returns the pool itself, so calls can be cascaded.
//
// You should only change the parallelism before any workers start running. If changed during the execution
// the behavior is undefined.
func (w *Pool) SetMaxParallelism(maxParallelism int) *Pool {
	w.maxParallelism = maxParallelism
	return w
}

// ChunkSize is the number of indices processed by each task in Range.
func (w *Pool) ChunkSize() int {
	return w.chunkSize
}

// SetChunkSize sets the number of indices processed by each task in Range. Values <= 0 are replaced by
// DefaultChunkSize. It returns the pool itself, so calls can be cascaded.
func (w *Pool) SetChunkSize(chunkSize int) *Pool {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	w.chunkSize = chunkSize
	return w
}

// Range splits the indices 0..n-1 in chunks of ChunkSize(), and calls task(start, end) for each chunk
// [start, end), in parallel up to MaxParallelism() tasks at a time.
//
// It waits for all tasks to finish and returns the first error returned by a task, if any.
// Once a task fails, chunks not yet started are skipped.
func (w *Pool) Range(n int, task func(start, end int) error) error {
	chunkSize := w.chunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if !w.IsEnabled() || n <= chunkSize {
		// Run inline.
		for start := 0; start < n; start += chunkSize {
			if err := task(start, min(start+chunkSize, n)); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	if !w.IsUnlimited() {
		g.SetLimit(w.maxParallelism)
	}
	for start := 0; start < n && ctx.Err() == nil; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error { return task(start, end) })
	}
	return g.Wait()
}
