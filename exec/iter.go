// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package exec streams solutions for a parsed query's graph pattern: one
// operator per SPARQL algebra construct, composed into an iterator tree
// in the standard Go streaming-iterator shape — Next returns io.EOF when
// exhausted, Close releases whatever the operator holds open.
package exec

import (
	"context"
	"io"

	"github.com/sparqlcore/engine/binding"
)

// RowIter streams binding rows one solution at a time.
type RowIter interface {
	Next(ctx context.Context) (*binding.Row, error)
	Close(ctx context.Context) error
}

// sliceIter replays a fixed, already-materialized slice of rows.
type sliceIter struct {
	rows []*binding.Row
	pos  int
}

// NewSliceIter wraps rows as a RowIter, the seed every operator chain
// starts from.
func NewSliceIter(rows []*binding.Row) RowIter {
	return &sliceIter{rows: rows}
}

func (it *sliceIter) Next(ctx context.Context) (*binding.Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	r := it.rows[it.pos]
	it.pos++
	return r, nil
}

func (it *sliceIter) Close(ctx context.Context) error {
	it.rows = nil
	return nil
}

// Collect drains it fully into a slice and closes it.
func Collect(ctx context.Context, it RowIter) ([]*binding.Row, error) {
	defer it.Close(ctx)
	var out []*binding.Row
	for {
		row, err := it.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
}

// flatMapIter drives a dependent (nested-loop) join: for every row left
// produces, build asks for a fresh right-hand iterator seeded with that
// row, and every row the right side produces is itself already a full
// extension of the left row (TriplePatternScan clones and extends rather
// than merging), so flattening is all a join against a single pattern
// needs.
type flatMapIter struct {
	left  RowIter
	build func(row *binding.Row) (RowIter, error)
	cur   RowIter
}

func (it *flatMapIter) Next(ctx context.Context) (*binding.Row, error) {
	for {
		if it.cur != nil {
			row, err := it.cur.Next(ctx)
			if err == nil {
				return row, nil
			}
			if err != io.EOF {
				return nil, err
			}
			it.cur.Close(ctx)
			it.cur = nil
		}
		leftRow, err := it.left.Next(ctx)
		if err != nil {
			return nil, err
		}
		cur, err := it.build(leftRow)
		if err != nil {
			return nil, err
		}
		it.cur = cur
	}
}

func (it *flatMapIter) Close(ctx context.Context) error {
	if it.cur != nil {
		it.cur.Close(ctx)
	}
	return it.left.Close(ctx)
}
