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

package driver

import (
	"database/sql/driver"
	"io"

	"github.com/sparqlcore/engine"
)

// Rows is an iterator over an executed query's results. It flattens the
// engine's three row-shaped ExecutionResult kinds — SELECT bindings,
// ASK's single boolean, and CONSTRUCT/DESCRIBE's quads — into the single
// []driver.Value-per-row protocol database/sql expects.
type Rows struct {
	cols []string
	rows [][]driver.Value
	pos  int
}

func newRows(res *sparqlcore.ExecutionResult) *Rows {
	switch res.Kind {
	case sparqlcore.ResultSelect:
		r := &Rows{cols: res.Variables}
		for _, row := range res.Rows {
			vals := make([]driver.Value, len(res.Variables))
			for i, name := range res.Variables {
				if v, ok := row.Get(name); ok {
					vals[i] = v.String()
				}
			}
			r.rows = append(r.rows, vals)
		}
		return r
	case sparqlcore.ResultAsk:
		return &Rows{cols: []string{"boolean"}, rows: [][]driver.Value{{res.AskResult}}}
	case sparqlcore.ResultConstruct, sparqlcore.ResultDescribe:
		r := &Rows{cols: []string{"subject", "predicate", "object", "graph"}}
		for _, q := range res.Triples {
			r.rows = append(r.rows, []driver.Value{
				q.Subject.String(), q.Predicate.String(), q.Object.String(), q.Graph.String(),
			})
		}
		return r
	default:
		return &Rows{}
	}
}

// Columns returns the result's column names.
func (r *Rows) Columns() []string {
	return r.cols
}

// Close releases the rows; there is nothing to release since the engine
// already fully materialized the result before newRows was built.
func (r *Rows) Close() error {
	r.rows = nil
	return nil
}

// Next populates dest with the next row's values, or io.EOF when exhausted.
func (r *Rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
