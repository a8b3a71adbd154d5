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
	"context"
	"database/sql/driver"
	"errors"
)

// ErrParametersUnsupported is returned for a Stmt call carrying bind
// parameters: SPARQL query text is self-contained, so there is nothing
// to bind.
var ErrParametersUnsupported = errors.New("sparqlcore driver: bind parameters are not supported")

// Stmt is a prepared statement: just the query text and its owning Conn.
type Stmt struct {
	conn     *Conn
	queryStr string
}

// Close does nothing.
func (s *Stmt) Close() error {
	return nil
}

// NumInput reports that this driver accepts no bind parameters.
func (s *Stmt) NumInput() int {
	return 0
}

// Exec executes a query that doesn't return rows, such as CONSTRUCT
// materialized as an update in a future revision; today every query form
// returns at least the empty result set, so Exec just runs it and reports
// zero rows affected.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	if len(args) > 0 {
		return nil, ErrParametersUnsupported
	}
	return s.exec(context.Background())
}

// Query executes a query that returns rows.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	if len(args) > 0 {
		return nil, ErrParametersUnsupported
	}
	return s.query(context.Background())
}

// ExecContext executes a query that doesn't return rows.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if len(args) > 0 {
		return nil, ErrParametersUnsupported
	}
	return s.exec(ctx)
}

// QueryContext executes a query that returns rows.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if len(args) > 0 {
		return nil, ErrParametersUnsupported
	}
	return s.query(ctx)
}

func (s *Stmt) exec(ctx context.Context) (driver.Result, error) {
	res := s.conn.engine.Query(ctx, s.queryStr)
	if !res.Success {
		return nil, errors.New(res.Message)
	}
	return &Result{affected: res.Affected}, nil
}

func (s *Stmt) query(ctx context.Context) (driver.Rows, error) {
	res := s.conn.engine.Query(ctx, s.queryStr)
	if !res.Success {
		return nil, errors.New(res.Message)
	}
	return newRows(res), nil
}
