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

	"github.com/sparqlcore/engine"
)

// Conn is a connection to a database.
type Conn struct {
	engine *sparqlcore.Engine
}

// Prepare returns a statement bound to query; query text isn't validated
// until Exec/Query actually runs it, since the engine has no separate
// parse-only entry point worth exposing here.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{conn: c, queryStr: query}, nil
}

// Close does nothing; the wrapped engine outlives any one Conn.
func (c *Conn) Close() error {
	return nil
}

// Begin returns a no-op transaction: the quad store has no multi-statement
// transaction concept beyond BeginBatch, which this driver doesn't expose.
func (c *Conn) Begin() (driver.Tx, error) {
	return fakeTransaction{}, nil
}

type fakeTransaction struct{}

func (fakeTransaction) Commit() error   { return nil }
func (fakeTransaction) Rollback() error { return nil }
