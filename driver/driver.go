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

// Package driver exposes an Engine over the standard database/sql surface:
// one Driver per process, one Conn per logical connection, Prepare/Query/Exec
// delegating straight to the wrapped engine. There is no catalog registry —
// one Driver always wraps exactly one Engine over one quad store.
package driver

import (
	"context"
	"database/sql/driver"

	"github.com/sparqlcore/engine"
)

// Driver adapts an *sparqlcore.Engine to database/sql/driver.Driver.
type Driver struct {
	engine *sparqlcore.Engine
}

// New returns a driver wrapping engine. The returned Driver ignores the
// dsn argument to Open/OpenConnector — there is nothing to resolve, since
// the engine and its store already exist.
func New(engine *sparqlcore.Engine) *Driver {
	return &Driver{engine: engine}
}

// Open returns a new connection to the database.
func (d *Driver) Open(name string) (driver.Conn, error) {
	conn, err := d.OpenConnector(name)
	if err != nil {
		return nil, err
	}
	return conn.Connect(context.Background())
}

// OpenConnector returns a Connector bound to d's engine.
func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	return &Connector{driver: d}, nil
}

// Connector represents a driver in a fixed configuration and can create any
// number of equivalent Conns for use by multiple goroutines.
type Connector struct {
	driver *Driver
}

// Driver returns the connector's parent driver.
func (c *Connector) Driver() driver.Driver {
	return c.driver
}

// Connect returns a connection to the database.
func (c *Connector) Connect(context.Context) (driver.Conn, error) {
	return &Conn{engine: c.driver.engine}, nil
}
