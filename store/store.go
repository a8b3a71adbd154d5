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

// Package store implements the temporal quad store consumed by execution:
// a reader/writer-locked index over (subject, predicate, object, graph)
// quads carrying [valid_from, valid_to) validity intervals.
package store

import (
	"context"
	"sync"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/sparqlcore/engine/rdfterm"
)

// ErrClosed is returned by any operation attempted after Close.
var ErrClosed = errors.NewKind("store is closed")

// Cursor is a forward iterator over quads matching a QueryCurrent scan.
type Cursor interface {
	// Next advances the cursor and returns the next quad, or io.EOF when
	// exhausted.
	Next(ctx context.Context) (rdfterm.Quad, error)
	// Close releases any resources the cursor holds; idempotent.
	Close(ctx context.Context) error
}

// QuadStore is the interface consumed by the execution engine, per the
// §4.7 quad-store protocol: scoped read locking, a current-valid range
// scan, and a batched bulk-write path alongside a non-batched one.
type QuadStore interface {
	// AcquireReadLock grants shared access for the lifetime of one
	// execution cursor; ReleaseReadLock must be called exactly once per
	// acquisition, typically from the cursor's Close.
	AcquireReadLock()
	ReleaseReadLock()

	// QueryCurrent scans the current-valid index; an unbound TermOrNil in
	// any position denotes "any". Returns a cursor the caller must Close.
	QueryCurrent(ctx context.Context, s, p, o, graph *rdfterm.Term) (Cursor, error)

	// AddCurrent adds (s,p,o[,graph]) as current-valid outside a batch; a
	// no-op if an identical current triple already exists, and MUST NOT
	// shorten or close any existing entry's validity interval.
	AddCurrent(ctx context.Context, s, p, o rdfterm.Term, graph rdfterm.Term) error

	// BeginBatch starts a bulk-write transaction under an exclusive lock.
	BeginBatch(ctx context.Context) (Batch, error)

	// Close releases the store's resources.
	Close() error
}

// Batch accumulates adds for atomic publication via CommitBatch.
type Batch interface {
	AddCurrentBatched(s, p, o rdfterm.Term, graph rdfterm.Term) error
	CommitBatch(ctx context.Context) error
	// Abort discards the batch's pending adds without publishing them.
	Abort() error
}

// rwGate implements the scoped multi-reader/single-writer coordination
// described in §5: readers acquire a shared lock held across an entire
// execution cursor's lifetime, writers take it exclusively for AddCurrent
// and CommitBatch.
type rwGate struct {
	mu     sync.RWMutex
	closed bool
	cmu    sync.Mutex
}

func (g *rwGate) AcquireReadLock() { g.mu.RLock() }
func (g *rwGate) ReleaseReadLock() { g.mu.RUnlock() }

// AcquireWriteLock excludes every held AcquireReadLock, so a write
// published here can never land in the middle of a live execution
// cursor's scans. Writers must call it around every mutation of the
// underlying quad log.
func (g *rwGate) AcquireWriteLock() { g.mu.Lock() }
func (g *rwGate) ReleaseWriteLock() { g.mu.Unlock() }

func (g *rwGate) isClosed() bool {
	g.cmu.Lock()
	defer g.cmu.Unlock()
	return g.closed
}

func (g *rwGate) markClosed() {
	g.cmu.Lock()
	defer g.cmu.Unlock()
	g.closed = true
}
