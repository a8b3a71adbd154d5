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

// Package testharness seeds a store.QuadStore with a fixed dataset and
// exposes it to table-driven query tests, fixture tables seeded ahead of a
// QueryTests run. There is only one store shape here (a quad store), so
// this package uses a single concrete seeding function per dataset rather
// than a pluggable multi-engine Harness interface.
package testharness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine"
	"github.com/sparqlcore/engine/rdfterm"
	"github.com/sparqlcore/engine/store"
)

// Prologue is the PREFIX declaration every seed scenario's queries assume.
const Prologue = "PREFIX ex: <http://example.org/> "

func iri(local string) rdfterm.Term { return rdfterm.NewIRI("http://example.org/" + local) }

// NewPeopleEngine seeds the §8 "Alice 30, Bob 25, Charlie 35" dataset:
// three people with ex:name/ex:age, plus a single ex:knows edge Alice→Bob
// (Bob and Charlie have no outgoing ex:knows edge, per spec.md's seven-triple
// total and its NOT EXISTS scenario over both of them).
func NewPeopleEngine(t *testing.T) *sparqlcore.Engine {
	t.Helper()
	st := store.NewMemStore()
	ctx := context.Background()

	people := []struct {
		local string
		name  string
		age   string
	}{
		{"alice", "Alice", "30"},
		{"bob", "Bob", "25"},
		{"charlie", "Charlie", "35"},
	}
	for _, p := range people {
		require.NoError(t, st.AddCurrent(ctx, iri(p.local), iri("name"), rdfterm.NewPlainLiteral(p.name), rdfterm.UnboundTerm))
		require.NoError(t, st.AddCurrent(ctx, iri(p.local), iri("age"), rdfterm.NewTypedLiteral(p.age, rdfterm.XSDInteger), rdfterm.UnboundTerm))
	}
	require.NoError(t, st.AddCurrent(ctx, iri("alice"), iri("knows"), iri("bob"), rdfterm.UnboundTerm))

	return sparqlcore.New(st, sparqlcore.DefaultConfig())
}

// NewSubsetEngine seeds the §8 nested-MINUS dataset: named sets a={1,2,3},
// b={1,9}, c={1,2}, d={1,9}, e={1,2}, empty={}, each set's members recorded
// as ex:member edges from a set resource to an integer-literal member.
func NewSubsetEngine(t *testing.T) *sparqlcore.Engine {
	t.Helper()
	st := store.NewMemStore()
	ctx := context.Background()

	sets := map[string][]string{
		"a":     {"1", "2", "3"},
		"b":     {"1", "9"},
		"c":     {"1", "2"},
		"d":     {"1", "9"},
		"e":     {"1", "2"},
		"empty": {},
	}
	for name, members := range sets {
		require.NoError(t, st.AddCurrent(ctx, iri(name), iri("isSet"), rdfterm.NewPlainLiteral("true"), rdfterm.UnboundTerm))
		for _, m := range members {
			require.NoError(t, st.AddCurrent(ctx, iri(name), iri("member"), rdfterm.NewTypedLiteral(m, rdfterm.XSDInteger), rdfterm.UnboundTerm))
		}
	}

	return sparqlcore.New(st, sparqlcore.DefaultConfig())
}
