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

package sparqlcore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine"
	"github.com/sparqlcore/engine/rdfterm"
	"github.com/sparqlcore/engine/testharness"
)

func TestQueryAsk(t *testing.T) {
	eng := testharness.NewPeopleEngine(t)
	defer eng.Close()

	res := eng.Query(context.Background(), testharness.Prologue+
		"ASK { ?s ex:name \"Alice\" }")
	require.True(t, res.Success)
	require.Equal(t, sparqlcore.ResultAsk, res.Kind)
	require.True(t, res.AskResult)

	res = eng.Query(context.Background(), testharness.Prologue+
		"ASK { ?s ex:name \"Nobody\" }")
	require.True(t, res.Success)
	require.False(t, res.AskResult)
}

func TestQueryConstruct(t *testing.T) {
	eng := testharness.NewPeopleEngine(t)
	defer eng.Close()

	res := eng.Query(context.Background(), testharness.Prologue+
		`CONSTRUCT { ?s ex:label ?n } WHERE { ?s ex:name ?n }`)
	require.True(t, res.Success)
	require.Equal(t, sparqlcore.ResultConstruct, res.Kind)
	require.Len(t, res.Triples, 3)
	for _, q := range res.Triples {
		require.Equal(t, "<http://example.org/label>", q.Predicate.String())
		require.True(t, q.IsCurrent())
	}
}

func TestQueryDescribe(t *testing.T) {
	eng := testharness.NewPeopleEngine(t)
	defer eng.Close()

	res := eng.Query(context.Background(), testharness.Prologue+
		"DESCRIBE <http://example.org/alice>")
	require.True(t, res.Success)
	require.Equal(t, sparqlcore.ResultDescribe, res.Kind)
	require.Len(t, res.Triples, 3) // ex:name, ex:age, ex:knows
}

func TestParseError(t *testing.T) {
	eng := testharness.NewPeopleEngine(t)
	defer eng.Close()

	res := eng.Query(context.Background(), "SELECT ?x WHERE { ")
	require.False(t, res.Success)
	require.Equal(t, sparqlcore.ResultError, res.Kind)
	require.NotEmpty(t, res.Message)
}

func TestTotalTimeSumsParseAndExecution(t *testing.T) {
	eng := testharness.NewPeopleEngine(t)
	defer eng.Close()

	res := eng.Query(context.Background(), testharness.Prologue+"SELECT ?s WHERE { ?s ex:name ?n }")
	require.True(t, res.Success)
	require.Equal(t, res.ParseTime+res.ExecutionTime, res.TotalTime())
}

func TestAddCurrentIsIdempotent(t *testing.T) {
	eng := sparqlcore.NewDefault()
	defer eng.Close()
	ctx := context.Background()

	s := rdfterm.NewIRI("http://example.org/x")
	p := rdfterm.NewIRI("http://example.org/y")
	o := rdfterm.NewPlainLiteral("z")

	require.NoError(t, eng.Store.AddCurrent(ctx, s, p, o, rdfterm.UnboundTerm))
	require.NoError(t, eng.Store.AddCurrent(ctx, s, p, o, rdfterm.UnboundTerm))

	res := eng.Query(ctx, "SELECT (COUNT(?o) AS ?c) WHERE { <http://example.org/x> <http://example.org/y> ?o }")
	require.True(t, res.Success)
	require.Equal(t, `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`, res.Rows[0].GetString(0))
}

func TestCountDistinctNeverExceedsCount(t *testing.T) {
	eng := testharness.NewSubsetEngine(t)
	defer eng.Close()

	total := eng.Query(context.Background(), testharness.Prologue+
		"SELECT (COUNT(?m) AS ?c) WHERE { ?s ex:member ?m }")
	distinct := eng.Query(context.Background(), testharness.Prologue+
		"SELECT (COUNT(DISTINCT ?m) AS ?c) WHERE { ?s ex:member ?m }")
	require.True(t, total.Success)
	require.True(t, distinct.Success)
	require.Equal(t, `"11"^^<http://www.w3.org/2001/XMLSchema#integer>`, total.Rows[0].GetString(0))
	require.Equal(t, `"4"^^<http://www.w3.org/2001/XMLSchema#integer>`, distinct.Rows[0].GetString(0))
}
