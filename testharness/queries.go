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

package testharness

// QueryTest is one seed scenario: a query run against its harness's
// engine, and the expected projected rows in variable order. Row order
// within Expected doesn't matter for queries without ORDER BY — Run sorts
// both sides before comparing.
type QueryTest struct {
	Name     string
	Query    string
	Expected [][]string
}

// PeopleQueryTests exercises the "Alice 30, Bob 25, Charlie 35" dataset
// against NewPeopleEngine.
var PeopleQueryTests = []QueryTest{
	{
		Name:     "names",
		Query:    Prologue + "SELECT ?s WHERE { ?s ex:name ?n }",
		Expected: [][]string{{"<http://example.org/alice>"}, {"<http://example.org/bob>"}, {"<http://example.org/charlie>"}},
	},
	{
		Name:     "age filter excludes all",
		Query:    Prologue + "SELECT ?s WHERE { ?s ex:age ?a . FILTER(?a > 100) }",
		Expected: nil,
	},
	{
		Name:     "count all objects",
		Query:    Prologue + "SELECT (COUNT(?o) AS ?c) WHERE { ?s ?p ?o }",
		Expected: [][]string{{`"7"^^<http://www.w3.org/2001/XMLSchema#integer>`}},
	},
	{
		Name:  "group by predicate having frequent",
		Query: Prologue + "SELECT ?p (COUNT(?o) AS ?c) WHERE { ?s ?p ?o } GROUP BY ?p HAVING (?c >= 3)",
		Expected: [][]string{
			{"<http://example.org/name>", `"3"^^<http://www.w3.org/2001/XMLSchema#integer>`},
			{"<http://example.org/age>", `"3"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		},
	},
	{
		Name:     "people who know no one",
		Query:    Prologue + "SELECT ?person WHERE { ?person ex:name ?n . FILTER NOT EXISTS { ?person ex:knows ?x } }",
		Expected: [][]string{{"<http://example.org/bob>"}, {"<http://example.org/charlie>"}},
	},
	{
		Name:     "average over nonexistent predicate is zero",
		Query:    Prologue + "SELECT (AVG(?o) AS ?avg) WHERE { ?s <http://example.org/nonexistent> ?o }",
		Expected: [][]string{{`"0"^^<http://www.w3.org/2001/XMLSchema#integer>`}},
	},
}

// SubsetQueryTests exercises nested MINUS and FILTER EXISTS against the
// a/b/c/d/e/empty member-set dataset seeded by NewSubsetEngine.
var SubsetQueryTests = []QueryTest{
	{
		Name: "proper subset pairs",
		Query: Prologue + `SELECT ?x ?y WHERE {
			?x ex:isSet ?xflag . ?y ex:isSet ?yflag .
			FILTER(?x != ?y)
			MINUS {
				?x ex:member ?m .
				MINUS { ?y ex:member ?m }
			}
			FILTER EXISTS {
				?y ex:member ?m2 .
				MINUS { ?x ex:member ?m2 }
			}
		}`,
		Expected: [][]string{
			{"<http://example.org/empty>", "<http://example.org/a>"},
			{"<http://example.org/empty>", "<http://example.org/b>"},
			{"<http://example.org/empty>", "<http://example.org/c>"},
			{"<http://example.org/empty>", "<http://example.org/d>"},
			{"<http://example.org/empty>", "<http://example.org/e>"},
			{"<http://example.org/c>", "<http://example.org/a>"},
			{"<http://example.org/e>", "<http://example.org/a>"},
		},
	},
}
