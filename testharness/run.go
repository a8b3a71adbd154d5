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

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine"
)

// Run executes tc.Query against eng and asserts its SELECT rows match
// tc.Expected, ignoring row order (queries without ORDER BY make no
// ordering promise).
func Run(t *testing.T, eng *sparqlcore.Engine, tc QueryTest) {
	t.Helper()
	res := eng.Query(context.Background(), tc.Query)
	require.Truef(t, res.Success, "%s: %s", tc.Name, res.Message)
	require.Equal(t, sparqlcore.ResultSelect, res.Kind, tc.Name)

	got := make([][]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		cells := make([]string, len(res.Variables))
		for i, v := range res.Variables {
			if val, ok := row.Get(v); ok {
				cells[i] = val.String()
			}
		}
		got = append(got, cells)
	}

	sortRows(got)
	want := make([][]string, len(tc.Expected))
	copy(want, tc.Expected)
	sortRows(want)

	require.Equal(t, want, got, tc.Name)
}

func sortRows(rows [][]string) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}
