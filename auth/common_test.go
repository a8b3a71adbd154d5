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

package auth_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine/auth"
)

// permissionTest exercises Allowed directly against a RequestContext,
// without a wire-protocol handshake in front of it.
type permissionTest struct {
	user    string
	query   string
	need    auth.Permission
	success bool
}

var queries = map[string]string{
	"select": "SELECT * WHERE { ?s ?p ?o }",
	"insert": "INSERT DATA { <urn:s> <urn:p> <urn:o> }",
}

func testPermission(
	t *testing.T,
	a auth.Auth,
	tests []permissionTest,
	extra func(t *testing.T, c permissionTest, err error),
) {
	t.Helper()
	for i, c := range tests {
		t.Run(fmt.Sprintf("%s-%s", c.user, c.query), func(t *testing.T) {
			require := require.New(t)
			ctx := &auth.RequestContext{
				User:      c.user,
				Address:   "client",
				Query:     c.query,
				RequestID: uint32(i),
			}

			err := a.Allowed(ctx, c.need)
			if c.success {
				require.NoError(err)
			} else {
				require.Error(err)
			}

			if extra != nil {
				extra(t, c, err)
			}
		})
	}
}
