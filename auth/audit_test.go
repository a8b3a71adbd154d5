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
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine/auth"
)

type Authorization struct {
	ctx *auth.RequestContext
	p   auth.Permission
	err error
}

type Query struct {
	ctx *auth.RequestContext
	d   time.Duration
	err error
}

type auditTest struct {
	authorization Authorization
	query         Query
}

func (a *auditTest) Authorization(ctx *auth.RequestContext, p auth.Permission, err error) {
	a.authorization = Authorization{ctx: ctx, p: p, err: err}
}

func (a *auditTest) Query(ctx *auth.RequestContext, d time.Duration, err error) {
	a.query = Query{ctx: ctx, d: d, err: err}
}

func TestAuditAuthorization(t *testing.T) {
	a := auth.NewNativeSingle("user", "", auth.ReadPerm)
	at := new(auditTest)
	audit := auth.NewAudit(a, at)

	tests := []permissionTest{
		{"user", queries["select"], auth.ReadPerm, true},
		{"user", queries["insert"], auth.WritePerm, false},
		{"other", queries["select"], auth.ReadPerm, false},
	}

	extra := func(t *testing.T, c permissionTest, err error) {
		require := require.New(t)
		require.Equal(c.user, at.authorization.ctx.User)
		require.Equal(c.need, at.authorization.p)
		if c.success {
			require.NoError(at.authorization.err)
		} else {
			require.Error(at.authorization.err)
		}
	}

	testPermission(t, audit, tests, extra)
}

func TestAuditLog(t *testing.T) {
	require := require.New(t)

	logger, hook := test.NewNullLogger()
	l := auth.NewAuditLog(logger)

	ctx := &auth.RequestContext{User: "user", Address: "client", Query: "query", RequestID: 42}

	l.Authorization(ctx, auth.ReadPerm, nil)
	e := hook.LastEntry()
	require.NotNil(e)
	require.Equal(logrus.InfoLevel, e.Level)
	m := logrus.Fields{
		"system":     "audit",
		"action":     "authorization",
		"permission": auth.ReadPerm.String(),
		"user":       "user",
		"query":      "query",
		"address":    "client",
		"request_id": uint32(42),
		"success":    true,
	}
	require.Equal(m, e.Data)

	err := auth.ErrNoPermission.New(auth.ReadPerm)
	l.Authorization(ctx, auth.ReadPerm, err)
	e = hook.LastEntry()
	m["success"] = false
	m["err"] = err
	require.Equal(m, e.Data)

	l.Query(ctx, 808*time.Second, nil)
	e = hook.LastEntry()
	require.NotNil(e)
	require.Equal(logrus.InfoLevel, e.Level)
	m = logrus.Fields{
		"system":     "audit",
		"action":     "query",
		"duration":   808 * time.Second,
		"user":       "user",
		"query":      "query",
		"address":    "client",
		"request_id": uint32(42),
		"success":    true,
	}
	require.Equal(m, e.Data)

	l.Query(ctx, 808*time.Second, err)
	e = hook.LastEntry()
	m["success"] = false
	m["err"] = err
	require.Equal(m, e.Data)
}
