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

package auth

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditMethod is called to log the audit trail of actions against the
// store.
type AuditMethod interface {
	// Authorization logs an authorization event.
	Authorization(ctx *RequestContext, p Permission, err error)
	// Query logs a query execution.
	Query(ctx *RequestContext, d time.Duration, err error)
}

// NewAudit creates a wrapped Auth that sends audit trails to the specified
// method.
func NewAudit(auth Auth, method AuditMethod) Auth {
	return &Audit{
		auth:   auth,
		method: method,
	}
}

// Audit is an Auth method proxy that sends audit trails to the specified
// AuditMethod.
type Audit struct {
	auth   Auth
	method AuditMethod
}

// Allowed implements Auth.
func (a *Audit) Allowed(ctx *RequestContext, permission Permission) error {
	err := a.auth.Allowed(ctx, permission)
	a.method.Authorization(ctx, permission, err)

	return err
}

// Query records a query's outcome in the audit trail for a caller that
// reports one. Engine.Query does not call it; the engine only routes its
// Allowed check through Audit.
func (a *Audit) Query(ctx *RequestContext, d time.Duration, err error) {
	a.method.Query(ctx, d, err)
}

// NewAuditLog creates a new AuditMethod that logs to a logrus.Logger.
func NewAuditLog(l *logrus.Logger) AuditMethod {
	la := l.WithField("system", "audit")

	return &AuditLog{
		log: la,
	}
}

const auditLogMessage = "audit trail"

// AuditLog logs audit trails to a logrus.Logger.
type AuditLog struct {
	log *logrus.Entry
}

func auditInfo(ctx *RequestContext, err error) logrus.Fields {
	fields := logrus.Fields{
		"user":       ctx.User,
		"query":      ctx.Query,
		"address":    ctx.Address,
		"request_id": ctx.RequestID,
		"success":    true,
	}

	if err != nil {
		fields["success"] = false
		fields["err"] = err
	}

	return fields
}

// Authorization implements AuditMethod.
func (a *AuditLog) Authorization(ctx *RequestContext, p Permission, err error) {
	fields := auditInfo(ctx, err)
	fields["action"] = "authorization"
	fields["permission"] = p.String()

	a.log.WithFields(fields).Info(auditLogMessage)
}

// Query implements AuditMethod.
func (a *AuditLog) Query(ctx *RequestContext, d time.Duration, err error) {
	fields := auditInfo(ctx, err)
	fields["action"] = "query"
	fields["duration"] = d

	a.log.WithFields(fields).Info(auditLogMessage)
}
