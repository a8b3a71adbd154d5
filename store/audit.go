package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sparqlcore/engine/auth"
	"github.com/sparqlcore/engine/rdfterm"
)

// AuditingStore wraps a QuadStore, gating every operation on auth.Auth and
// logging it via logrus. Its scan/write methods take an extra
// *auth.RequestContext argument the plain QuadStore interface doesn't have,
// so AuditingStore is used directly by callers that need the gate, not
// behind the QuadStore interface itself.
type AuditingStore struct {
	QuadStore
	Auth auth.Auth
	Log  *logrus.Entry
}

// NewAuditingStore wraps inner with permission checks and structured
// logging of every scan and write.
func NewAuditingStore(inner QuadStore, a auth.Auth, log *logrus.Logger) *AuditingStore {
	return &AuditingStore{
		QuadStore: inner,
		Auth:      a,
		Log:       log.WithField("system", "store"),
	}
}

// QueryCurrent requires ReadPerm before delegating to the wrapped store.
func (s *AuditingStore) QueryCurrent(ctx context.Context, reqCtx *auth.RequestContext, subj, pred, obj, graph *rdfterm.Term) (Cursor, error) {
	if err := s.Auth.Allowed(reqCtx, auth.ReadPerm); err != nil {
		s.Log.WithField("action", "scan").WithField("user", reqCtx.User).WithField("err", err).Warn("denied")
		return nil, err
	}
	s.Log.WithField("action", "scan").WithField("user", reqCtx.User).Debug("allowed")
	return s.QuadStore.QueryCurrent(ctx, subj, pred, obj, graph)
}

// AddCurrent requires WritePerm before delegating to the wrapped store.
func (s *AuditingStore) AddCurrent(ctx context.Context, reqCtx *auth.RequestContext, subj, pred, obj, graph rdfterm.Term) error {
	if err := s.Auth.Allowed(reqCtx, auth.WritePerm); err != nil {
		s.Log.WithField("action", "add").WithField("user", reqCtx.User).WithField("err", err).Warn("denied")
		return err
	}
	s.Log.WithField("action", "add").WithField("user", reqCtx.User).Debug("allowed")
	return s.QuadStore.AddCurrent(ctx, subj, pred, obj, graph)
}

// BeginBatch requires WritePerm before delegating to the wrapped store.
func (s *AuditingStore) BeginBatch(ctx context.Context, reqCtx *auth.RequestContext) (Batch, error) {
	if err := s.Auth.Allowed(reqCtx, auth.WritePerm); err != nil {
		s.Log.WithField("action", "batch").WithField("user", reqCtx.User).WithField("err", err).Warn("denied")
		return nil, err
	}
	return s.QuadStore.BeginBatch(ctx)
}
