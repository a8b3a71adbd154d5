package store

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine/rdfterm"
)

func TestAddCurrentIdempotent(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	ctx := context.Background()

	subj := rdfterm.NewIRI("http://ex/alice")
	pred := rdfterm.NewIRI("http://ex/knows")
	obj := rdfterm.NewIRI("http://ex/bob")

	require.NoError(s.AddCurrent(ctx, subj, pred, obj, rdfterm.Term{}))
	require.NoError(s.AddCurrent(ctx, subj, pred, obj, rdfterm.Term{}))
	require.Equal(1, s.Len())
}

func TestQueryCurrentScan(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	ctx := context.Background()

	alice := rdfterm.NewIRI("http://ex/alice")
	bob := rdfterm.NewIRI("http://ex/bob")
	knows := rdfterm.NewIRI("http://ex/knows")
	likes := rdfterm.NewIRI("http://ex/likes")

	require.NoError(s.AddCurrent(ctx, alice, knows, bob, rdfterm.Term{}))
	require.NoError(s.AddCurrent(ctx, alice, likes, bob, rdfterm.Term{}))

	s.AcquireReadLock()
	defer s.ReleaseReadLock()

	cur, err := s.QueryCurrent(ctx, &alice, nil, nil, nil)
	require.NoError(err)
	defer cur.Close(ctx)

	var got []rdfterm.Quad
	for {
		q, err := cur.Next(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(err)
		got = append(got, q)
	}
	require.Len(got, 2)
}

func TestBatchCommitAtomic(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	ctx := context.Background()

	b, err := s.BeginBatch(ctx)
	require.NoError(err)

	alice := rdfterm.NewIRI("http://ex/alice")
	knows := rdfterm.NewIRI("http://ex/knows")
	bob := rdfterm.NewIRI("http://ex/bob")

	require.NoError(b.AddCurrentBatched(alice, knows, bob, rdfterm.Term{}))
	require.Equal(0, s.Len(), "pending adds must not be visible before commit")
	require.NoError(b.CommitBatch(ctx))
	require.Equal(1, s.Len())
}

func TestBatchRejectsInvalidTriple(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	ctx := context.Background()

	b, err := s.BeginBatch(ctx)
	require.NoError(err)

	literalSubject := rdfterm.NewPlainLiteral("not a subject")
	pred := rdfterm.NewIRI("http://ex/knows")
	obj := rdfterm.NewIRI("http://ex/bob")

	err = b.AddCurrentBatched(literalSubject, pred, obj, rdfterm.Term{})
	require.Error(err)
	require.Error(b.CommitBatch(ctx))
}
