package store

import (
	"context"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/sparqlcore/engine/rdfterm"
)

// ErrInvalidTriple is raised when a quad's subject isn't an IRI/blank node
// or its predicate isn't an IRI.
var ErrInvalidTriple = errors.NewKind("invalid triple: subject %s predicate %s")

func validateTriple(subj, pred rdfterm.Term) error {
	if subj.Kind != rdfterm.IRI && subj.Kind != rdfterm.BlankNode {
		return ErrInvalidTriple.New(subj.String(), pred.String())
	}
	if pred.Kind != rdfterm.IRI {
		return ErrInvalidTriple.New(subj.String(), pred.String())
	}
	return nil
}

// MemStore is an in-memory QuadStore: an append-only quad log plus the
// rwGate coordination described in §5. Scans walk the log in insertion
// order, which is the store's "natural index order" for this reference
// implementation.
type MemStore struct {
	rwGate
	mu    sync.Mutex // guards the quads slice itself against concurrent writers
	quads []rdfterm.Quad
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func termPtr(t *rdfterm.Term, q rdfterm.Term) bool {
	return t == nil || !t.IsBound() || t.Equals(q)
}

// QueryCurrent scans the current-valid (ValidTo == rdfterm.PosInf) quads
// matching the given bind-positions; nil or unbound positions mean "any".
func (s *MemStore) QueryCurrent(ctx context.Context, subj, pred, obj, graph *rdfterm.Term) (Cursor, error) {
	if s.isClosed() {
		return nil, ErrClosed.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]rdfterm.Quad, 0, len(s.quads))
	for _, q := range s.quads {
		if !q.IsCurrent() {
			continue
		}
		if !termPtr(subj, q.Subject) || !termPtr(pred, q.Predicate) || !termPtr(obj, q.Object) {
			continue
		}
		if graph != nil && graph.IsBound() && !graph.Equals(q.Graph) {
			continue
		}
		matches = append(matches, q)
	}
	return &sliceCursor{items: matches}, nil
}

// AddCurrent adds a current-valid quad outside a batch. Per §4.7, adding an
// identical (s,p,o[,graph]) that's already current is a no-op and never
// shortens an existing entry's validity.
func (s *MemStore) AddCurrent(ctx context.Context, subj, pred, obj rdfterm.Term, graph rdfterm.Term) error {
	if s.isClosed() {
		return ErrClosed.New()
	}
	if err := validateTriple(subj, pred); err != nil {
		return err
	}
	s.AcquireWriteLock()
	defer s.ReleaseWriteLock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(subj, pred, obj, graph)
	return nil
}

func (s *MemStore) addLocked(subj, pred, obj, graph rdfterm.Term) {
	for _, q := range s.quads {
		if q.IsCurrent() && q.Subject.Equals(subj) && q.Predicate.Equals(pred) &&
			q.Object.Equals(obj) && q.Graph.Equals(graph) {
			return
		}
	}
	s.quads = append(s.quads, rdfterm.Quad{
		Subject: subj, Predicate: pred, Object: obj, Graph: graph,
		ValidFrom: 0, ValidTo: rdfterm.PosInf,
	})
}

// BeginBatch starts a bulk-write transaction. Adds are buffered and
// published atomically by CommitBatch.
func (s *MemStore) BeginBatch(ctx context.Context) (Batch, error) {
	if s.isClosed() {
		return nil, ErrClosed.New()
	}
	return &memBatch{store: s}, nil
}

// Close marks the store closed; further operations return ErrClosed.
func (s *MemStore) Close() error {
	s.markClosed()
	return nil
}

// Len reports the total number of quads ever added, including superseded
// (non-current) ones — useful for tests and diagnostics.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quads)
}

type memBatch struct {
	store   *MemStore
	pending []rdfterm.Quad
	done    bool
	invalid *multierror.Error
}

func (b *memBatch) AddCurrentBatched(subj, pred, obj, graph rdfterm.Term) error {
	if b.done {
		return ErrClosed.New()
	}
	if err := validateTriple(subj, pred); err != nil {
		b.invalid = multierror.Append(b.invalid, err)
		return err
	}
	b.pending = append(b.pending, rdfterm.Quad{
		Subject: subj, Predicate: pred, Object: obj, Graph: graph,
		ValidFrom: 0, ValidTo: rdfterm.PosInf,
	})
	return nil
}

// CommitBatch publishes every pending add atomically under the store's
// exclusive write path. If any AddCurrentBatched call rejected a quad, the
// batch is not published and the accumulated go-multierror is returned.
func (b *memBatch) CommitBatch(ctx context.Context) error {
	if b.done {
		return ErrClosed.New()
	}
	b.done = true
	if b.invalid != nil {
		return b.invalid
	}
	b.store.AcquireWriteLock()
	defer b.store.ReleaseWriteLock()
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, q := range b.pending {
		b.store.addLocked(q.Subject, q.Predicate, q.Object, q.Graph)
	}
	return nil
}

func (b *memBatch) Abort() error {
	b.done = true
	b.pending = nil
	return nil
}

type sliceCursor struct {
	items []rdfterm.Quad
	pos   int
}

func (c *sliceCursor) Next(ctx context.Context) (rdfterm.Quad, error) {
	if c.pos >= len(c.items) {
		return rdfterm.Quad{}, io.EOF
	}
	q := c.items[c.pos]
	c.pos++
	return q, nil
}

func (c *sliceCursor) Close(ctx context.Context) error {
	c.items = nil
	return nil
}
