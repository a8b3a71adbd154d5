package exec

import (
	"context"

	"github.com/sparqlcore/engine/binding"
)

// distinctIter streams each row whose order-independent binding fingerprint
// hasn't been seen before, per the invariant that DISTINCT produces each
// row fingerprint at most once.
type distinctIter struct {
	src  RowIter
	seen map[uint64]bool
}

// NewDistinct wraps src so repeated fingerprints are suppressed.
func NewDistinct(src RowIter) RowIter {
	return &distinctIter{src: src, seen: map[uint64]bool{}}
}

func (it *distinctIter) Next(ctx context.Context) (*binding.Row, error) {
	for {
		row, err := it.src.Next(ctx)
		if err != nil {
			return nil, err
		}
		fp := row.Fingerprint()
		if it.seen[fp] {
			continue
		}
		it.seen[fp] = true
		return row, nil
	}
}

func (it *distinctIter) Close(ctx context.Context) error { return it.src.Close(ctx) }

// reducedIter drops consecutive duplicate fingerprints only, per REDUCED's
// memory-bounded allowance to skip the full seen-set while never inventing
// duplicates that weren't there.
type reducedIter struct {
	src      RowIter
	haveLast bool
	lastFP   uint64
}

// NewReduced wraps src with SPARQL REDUCED semantics.
func NewReduced(src RowIter) RowIter {
	return &reducedIter{src: src}
}

func (it *reducedIter) Next(ctx context.Context) (*binding.Row, error) {
	for {
		row, err := it.src.Next(ctx)
		if err != nil {
			return nil, err
		}
		fp := row.Fingerprint()
		if it.haveLast && fp == it.lastFP {
			continue
		}
		it.haveLast, it.lastFP = true, fp
		return row, nil
	}
}

func (it *reducedIter) Close(ctx context.Context) error { return it.src.Close(ctx) }
