package exec

import (
	"context"
	"io"

	"github.com/sparqlcore/engine/binding"
)

// limitOffsetIter skips offset rows, then emits at most limit rows; limit
// of -1 means unlimited.
type limitOffsetIter struct {
	src     RowIter
	offset  int
	limit   int
	skipped int
	emitted int
}

// LimitOffset wraps src with LIMIT/OFFSET semantics.
func LimitOffset(src RowIter, offset, limit int) RowIter {
	if offset <= 0 && limit < 0 {
		return src
	}
	return &limitOffsetIter{src: src, offset: offset, limit: limit}
}

func (it *limitOffsetIter) Next(ctx context.Context) (*binding.Row, error) {
	if it.limit >= 0 && it.emitted >= it.limit {
		return nil, io.EOF
	}
	for it.skipped < it.offset {
		if _, err := it.src.Next(ctx); err != nil {
			return nil, err
		}
		it.skipped++
	}
	row, err := it.src.Next(ctx)
	if err != nil {
		return nil, err
	}
	it.emitted++
	return row, nil
}

func (it *limitOffsetIter) Close(ctx context.Context) error { return it.src.Close(ctx) }
