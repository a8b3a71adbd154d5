package parser

import "gopkg.in/src-d/go-errors.v1"

// Error kinds raised by the parser, each an "ErrXxx = errors.NewKind(...)"
// value so callers can match on kind with errors.Is rather than string
// comparison.
var (
	// ErrSyntax is raised on malformed tokens or unbalanced braces; the
	// first argument is the offending byte offset.
	ErrSyntax = errors.NewKind("syntax error at offset %d: %s")

	// ErrUnknownPrefix is raised when a prefixed name's prefix was never
	// declared in the prologue.
	ErrUnknownPrefix = errors.NewKind("unknown prefix %q at offset %d")
)
