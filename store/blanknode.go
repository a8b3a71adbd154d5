package store

import (
	uuid "github.com/satori/go.uuid"
)

// NewBlankNodeID generates a fresh, collision-free blank node label for
// CONSTRUCT templates and parser-synthesized blank nodes ("[]", "_:b0")
// that need an identity unique across the whole store, not just within one
// query's local scope.
func NewBlankNodeID() string {
	id, err := uuid.NewV4()
	if err != nil {
		panic(err)
	}
	return "b" + id.String()
}
