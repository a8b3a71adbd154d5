package binding

import "hash/fnv"

// VarHash is the stable 32-bit hash identity of a SPARQL variable, computed
// with FNV-1a over the "?name" spelling. FindBinding must return the same
// index across repeated calls for the same row, so this hash is kept on
// the standard library's hash/fnv deliberately: this is the one hash in the
// engine whose exact algorithm is a contract, not an implementation detail
// to optimize.
type VarHash uint32

// HashVar computes the VarHash of a variable name (without the leading '?').
func HashVar(name string) VarHash {
	h := fnv.New32a()
	_, _ = h.Write([]byte{'?'})
	_, _ = h.Write([]byte(name))
	return VarHash(h.Sum32())
}
