package binding

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns an order-independent hash of the row's bindings,
// used by exec.Distinct to decide "each row fingerprint at most once"
// without materializing a string key for every comparison.
func (r *Row) Fingerprint() uint64 {
	parts := make([]string, len(r.entries))
	for i, e := range r.entries {
		parts[i] = e.name + "=" + string(e.value.Kind.String()[0]) + e.value.Lexical + "^" + e.value.Datatype + "@" + e.value.Lang
	}
	sort.Strings(parts)

	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.WriteString("\x00")
	}
	_, _ = d.WriteString(strconv.Itoa(len(parts)))
	return d.Sum64()
}
