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

// Package binding holds the partial-solution row representation shared by
// every streaming operator: an ordered list of (variable hash, value)
// pairs, preserving insertion order for SELECT stability.
package binding

import "github.com/sparqlcore/engine/rdfterm"

// entry pairs a variable's hash and source name with its bound value.
type entry struct {
	hash  VarHash
	name  string
	value rdfterm.Term
}

// Row is an ordered partial solution. The zero value is an empty row.
type Row struct {
	entries []entry
}

// NewRow creates an empty binding row.
func NewRow() *Row {
	return &Row{}
}

// Count returns the number of bound variables in the row.
func (r *Row) Count() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// FindBinding returns the index of name in the row, or -1 if unbound.
// Repeated calls with the same name on the same row always return the same
// index.
func (r *Row) FindBinding(name string) int {
	if r == nil {
		return -1
	}
	h := HashVar(name)
	for i, e := range r.entries {
		if e.hash == h && e.name == name {
			return i
		}
	}
	return -1
}

// NameAt returns the variable name stored at index i.
func (r *Row) NameAt(i int) string {
	return r.entries[i].name
}

// ValueAt returns the bound term at index i.
func (r *Row) ValueAt(i int) rdfterm.Term {
	return r.entries[i].value
}

// Get returns the value bound to name and whether it was present.
func (r *Row) Get(name string) (rdfterm.Term, bool) {
	i := r.FindBinding(name)
	if i < 0 {
		return rdfterm.UnboundTerm, false
	}
	return r.entries[i].value, true
}

// GetString returns the lexical/decorated string form of the value at
// index, or "" if index is out of range.
func (r *Row) GetString(index int) string {
	if index < 0 || index >= r.Count() {
		return ""
	}
	return r.entries[index].value.String()
}

// GetType returns the Kind bound at index, or Unbound if out of range.
func (r *Row) GetType(index int) rdfterm.Kind {
	if index < 0 || index >= r.Count() {
		return rdfterm.Unbound
	}
	return r.entries[index].value.Kind
}

// With returns a new row extending r with name bound to value. If name is
// already bound, its value is overwritten in place (insertion order is
// preserved for the pre-existing entries).
func (r *Row) With(name string, value rdfterm.Term) *Row {
	out := r.Clone()
	if i := out.FindBinding(name); i >= 0 {
		out.entries[i].value = value
		return out
	}
	out.entries = append(out.entries, entry{hash: HashVar(name), name: name, value: value})
	return out
}

// Clone deep-copies the row's entry list so mutation of the copy never
// affects the original (operators own their own scratch rows, per the
// lifecycle rule that materialization copies values out).
func (r *Row) Clone() *Row {
	if r == nil {
		return NewRow()
	}
	out := &Row{entries: make([]entry, len(r.entries))}
	copy(out.entries, r.entries)
	return out
}

// Merge combines r and other into a new row, returning (merged, true) if
// every variable shared between the two rows carries an equal value, or
// (nil, false) if any shared variable conflicts — the join-compatibility
// test used throughout exec.
func (r *Row) Merge(other *Row) (*Row, bool) {
	out := r.Clone()
	for _, e := range other.entries {
		if i := out.FindBinding(e.name); i >= 0 {
			if !out.entries[i].value.Equals(e.value) {
				return nil, false
			}
			continue
		}
		out.entries = append(out.entries, e)
	}
	return out, true
}

// SharesConflict reports whether r and other bind at least one common
// variable (sharesAny) and whether every common variable carries an equal
// value in both rows (allCompatible); MINUS uses the pair to decide whether
// two rows are "compatible" under SPARQL 1.1 semantics.
func (r *Row) SharesConflict(other *Row) (sharesAny bool, allCompatible bool) {
	allCompatible = true
	for _, e := range other.entries {
		if v, ok := r.Get(e.name); ok {
			sharesAny = true
			if !v.Equals(e.value) {
				allCompatible = false
			}
		}
	}
	return sharesAny, allCompatible
}

// Names returns the bound variable names in insertion order.
func (r *Row) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}
