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

// Package regex provides a pluggable REGEX engine registry for the FILTER
// REGEX(...) function. Engines are registered by name; the default engine
// is the one SPARQL's F&O REGEX semantics require (XPath-style
// backtracking), with a stdlib RE2 engine available as a faster
// non-backtracking alternative where tests don't depend on backreferences.
package regex

import (
	"sort"
	"sync"

	"gopkg.in/src-d/go-errors.v1"
)

// Matcher runs a compiled pattern against input text.
type Matcher interface {
	Match(s string) bool
}

// Disposer releases resources held by a Matcher.
type Disposer interface {
	Dispose()
}

// Constructor compiles pattern (with optional inline flags already applied
// by the caller) into a (Matcher, Disposer) pair.
type Constructor func(pattern string) (Matcher, Disposer, error)

var (
	// ErrRegexNameEmpty is raised by Register given an empty engine name.
	ErrRegexNameEmpty = errors.NewKind("regex engine name cannot be empty")

	// ErrRegexNotFound is raised by New given an unregistered engine name.
	ErrRegexNotFound = errors.NewKind("regex engine %q is not registered")
)

var (
	mu       sync.Mutex
	registry = map[string]Constructor{}
	defName  string
)

func init() {
	Register("xpath", newXPathMatcher)
	Register("re2", newRE2Matcher)
	defName = "xpath"
}

// Register adds a named engine constructor. Re-registering an existing
// name overwrites it.
func Register(name string, c Constructor) error {
	if name == "" {
		return ErrRegexNameEmpty.New()
	}
	mu.Lock()
	defer mu.Unlock()
	registry[name] = c
	return nil
}

// Engines lists every registered engine name, sorted for deterministic
// iteration in callers and tests.
func Engines() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default returns the currently selected default engine name.
func Default() string {
	mu.Lock()
	defer mu.Unlock()
	return defName
}

// SetDefault changes the default engine; an empty name resets it to
// "xpath".
func SetDefault(name string) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" {
		defName = "xpath"
		return
	}
	defName = name
}

// New compiles pattern using the named engine.
func New(name, pattern string) (Matcher, Disposer, error) {
	mu.Lock()
	c, ok := registry[name]
	mu.Unlock()
	if !ok {
		return nil, nil, ErrRegexNotFound.New(name)
	}
	return c(pattern)
}
