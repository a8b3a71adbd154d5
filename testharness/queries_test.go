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

package testharness

import "testing"

func TestPeopleQueries(t *testing.T) {
	eng := NewPeopleEngine(t)
	defer eng.Close()

	for _, tc := range PeopleQueryTests {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			Run(t, eng, tc)
		})
	}
}

func TestSubsetQueries(t *testing.T) {
	eng := NewSubsetEngine(t)
	defer eng.Close()

	for _, tc := range SubsetQueryTests {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			Run(t, eng, tc)
		})
	}
}
