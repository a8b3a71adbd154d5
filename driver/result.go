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

package driver

import "errors"

// Result is the result of an Exec call against an update form.
type Result struct {
	affected int64
}

// LastInsertId is unsupported: quads have no auto-increment identity.
func (r *Result) LastInsertId() (int64, error) {
	return 0, errors.New("sparqlcore driver: no insert id")
}

// RowsAffected returns the number of quads the statement added.
func (r *Result) RowsAffected() (int64, error) {
	return r.affected, nil
}
