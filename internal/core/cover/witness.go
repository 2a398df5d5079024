// Copyright 2023 The Tegula Authors
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

package cover

import (
	"tegula.dev/go/match/pattern"
	"tegula.dev/go/match/space"
)

// A tuple is one uncovered combination of values, one per matrix
// column. Unconstrained positions hold the any value.
type tuple = []*space.Value

// A row is one matrix row: the originating arm and one pattern per
// column.
type row struct {
	arm int
	ps  []*pattern.CPat
}

// rest drops the first pattern.
func (r row) rest() row {
	return row{arm: r.arm, ps: r.ps[1:]}
}

// flatten replaces the first pattern by the given expansion.
func (r row) flatten(expansion []*pattern.CPat) row {
	ps := make([]*pattern.CPat, 0, len(expansion)+len(r.ps)-1)
	ps = append(ps, expansion...)
	ps = append(ps, r.ps[1:]...)
	return row{arm: r.arm, ps: ps}
}

// widen replaces the first pattern by n wildcards.
func (r row) widen(n int) row {
	ps := make([]*pattern.CPat, 0, n+len(r.ps)-1)
	for i := 0; i < n; i++ {
		ps = append(ps, pattern.Wild)
	}
	ps = append(ps, r.ps[1:]...)
	return row{arm: r.arm, ps: ps}
}

func (r row) allWild() bool {
	for _, p := range r.ps {
		if p.K != pattern.CWild {
			return false
		}
	}
	return true
}

// anyTuple is the witness of an unconstrained matrix: any value in
// every column.
func anyTuple(n int) tuple {
	t := make(tuple, n)
	for i := range t {
		t[i] = space.AnyValue()
	}
	return t
}

// prepend builds a new tuple with v in front. The tail may be shared
// with memoized results and is copied, never aliased.
func prepend(v *space.Value, t tuple) tuple {
	out := make(tuple, 0, len(t)+1)
	out = append(out, v)
	return append(out, t...)
}
