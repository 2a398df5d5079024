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

package space

const (
	eqTrue int8 = 1 + iota
	eqFalse
)

// StructuralEq reports whether equality on s is deep structural: defined
// as field-wise comparison, recursively, terminating at Bool and Unit
// fields. Only then does a whole-value literal pattern over s cover
// exactly the values its constant describes, so only then may such a
// literal be credited with coverage.
//
// Unit and Bool are structural. A Product is structural when it is
// declared with DerivedEq and all of its fields are. Nothing else is:
// scalar and opaque domains sit behind equality operators the checker
// cannot inspect, and enum and sum representations admit escape values
// and custom comparisons. A custom equality that happens to behave
// field-wise still reports false; declared semantics decide, not
// observed behavior.
//
// Results are memoized on the Context. Self-referential products are
// resolved coinductively: a cycle that reaches itself without passing a
// non-structural component reports true.
func (c *Context) StructuralEq(s Space) bool {
	switch x := s.(type) {
	case *Unit, *Bool:
		return true
	case *Product:
		switch c.eqMemo[x] {
		case eqTrue:
			return true
		case eqFalse:
			return false
		}
		r := eqFalse
		if c.structuralVisit(x, nil) {
			r = eqTrue
		}
		if c.eqMemo == nil {
			c.eqMemo = map[*Product]int8{}
		}
		// Commit only the root of the traversal. Results for products
		// visited along the way may depend on the coinductive assumption
		// for a cycle still open at that point and cannot be reused.
		c.eqMemo[x] = r
		return r == eqTrue
	}
	return false
}

func (c *Context) structuralVisit(p *Product, seen map[*Product]bool) bool {
	if p.eq != DerivedEq {
		return false
	}
	switch c.eqMemo[p] {
	case eqTrue:
		return true
	case eqFalse:
		return false
	}
	if seen[p] {
		return true
	}
	if seen == nil {
		seen = map[*Product]bool{}
	}
	seen[p] = true
	for i := 0; i < p.Len(); i++ {
		switch f := p.Field(i).(type) {
		case *Unit, *Bool:
		case *Product:
			if !c.structuralVisit(f, seen) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
