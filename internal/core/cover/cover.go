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

// Package cover decides whether a set of pattern rows covers every value
// of a space, and produces witnesses for the values left over.
//
// The computation works on a matrix: a list of column spaces and, per
// row, one pattern for each column. It starts as the single scrutinee
// column and one row per arm. At each step the first column is split
// into its cases: both boolean values, every declared enum tag or sum
// alternative, the single unit or product case, or one symbolic case for
// domains that cannot be enumerated. For each case the matrix is
// specialized: rows that cannot match the case drop out, and matching
// rows shed or refine their first pattern. The residual matrix is
// decided recursively, and a case whose residual matrix has uncovered
// tuples contributes witnesses with the case's value prepended.
//
// Two short-circuits bound the work: a row of only wildcards covers any
// matrix, and an empty matrix leaves a single all-wildcard witness.
// Residual results are memoized per invocation, keyed by the column and
// pattern identifiers of the matrix; with sharing of specialized
// wildcard rows this keeps the cost polynomial in the rows and the
// structural size of the space. Recursion terminates because every step
// either consumes a column or strictly shrinks the rows' pattern trees,
// and a matrix without non-wildcard patterns exits through a
// short-circuit, so self-referential spaces cannot recurse unboundedly.
//
// The computation is pure: it reads the spaces and rows, never mutates
// them, and leaves no state behind apart from counters on the Context.
package cover

import (
	"fmt"

	"tegula.dev/go/match/pattern"
	"tegula.dev/go/match/space"
)

// Uncovered returns witnesses for the values of s that no row matches,
// in canonical case order, at most limit of them. An empty result means
// the rows cover s entirely. Excluded rows are dropped up front; they
// never contribute.
func Uncovered(c *space.Context, s space.Space, rows []*pattern.Row, limit int) []*space.Value {
	if c == nil {
		fault("nil context")
	}
	if s == nil {
		fault("nil space")
	}
	if limit < 1 {
		limit = 1
	}
	ck := &checker{ctx: c, limit: limit, memo: map[string][]tuple{}}
	mrows := make([]row, 0, len(rows))
	for i, r := range rows {
		if r == nil || r.Pat == nil {
			fault("nil row %d", i)
		}
		if r.Excluded {
			continue
		}
		mrows = append(mrows, row{arm: r.Arm, ps: []*pattern.CPat{r.Pat}})
	}
	ts := ck.uncovered([]space.Space{s}, mrows)
	if len(ts) == 0 {
		return nil
	}
	out := make([]*space.Value, len(ts))
	for i, t := range ts {
		out[i] = fill(s, t[0])
	}
	return out
}

// fill concretizes an unconstrained witness position when the space
// admits exactly one value anyway.
func fill(s space.Space, v *space.Value) *space.Value {
	if v.Kind() == space.ValAny && s.Kind() == space.UnitKind {
		return space.UnitValue()
	}
	return v
}

type checker struct {
	ctx   *space.Context
	limit int
	memo  map[string][]tuple
}

// uncovered returns the tuples of the matrix's value space that no row
// matches, at most limit of them. The result is shared through the memo
// table and must not be mutated.
func (ck *checker) uncovered(cols []space.Space, rows []row) []tuple {
	if len(cols) == 0 {
		if len(rows) > 0 {
			return nil
		}
		return []tuple{{}}
	}
	for _, r := range rows {
		if r.allWild() {
			return nil
		}
	}
	if len(rows) == 0 {
		return []tuple{anyTuple(len(cols))}
	}
	if ck.ctx.LogCover > 0 {
		ck.ctx.Logf("cover %s cols=%d rows=%d", cols[0].Kind(), len(cols), len(rows))
		defer ck.ctx.Indent()()
	}
	k := ck.key(cols, rows)
	if ts, ok := ck.memo[k]; ok {
		ck.ctx.Stats.MemoHits++
		return ts
	}
	var ts []tuple
	switch s := cols[0].(type) {
	case *space.Unit:
		ts = ck.unit(cols, rows)
	case *space.Bool:
		ts = ck.boolean(cols, rows)
	case *space.Scalar, *space.Opaque:
		ts = ck.symbolic(cols, rows)
	case *space.Enum:
		ts = ck.enum(s, cols, rows)
	case *space.Product:
		ts = ck.product(s, cols, rows)
	case *space.Sum:
		if s.Closed() {
			ts = ck.closedSum(s, cols, rows)
		} else {
			ts = ck.openSum(cols, rows)
		}
	default:
		fault("unknown space %T", cols[0])
	}
	ck.memo[k] = ts
	return ts
}

// unit splits off the single unit case. Wildcards and the empty
// destructure match it; a literal is an equality test the unit rules
// never credit.
func (ck *checker) unit(cols []space.Space, rows []row) []tuple {
	ck.ctx.Stats.Splits++
	var sub []row
	for _, r := range rows {
		switch p := r.ps[0]; p.K {
		case pattern.CWild, pattern.CDest:
			sub = append(sub, r.rest())
		case pattern.CLit:
		default:
			ck.badHead(p, cols[0])
		}
	}
	return ck.expand(space.UnitValue(), cols[1:], sub)
}

func (ck *checker) boolean(cols []space.Space, rows []row) []tuple {
	var ts []tuple
	for _, b := range []bool{false, true} {
		if len(ts) >= ck.limit {
			break
		}
		ck.ctx.Stats.Splits++
		var sub []row
		for _, r := range rows {
			switch p := r.ps[0]; p.K {
			case pattern.CWild:
				sub = append(sub, r.rest())
			case pattern.CLit:
				if p.Val.Bool() == b {
					sub = append(sub, r.rest())
				}
			default:
				ck.badHead(p, cols[0])
			}
		}
		ts = ck.collect(ts, ck.expand(space.BoolValue(b), cols[1:], sub))
	}
	return ts
}

// symbolic handles scalar and opaque columns, and the unknown remainder
// of an open sum: a single case for which only a wildcard can match.
// Literals are defined never to match the symbolic value.
func (ck *checker) symbolic(cols []space.Space, rows []row) []tuple {
	ck.ctx.Stats.Splits++
	var sub []row
	for _, r := range rows {
		switch p := r.ps[0]; p.K {
		case pattern.CWild:
			sub = append(sub, r.rest())
		case pattern.CLit:
		default:
			ck.badHead(p, cols[0])
		}
	}
	return ck.expand(space.AnyValue(), cols[1:], sub)
}

// enum splits into the declared tags. Values outside the declared set
// are not part of the obligation; encountering one at runtime without a
// wildcard row is a defined fault of the surrounding system.
func (ck *checker) enum(s *space.Enum, cols []space.Space, rows []row) []tuple {
	var ts []tuple
	for i := 0; i < s.Len(); i++ {
		if len(ts) >= ck.limit {
			break
		}
		ck.ctx.Stats.Splits++
		tag := s.Tag(i)
		var sub []row
		for _, r := range rows {
			switch p := r.ps[0]; p.K {
			case pattern.CWild:
				sub = append(sub, r.rest())
			case pattern.CLit:
				if p.Val.Tag() == tag {
					sub = append(sub, r.rest())
				}
			default:
				ck.badHead(p, cols[0])
			}
		}
		ts = ck.collect(ts, ck.expand(space.TagValue(tag), cols[1:], sub))
	}
	return ts
}

// product flattens the column into its fields. Destructures contribute
// their elements; a wildcard row widens into one wildcard per field. A
// literal still whole at this point compares with an equality the
// checker cannot rely on and is dropped.
func (ck *checker) product(s *space.Product, cols []space.Space, rows []row) []tuple {
	ck.ctx.Stats.Splits++
	n := s.Len()
	ncols := make([]space.Space, 0, n+len(cols)-1)
	for i := 0; i < n; i++ {
		ncols = append(ncols, s.Field(i))
	}
	ncols = append(ncols, cols[1:]...)
	var sub []row
	for _, r := range rows {
		switch p := r.ps[0]; p.K {
		case pattern.CWild:
			sub = append(sub, r.widen(n))
		case pattern.CDest:
			sub = append(sub, r.flatten(p.Elems))
		case pattern.CLit:
		default:
			ck.badHead(p, cols[0])
		}
	}
	var ts []tuple
	for _, t := range ck.uncovered(ncols, sub) {
		if len(ts) >= ck.limit {
			break
		}
		ck.ctx.Stats.Witnesses++
		fields := make([]*space.Value, n)
		for i := 0; i < n; i++ {
			fields[i] = fill(s.Field(i), t[i])
		}
		ts = append(ts, prepend(space.TupleValue(fields...), t[n:]))
	}
	return ts
}

// closedSum splits into the declared alternatives, replacing the column
// with the alternative's payload space. The escape state outside the
// declared alternatives is not part of the obligation.
func (ck *checker) closedSum(s *space.Sum, cols []space.Space, rows []row) []tuple {
	var ts []tuple
	for i := 0; i < s.Len(); i++ {
		if len(ts) >= ck.limit {
			break
		}
		ck.ctx.Stats.Splits++
		ncols := make([]space.Space, 0, len(cols))
		ncols = append(ncols, s.Payload(i))
		ncols = append(ncols, cols[1:]...)
		var sub []row
		for _, r := range rows {
			switch p := r.ps[0]; p.K {
			case pattern.CWild:
				sub = append(sub, r.flatten([]*pattern.CPat{pattern.Wild}))
			case pattern.CTag:
				if j := altIndex(p.Alts, i); j >= 0 {
					sub = append(sub, r.flatten([]*pattern.CPat{p.Subs[j]}))
				}
			case pattern.CLit:
			default:
				ck.badHead(p, cols[0])
			}
		}
		tag := s.Tag(i)
		for _, t := range ck.uncovered(ncols, sub) {
			if len(ts) >= ck.limit {
				break
			}
			ck.ctx.Stats.Witnesses++
			ts = append(ts, prepend(space.AltValue(tag, fill(s.Payload(i), t[0])), t[1:]))
		}
	}
	return ts
}

// openSum treats the whole column as one symbolic case: unknown
// alternatives may exist beyond the declared ones, so tag tests are
// dropped no matter how many alternatives they name, and only a
// wildcard row can match.
func (ck *checker) openSum(cols []space.Space, rows []row) []tuple {
	ck.ctx.Stats.Splits++
	var sub []row
	for _, r := range rows {
		switch p := r.ps[0]; p.K {
		case pattern.CWild:
			sub = append(sub, r.rest())
		case pattern.CTag, pattern.CLit:
		default:
			ck.badHead(p, cols[0])
		}
	}
	return ck.expand(space.AnyValue(), cols[1:], sub)
}

// expand decides the residual matrix and prepends the case value to its
// witnesses.
func (ck *checker) expand(head *space.Value, cols []space.Space, rows []row) []tuple {
	sub := ck.uncovered(cols, rows)
	if len(sub) == 0 {
		return nil
	}
	ts := make([]tuple, 0, len(sub))
	for _, t := range sub {
		if len(ts) >= ck.limit {
			break
		}
		ck.ctx.Stats.Witnesses++
		ts = append(ts, prepend(head, t))
	}
	return ts
}

// collect appends witnesses up to the limit.
func (ck *checker) collect(ts, more []tuple) []tuple {
	for _, t := range more {
		if len(ts) >= ck.limit {
			break
		}
		ts = append(ts, t)
	}
	return ts
}

func (ck *checker) badHead(p *pattern.CPat, s space.Space) {
	ck.ctx.Assertf(false, "pattern %s at %s space", p, s.Kind())
}

func altIndex(alts []int, i int) int {
	for j, a := range alts {
		if a == i {
			return j
		}
	}
	return -1
}

func fault(format string, args ...interface{}) {
	panic(fmt.Sprintf("cover: "+format, args...))
}
