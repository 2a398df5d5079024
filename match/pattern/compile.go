// Copyright 2022 The Tegula Authors
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

package pattern

import (
	"sort"

	"tegula.dev/go/match/space"
)

// Compile validates one arm's pattern against the value space of the
// scrutinee and returns its normalized row.
//
// Normalization unwraps transparent Deref and Extract nodes, turns
// binders into wildcards, and expands a literal over a product with
// deep structural equality into the destructure of its field literals.
// A guard, a DerefCond, or an ExtractCond marks the row excluded:
// whether such an arm matches depends on information outside the value
// space, so it can never be credited with coverage. Subtrees below a
// conditional node match against a space only the runtime knows; they
// are left unvalidated and stand in as wildcards.
//
// Compile panics on malformed input: a nil or unknown node, a
// destructure of the wrong arity or at a non-product position, a tag
// test outside a sum, a selector naming an undeclared alternative, or a
// constant whose kind disagrees with its position.
func Compile(c *space.Context, s space.Space, arm int, p Node, guarded bool) *Row {
	if c == nil {
		fault("nil context")
	}
	if s == nil {
		fault("nil space")
	}
	if p == nil {
		fault("nil pattern for arm %d", arm)
	}
	cc := &compiler{ctx: c}
	pat := cc.compile(s, p)
	return &Row{Arm: arm, Excluded: guarded || cc.excluded, Pat: pat}
}

type compiler struct {
	ctx      *space.Context
	excluded bool
}

func (cc *compiler) compile(s space.Space, p Node) *CPat {
	switch x := p.(type) {
	case *Wildcard:
		return Wild
	case *Bind:
		if x.Name == "" {
			return Wild
		}
		return &CPat{id: cc.ctx.NextID(), K: CWild, Name: x.Name}
	case *Deref:
		return cc.transparent(s, x.Sub)
	case *Extract:
		return cc.transparent(s, x.Sub)
	case *DerefCond, *ExtractCond:
		cc.excluded = true
		return Wild
	case *Lit:
		return cc.lit(s, x.Value)
	case *Destructure:
		return cc.destructure(s, x)
	case *Tag:
		return cc.tag(s, x)
	case nil:
		fault("nil subpattern")
	}
	fault("unknown pattern node %T", p)
	return nil
}

// transparent compiles the body of an unconditional Deref or Extract.
// The node consumes one layer of indirection at runtime; the value
// space already describes the referenced value, so the body compiles
// against s itself.
func (cc *compiler) transparent(s space.Space, sub Node) *CPat {
	if sub == nil {
		fault("nil subpattern")
	}
	return cc.compile(s, sub)
}

func (cc *compiler) destructure(s space.Space, x *Destructure) *CPat {
	switch t := s.(type) {
	case *space.Unit:
		if len(x.Elems) != 0 {
			fault("destructure of arity %d at unit space", len(x.Elems))
		}
		return &CPat{id: cc.ctx.NextID(), K: CDest}
	case *space.Product:
		if len(x.Elems) != t.Len() {
			fault("destructure of arity %d against product of arity %d",
				len(x.Elems), t.Len())
		}
		elems := make([]*CPat, len(x.Elems))
		for i, e := range x.Elems {
			if e == nil {
				fault("nil subpattern")
			}
			elems[i] = cc.compile(t.Field(i), e)
		}
		return &CPat{id: cc.ctx.NextID(), K: CDest, Elems: elems}
	}
	fault("destructure at %s space", s.Kind())
	return nil
}

func (cc *compiler) tag(s space.Space, x *Tag) *CPat {
	t, ok := s.(*space.Sum)
	if !ok {
		fault("tag test at %s space", s.Kind())
	}
	alts := resolve(t, x.Sel)
	subs := make([]*CPat, len(alts))
	for i, a := range alts {
		if x.Sub == nil {
			subs[i] = Wild
		} else {
			subs[i] = cc.compile(t.Payload(a), x.Sub)
		}
	}
	return &CPat{id: cc.ctx.NextID(), K: CTag, Alts: alts, Subs: subs, Sel: x.Sel}
}

// resolve maps a selector to the ascending set of alternative indices
// it selects. A name unknown to an open sum resolves to the empty set:
// the alternative exists only at runtime, so the row can never be
// credited, but the input is not malformed.
func resolve(t *space.Sum, sel Selector) []int {
	switch sel.kind {
	case selIndex:
		checkAlt(t, sel.index)
		return []int{sel.index}
	case selName:
		i, ok := t.Index(sel.name)
		if !ok {
			if t.Closed() {
				fault("alternative %q not declared", sel.name)
			}
			return nil
		}
		return []int{i}
	case selSet:
		set := append([]int(nil), sel.set...)
		sort.Ints(set)
		out := set[:0]
		for _, a := range set {
			checkAlt(t, a)
			if n := len(out); n > 0 && out[n-1] == a {
				continue
			}
			out = append(out, a)
		}
		return out
	}
	fault("empty selector")
	return nil
}

func checkAlt(t *space.Sum, i int) {
	if i < 0 || i >= t.Len() {
		fault("alternative index %d out of range [0, %d)", i, t.Len())
	}
}

func (cc *compiler) lit(s space.Space, v space.Const) *CPat {
	switch t := s.(type) {
	case *space.Bool:
		if v.Kind() != space.ConstBool {
			fault("%s constant at bool space", v.Kind())
		}
	case *space.Unit:
		if v.Kind() != space.ConstUnit {
			fault("%s constant at unit space", v.Kind())
		}
	case *space.Enum:
		if v.Kind() != space.ConstTag {
			fault("%s constant at enum space", v.Kind())
		}
		if _, ok := t.Index(v.Tag()); !ok {
			fault("tag %q not declared", v.Tag())
		}
	case *space.Scalar:
		if k := v.Kind(); k != space.ConstNum && k != space.ConstString {
			fault("%s constant at scalar space", k)
		}
	case *space.Product:
		if cc.ctx.StructuralEq(t) {
			return cc.expandLit(t, v)
		}
		// Without structural equality the constant stays whole and the
		// row never counts at this position; its shape is not
		// constrained, since not every product value has a field-wise
		// constant form.
	case *space.Sum, *space.Opaque:
		// Equality against these kinds is never credited; any constant
		// form is accepted.
	default:
		fault("literal at %s space", s.Kind())
	}
	return &CPat{id: cc.ctx.NextID(), K: CLit, Val: v}
}

// expandLit rewrites a literal over a structurally compared product
// into the destructure of its field literals, so that the per-field
// rules can credit it. Unit fields become empty destructures: under
// field-wise equality they always compare equal.
func (cc *compiler) expandLit(p *space.Product, v space.Const) *CPat {
	if v.Kind() != space.ConstTuple {
		fault("%s constant at structural product space", v.Kind())
	}
	if v.Len() != p.Len() {
		fault("tuple constant of arity %d against product of arity %d",
			v.Len(), p.Len())
	}
	elems := make([]*CPat, p.Len())
	for i := range elems {
		f := p.Field(i)
		e := v.Elem(i)
		switch t := f.(type) {
		case *space.Unit:
			if e.Kind() != space.ConstUnit {
				fault("%s constant at unit space", e.Kind())
			}
			elems[i] = &CPat{id: cc.ctx.NextID(), K: CDest}
		case *space.Bool:
			if e.Kind() != space.ConstBool {
				fault("%s constant at bool space", e.Kind())
			}
			elems[i] = &CPat{id: cc.ctx.NextID(), K: CLit, Val: e}
		case *space.Product:
			cc.ctx.Assertf(cc.ctx.StructuralEq(t),
				"field %d of structural product is not structural", i)
			elems[i] = cc.expandLit(t, e)
		default:
			cc.ctx.Assertf(false,
				"field %d of structural product has kind %s", i, f.Kind())
		}
	}
	return &CPat{id: cc.ctx.NextID(), K: CDest, Elems: elems}
}
