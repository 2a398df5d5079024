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
	"fmt"
	"strings"

	"tegula.dev/go/match/space"
)

// CKind reports the shape of a compiled pattern node.
type CKind uint8

const (
	// CWild matches everything. Binders and the stand-ins for subtrees
	// below a conditional node compile to this kind.
	CWild CKind = 1 + iota

	// CLit matches values equal to a constant.
	CLit

	// CDest matches a product field by field, or a unit trivially.
	CDest

	// CTag tests a sum for a set of alternatives.
	CTag
)

// A CPat is a compiled pattern node. Compilation reduces the surface
// node kinds to these four: transparent wrappers are unwrapped, binders
// become wildcards, structural literals over products are expanded into
// destructures, and conditional nodes are replaced by wildcards with the
// row marked excluded.
type CPat struct {
	id uint32

	K CKind

	// Name is the binder name, if the pattern bound one.
	Name string

	// Val is the constant of a CLit.
	Val space.Const

	// Elems are the field patterns of a CDest.
	Elems []*CPat

	// Alts are the alternative indices a CTag selects, ascending.
	// Subs holds the payload pattern compiled against each selected
	// alternative's payload space, aligned with Alts.
	Alts []int
	Subs []*CPat

	// Sel is the surface selector of a CTag, kept for diagnostics.
	Sel Selector
}

// Wild is the compiled wildcard. Unnamed wildcards all compile to this
// one node, and coverage checking uses it to pad rows when flattening a
// product into its fields. Its identifier is zero; all other compiled
// nodes draw nonzero identifiers from their Context.
var Wild = &CPat{K: CWild}

// ID returns the node's identifier, unique within the Context the
// pattern was compiled in. Identifiers key coverage memo tables.
func (p *CPat) ID() uint32 { return p.id }

func (p *CPat) String() string {
	switch p.K {
	case CWild:
		if p.Name != "" {
			return p.Name
		}
		return "_"
	case CLit:
		return p.Val.String()
	case CDest:
		elems := make([]string, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = e.String()
		}
		return "(" + strings.Join(elems, ", ") + ")"
	case CTag:
		sub := "_"
		if len(p.Subs) > 0 {
			sub = p.Subs[0].String()
		}
		return "<" + p.Sel.String() + ">" + sub
	}
	return fmt.Sprintf("cpat(%d)", int(p.K))
}

// A Row is one compiled match arm.
type Row struct {
	// Arm is the arm's position in the declaration order of the match.
	Arm int

	// Excluded reports that the arm never counts toward coverage: it
	// carries a guard, or its pattern contains a conditional dereference
	// or extraction.
	Excluded bool

	// Pat is the compiled pattern. For an excluded arm, subtrees below
	// the excluding node appear as wildcards; the flag keeps the row out
	// of coverage regardless.
	Pat *CPat
}

func (r *Row) String() string {
	s := r.Pat.String()
	if r.Excluded {
		s += " (excluded)"
	}
	return s
}
